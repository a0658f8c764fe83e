package http

import (
	"time"

	"pawclub/internal/domain"
	"pawclub/internal/service"
	"pawclub/internal/storage"
)

type UserResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url"`
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PostResponse struct {
	ID         int64           `json:"id"`
	CategoryID int64           `json:"category_id"`
	AuthorID   int64           `json:"author_id"`
	AuthorName string          `json:"author_name"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	ImageURL   string          `json:"image_url,omitempty"`
	Likes      int             `json:"likes"`
	Dislikes   int             `json:"dislikes"`
	Favorites  int             `json:"favorites"`
	CreatedAt  string          `json:"created_at"`
	Replies    []ReplyResponse `json:"replies,omitempty"`
}

type ReplyResponse struct {
	ID         int64  `json:"id"`
	PostID     int64  `json:"post_id"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

type EventResponse struct {
	ID          int64  `json:"id"`
	CreatorID   int64  `json:"creator_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartsAt    string `json:"starts_at"`
	Capacity    int    `json:"capacity"`
	ImageURL    string `json:"image_url,omitempty"`
	SignupCount int    `json:"signup_count"`
	SignedUp    bool   `json:"signed_up"`
	CreatedAt   string `json:"created_at"`
}

type ProfileResponse struct {
	User           UserResponse         `json:"user"`
	PostsCreated   []PostResponse       `json:"posts_created"`
	PostsLiked     []PostResponse       `json:"posts_liked"`
	PostsFavorited []PostResponse       `json:"posts_favorited"`
	EventsCreated  []EventResponse      `json:"events_created"`
	EventsJoined   []EventResponse      `json:"events_joined"`
	Stats          ProfileStatsResponse `json:"stats"`
}

type ProfileStatsResponse struct {
	TotalPosts  int `json:"total_posts"`
	TotalLikes  int `json:"total_likes"`
	TotalEvents int `json:"total_events"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		AvatarURL:   user.AvatarURL,
		Role:        string(user.Role),
		Description: user.Description,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}

func postToResponse(post domain.Post) PostResponse {
	resp := PostResponse{
		ID:         post.ID,
		CategoryID: post.CategoryID,
		AuthorID:   post.AuthorID,
		AuthorName: post.AuthorName,
		Title:      post.Title,
		Content:    post.Content,
		ImageURL:   post.ImageURL,
		Likes:      post.Likes,
		Dislikes:   post.Dislikes,
		Favorites:  post.Favorites,
		CreatedAt:  post.CreatedAt.Format(time.RFC3339),
	}
	if len(post.Replies) > 0 {
		resp.Replies = make([]ReplyResponse, len(post.Replies))
		for i := range post.Replies {
			resp.Replies[i] = replyToResponse(post.Replies[i])
		}
	}
	return resp
}

func replyToResponse(reply domain.Reply) ReplyResponse {
	return ReplyResponse{
		ID:         reply.ID,
		PostID:     reply.PostID,
		AuthorID:   reply.AuthorID,
		AuthorName: reply.AuthorName,
		Content:    reply.Content,
		CreatedAt:  reply.CreatedAt.Format(time.RFC3339),
	}
}

func eventToResponse(event domain.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		CreatorID:   event.CreatorID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartsAt:    event.StartsAt.Format(time.RFC3339),
		Capacity:    event.Capacity,
		ImageURL:    event.ImageURL,
		SignupCount: event.SignupCount,
		SignedUp:    event.SignedUp,
		CreatedAt:   event.CreatedAt.Format(time.RFC3339),
	}
}

func profileToResponse(profile *service.Profile) ProfileResponse {
	resp := ProfileResponse{
		User:           userToResponse(profile.User),
		PostsCreated:   make([]PostResponse, len(profile.PostsCreated)),
		PostsLiked:     make([]PostResponse, len(profile.PostsLiked)),
		PostsFavorited: make([]PostResponse, len(profile.PostsFavorited)),
		EventsCreated:  make([]EventResponse, len(profile.EventsCreated)),
		EventsJoined:   make([]EventResponse, len(profile.EventsJoined)),
		Stats: ProfileStatsResponse{
			TotalPosts:  profile.Stats.TotalPosts,
			TotalLikes:  profile.Stats.TotalLikes,
			TotalEvents: profile.Stats.TotalEvents,
		},
	}
	for i := range profile.PostsCreated {
		resp.PostsCreated[i] = postToResponse(profile.PostsCreated[i])
	}
	for i := range profile.PostsLiked {
		resp.PostsLiked[i] = postToResponse(profile.PostsLiked[i])
	}
	for i := range profile.PostsFavorited {
		resp.PostsFavorited[i] = postToResponse(profile.PostsFavorited[i])
	}
	for i := range profile.EventsCreated {
		resp.EventsCreated[i] = eventToResponse(profile.EventsCreated[i])
	}
	for i := range profile.EventsJoined {
		resp.EventsJoined[i] = eventToResponse(profile.EventsJoined[i])
	}
	return resp
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
