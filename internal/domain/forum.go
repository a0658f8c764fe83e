package domain

import "time"

// Category groups forum posts by topic.
type Category struct {
	ID          int64
	Name        string
	Description string
}

// Post is a forum entry created by a user within a category.
type Post struct {
	ID         int64
	CategoryID int64
	AuthorID   int64
	Title      string
	Content    string
	ImageURL   string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Aggregates filled by the service layer, not stored on the row.
	AuthorName string
	Likes      int
	Dislikes   int
	Favorites  int
	Replies    []Reply
}

// Reply is a comment on a post.
type Reply struct {
	ID         int64
	PostID     int64
	AuthorID   int64
	Content    string
	CreatedAt  time.Time
	AuthorName string
}
