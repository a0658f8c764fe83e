package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pawclub/internal/auth"
	"pawclub/internal/repository"
	"pawclub/internal/service"
	"pawclub/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	authn    *auth.Authenticator
	forum    service.ForumService
	events   service.EventService
	profiles service.ProfileService
	storage  storage.Service
	bucket   string
	logger   *logrus.Logger
}

func NewHandler(
	authn *auth.Authenticator,
	forum service.ForumService,
	events service.EventService,
	profiles service.ProfileService,
	store storage.Service,
	bucket string,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		authn:    authn,
		forum:    forum,
		events:   events,
		profiles: profiles,
		storage:  store,
		bucket:   bucket,
		logger:   logger,
	}
}

// routeRules is the static access table enforced by the gate. First match
// wins; anything not listed requires authentication.
func routeRules() []RouteRule {
	return []RouteRule{
		{Method: http.MethodPost, Pattern: "/api/users/register", Level: Public},
		{Method: http.MethodPost, Pattern: "/api/users/login", Level: Public},
		{Method: http.MethodGet, Pattern: "/api/health", Level: Public},
		{Method: http.MethodGet, Pattern: "/api/categories", Level: Public},
		{Method: http.MethodGet, Pattern: "/api/categories/:id/posts", Level: Public},
		{Method: http.MethodGet, Pattern: "/api/posts/:id", Level: Public},
		{Method: http.MethodGet, Pattern: "/api/posts/:id/replies", Level: Public},
		{Method: http.MethodGet, Pattern: "/api/events", Level: Public},
		{Method: http.MethodGet, Pattern: "/api/events/:id", Level: Public},
		{Method: http.MethodGet, Pattern: "/api/images/*key", Level: Public},
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(AuthGate(h.authn, routeRules(), h.logger))

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/users/register", h.register)
		api.POST("/users/login", h.login)
		api.PUT("/users/password", h.changePassword)
		api.GET("/users/profile", h.getProfile)
		api.PUT("/users/profile/name", h.updateName)
		api.POST("/users/profile/avatar", h.uploadAvatar)

		api.GET("/categories", h.listCategories)
		api.GET("/categories/:id/posts", h.listPostsByCategory)
		api.POST("/posts", h.createPost)
		api.GET("/posts/:id", h.getPost)
		api.DELETE("/posts/:id", h.deletePost)
		api.POST("/posts/:id/like", h.react(repository.ReactionLike))
		api.POST("/posts/:id/dislike", h.react(repository.ReactionDislike))
		api.POST("/posts/:id/favorite", h.react(repository.ReactionFavorite))
		api.GET("/posts/:id/replies", h.listReplies)
		api.POST("/posts/:id/replies", h.createReply)
		api.DELETE("/replies/:id", h.deleteReply)

		api.GET("/events", h.listEvents)
		api.GET("/events/:id", h.getEvent)
		api.POST("/events", h.createEvent)
		api.POST("/events/:id/signup", h.signUp)
		api.DELETE("/events/:id/signup", h.cancelSignup)

		api.GET("/images/*key", h.imageRedirect)
		api.GET("/storage/objects", h.listObjects)
	}
}

type registerRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	AvatarURL   string `json:"avatar_url"`
	Description string `json:"description"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authn.Register(c.Request.Context(), auth.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		AvatarURL:   req.AvatarURL,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered",
		"user":    userToResponse(user),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authn.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *Handler) changePassword(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changed, err := h.authn.ChangePassword(c.Request.Context(), principal.Email, req.CurrentPassword, req.NewPassword)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !changed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current password is incorrect"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *Handler) getProfile(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profileToResponse(profile))
}

type updateNameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) updateName(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.profiles.UpdateName(c.Request.Context(), principal.UserID, req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "name updated"})
}

func (h *Handler) uploadAvatar(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image"})
		return
	}
	defer src.Close()

	url, err := h.profiles.UpdateAvatar(c.Request.Context(), principal.UserID, src)
	if err != nil {
		if errors.Is(err, service.ErrStorageDisabled) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "avatar updated", "avatar_url": url})
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.forum.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]CategoryResponse, len(categories))
	for i := range categories {
		resp[i] = CategoryResponse{
			ID:          categories[i].ID,
			Name:        categories[i].Name,
			Description: categories[i].Description,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listPostsByCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	posts, err := h.forum.ListPostsByCategory(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createPost(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	categoryID, err := strconv.ParseInt(c.PostForm("category_id"), 10, 64)
	if err != nil || categoryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	in := service.CreatePostInput{
		CategoryID: categoryID,
		Title:      c.PostForm("title"),
		Content:    c.PostForm("content"),
	}

	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image"})
			return
		}
		defer src.Close()
		in.Image = src
	}

	post, err := h.forum.CreatePost(c.Request.Context(), principal.UserID, in)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		case errors.Is(err, service.ErrStorageDisabled):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, postToResponse(*post))
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, err := h.forum.GetPost(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) deletePost(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.forum.DeletePost(c.Request.Context(), principal, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) react(reaction repository.Reaction) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}

		set, err := h.forum.ToggleReaction(c.Request.Context(), principal.UserID, id, reaction)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"reaction": string(reaction), "set": set})
	}
}

type createReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) createReply(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}
	postID, ok := pathID(c)
	if !ok {
		return
	}

	var req createReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.forum.CreateReply(c.Request.Context(), principal.UserID, postID, req.Content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, replyToResponse(*reply))
}

func (h *Handler) listReplies(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}

	replies, err := h.forum.ListReplies(c.Request.Context(), postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]ReplyResponse, len(replies))
	for i := range replies {
		resp[i] = replyToResponse(replies[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) deleteReply(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.forum.DeleteReply(c.Request.Context(), principal, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reply not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	Capacity    int       `json:"capacity"`
	ImageURL    string    `json:"image_url"`
}

func (h *Handler) createEvent(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), principal.UserID, service.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, eventToResponse(*event))
}

func (h *Handler) listEvents(c *gin.Context) {
	events, err := h.events.ListUpcoming(c.Request.Context(), viewerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = eventToResponse(events[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getEvent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	event, err := h.events.GetEvent(c.Request.Context(), id, viewerID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, eventToResponse(*event))
}

func (h *Handler) signUp(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.events.SignUp(c.Request.Context(), id, principal.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		case errors.Is(err, service.ErrAlreadySignedUp):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEventFull):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "signed up"})
}

func (h *Handler) cancelSignup(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		unauthorized(c)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.events.CancelSignup(c.Request.Context(), id, principal.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		case errors.Is(err, service.ErrNotSignedUp):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "signup cancelled"})
}

func (h *Handler) imageRedirect(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "object key is required"})
		return
	}

	url, err := h.storage.GetObjectURL(c.Request.Context(), h.bucket, key, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Redirect(http.StatusFound, url)
}

func (h *Handler) listObjects(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	prefix := c.Query("prefix")
	objects, err := h.storage.ListObjects(c.Request.Context(), h.bucket, prefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// viewerID returns the authenticated user's id, or 0 for anonymous requests.
func viewerID(c *gin.Context) int64 {
	if principal, ok := PrincipalFrom(c); ok {
		return principal.UserID
	}
	return 0
}
