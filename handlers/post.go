package handlers

import (
	"net/http"
	"time"

	"devhub/models"
	"devhub/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostHandler struct {
	posts repository.PostRepository
	users repository.UserRepository
	log   *logrus.Logger
}

func NewPostHandler(posts repository.PostRepository, users repository.UserRepository, log *logrus.Logger) *PostHandler {
	return &PostHandler{posts: posts, users: users, log: log}
}

type postRequest struct {
	Text string `json:"text" binding:"required"`
}

var postMessages = map[string]string{
	"Text": "Comment is required",
}

// Create publishes a post, snapshotting the caller's current name and avatar.
// POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	var req postRequest
	if !bindJSON(c, &req, postMessages) {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	user, err := h.users.FindByID(ctx, id)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	post := &models.Post{
		ID:       primitive.NewObjectID(),
		User:     id,
		Text:     req.Text,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     time.Now(),
	}

	if err := h.posts.Insert(ctx, post); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// List returns all posts, newest first.
// GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	ctx, cancel := requestCtx(c)
	defer cancel()

	posts, err := h.posts.FindAll(ctx)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetByID returns a single post.
// GET /api/posts/:id
func (h *PostHandler) GetByID(c *gin.Context) {
	postID, ok := pathID(c, "id", "Post not found")
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	post, err := h.posts.FindByID(ctx, postID)
	if err != nil {
		respondError(c, h.log, err, "Post not found")
		return
	}

	c.JSON(http.StatusOK, post)
}

// Delete removes a post; only its author may do so.
// DELETE /api/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id", "Post not found")
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	post, err := h.posts.FindByID(ctx, postID)
	if err != nil {
		respondError(c, h.log, err, "Post not found")
		return
	}

	if post.User != id {
		respondError(c, h.log, models.ErrForbidden, "")
		return
	}

	if err := h.posts.DeleteByID(ctx, postID); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Post removed successfully"})
}

// Like adds the caller's like at the head of the likes list. A second like by
// the same user is rejected, not deduplicated.
// PUT /api/posts/like/:id
func (h *PostHandler) Like(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id", "Post not found")
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	post, err := h.posts.FindByID(ctx, postID)
	if err != nil {
		respondError(c, h.log, err, "Post not found")
		return
	}

	if post.LikedBy(id) {
		respondError(c, h.log, models.ErrAlreadyLiked, "")
		return
	}

	post.Likes = append([]models.Like{{User: id}}, post.Likes...)

	if err := h.posts.Save(ctx, post); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post.Likes)
}

// Unlike removes the caller's like; the caller must currently hold one.
// PUT /api/posts/unlike/:id
func (h *PostHandler) Unlike(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id", "Post not found")
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	post, err := h.posts.FindByID(ctx, postID)
	if err != nil {
		respondError(c, h.log, err, "Post not found")
		return
	}

	idx := -1
	for i, like := range post.Likes {
		if like.User == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		respondError(c, h.log, models.ErrNotLiked, "")
		return
	}
	post.Likes = append(post.Likes[:idx], post.Likes[idx+1:]...)

	if err := h.posts.Save(ctx, post); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post.Likes)
}

// AddComment prepends a comment with a snapshot of the caller's name and
// avatar, and returns the updated comment list.
// POST /api/posts/comment/:id
func (h *PostHandler) AddComment(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id", "Post not found")
	if !ok {
		return
	}

	var req postRequest
	if !bindJSON(c, &req, postMessages) {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	post, err := h.posts.FindByID(ctx, postID)
	if err != nil {
		respondError(c, h.log, err, "Post not found")
		return
	}

	user, err := h.users.FindByID(ctx, id)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	comment := models.Comment{
		ID:     primitive.NewObjectID(),
		User:   id,
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   time.Now(),
	}
	post.Comments = append([]models.Comment{comment}, post.Comments...)

	if err := h.posts.Save(ctx, post); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post.Comments)
}

// DeleteComment removes a comment by its own id; only the comment's author
// may remove it.
// DELETE /api/posts/comment/:id/:commentId
func (h *PostHandler) DeleteComment(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id", "Post not found")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId", "Comment does not exist")
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	post, err := h.posts.FindByID(ctx, postID)
	if err != nil {
		respondError(c, h.log, err, "Post not found")
		return
	}

	idx := -1
	for i, comment := range post.Comments {
		if comment.ID == commentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		respondError(c, h.log, models.ErrNotFound, "Comment does not exist")
		return
	}

	if post.Comments[idx].User != id {
		respondError(c, h.log, models.ErrForbidden, "")
		return
	}

	post.Comments = append(post.Comments[:idx], post.Comments[idx+1:]...)

	if err := h.posts.Save(ctx, post); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post.Comments)
}
