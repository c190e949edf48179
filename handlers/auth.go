package handlers

import (
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"devhub/models"
	"devhub/repository"
	"devhub/token"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	users  repository.UserRepository
	tokens *token.Service
	log    *logrus.Logger
}

func NewAuthHandler(users repository.UserRepository, tokens *token.Service, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

var registerMessages = map[string]string{
	"Name":     "Name is required",
	"Email":    "Please include a valid email address",
	"Password": "Please enter a password with 6 or more characters",
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var loginMessages = map[string]string{
	"Email":    "Please include a valid email address",
	"Password": "Password is required",
}

// Register creates a user account and returns a signed token.
// POST /api/users
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req, registerMessages) {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if _, err := h.users.FindByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "User already exists"}}})
		return
	} else if !errors.Is(err, models.ErrNotFound) {
		serverError(c, h.log, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   gravatarURL(req.Email),
		Date:     time.Now(),
	}

	if err := h.users.Create(ctx, user); err != nil {
		// Unique index on email closes the check-then-insert window.
		if errors.Is(err, models.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "User already exists"}}})
			return
		}
		serverError(c, h.log, err)
		return
	}

	tok, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// Login checks credentials and returns a signed token.
// POST /api/auth
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, loginMessages) {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	user, err := h.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid Credentials"}}})
		return
	}
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid Credentials"}}})
		return
	}

	tok, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// Current returns the authenticated user without the password hash.
// GET /api/auth
func (h *AuthHandler) Current(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	user, err := h.users.FindByID(ctx, id)
	if err != nil {
		respondError(c, h.log, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

// gravatarURL derives the avatar stored on the user at registration: 200px,
// pg-rated, with the mystery-man fallback.
func gravatarURL(email string) string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", hash)
}
