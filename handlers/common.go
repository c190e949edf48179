package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"devhub/middleware"
	"devhub/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dbTimeout = 10 * time.Second

// requestCtx bounds every store call to a per-request timeout.
func requestCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), dbTimeout)
}

// bindJSON binds the request body and, on failure, writes the field-level
// validation response before any repository is touched. messages maps struct
// field names to the message returned for that field.
func bindJSON(c *gin.Context, req interface{}, messages map[string]string) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]gin.H, 0, len(verrs))
		for _, fe := range verrs {
			msg, ok := messages[fe.Field()]
			if !ok {
				msg = fe.Field() + " is invalid"
			}
			out = append(out, gin.H{"msg": msg})
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": out})
		return false
	}

	c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"msg": "Invalid request body"}}})
	return false
}

// callerID resolves the authenticated user id placed in the context by the
// auth gate.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathID parses an object id path parameter. A malformed id is reported the
// same way as a missing document.
func pathID(c *gin.Context, param, notFoundMsg string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": notFoundMsg})
		return primitive.NilObjectID, false
	}
	return id, true
}

// serverError logs the real failure and hides it from the client.
func serverError(c *gin.Context, log *logrus.Logger, err error) {
	log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server Error"})
}

// respondError translates a domain error into its HTTP response. notFoundMsg
// names the missing resource, since that wording differs per route; anything
// outside the taxonomy is an internal error.
func respondError(c *gin.Context, log *logrus.Logger, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": notFoundMsg})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authorized"})
	case errors.Is(err, models.ErrAlreadyLiked):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Post already liked"})
	case errors.Is(err, models.ErrNotLiked):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Post has not yet been liked"})
	default:
		serverError(c, log, err)
	}
}
