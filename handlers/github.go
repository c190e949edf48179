package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RepoLister is the slice of the GitHub client the handler needs.
type RepoLister interface {
	Repos(ctx context.Context, username string) ([]byte, error)
}

type GithubHandler struct {
	client RepoLister
	log    *logrus.Logger
}

func NewGithubHandler(client RepoLister, log *logrus.Logger) *GithubHandler {
	return &GithubHandler{client: client, log: log}
}

// Repos proxies a user's public GitHub repositories. Upstream failures of any
// kind read as a missing profile. Public.
// GET /api/profile/github/:username
func (h *GithubHandler) Repos(c *gin.Context) {
	ctx, cancel := requestCtx(c)
	defer cancel()

	body, err := h.client.Repos(ctx, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "No github profile found"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
