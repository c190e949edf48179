package handlers

import (
	"net/http"
	"strings"

	"devhub/models"
	"devhub/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProfileHandler struct {
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	log      *logrus.Logger
}

func NewProfileHandler(profiles repository.ProfileRepository, posts repository.PostRepository, users repository.UserRepository, log *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, posts: posts, users: users, log: log}
}

type profileRequest struct {
	Status         string  `json:"status" binding:"required"`
	Skills         string  `json:"skills" binding:"required"`
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	Youtube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Linkedin       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

var profileMessages = map[string]string{
	"Status": "Status is required",
	"Skills": "Skills are required",
}

type experienceRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	From        string `json:"from" binding:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

var experienceMessages = map[string]string{
	"Title":   "Title is required",
	"Company": "Company is required",
	"From":    "From date is required",
}

type educationRequest struct {
	School       string `json:"school" binding:"required"`
	Degree       string `json:"degree" binding:"required"`
	FieldOfStudy string `json:"fieldOfStudy" binding:"required"`
	From         string `json:"from" binding:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var educationMessages = map[string]string{
	"School":       "School is required",
	"Degree":       "Degree is required",
	"FieldOfStudy": "Field of Study is required",
	"From":         "From date is required",
}

// GetMe returns the caller's own profile.
// GET /api/profile/me
func (h *ProfileHandler) GetMe(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	profile, err := h.profiles.FindByUser(ctx, id)
	if err != nil {
		respondError(c, h.log, err, "There is no profile for this user")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Upsert creates the caller's profile or merges the provided fields into it.
// Omitted optional fields keep their stored values.
// POST /api/profile
func (h *ProfileHandler) Upsert(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	var req profileRequest
	if !bindJSON(c, &req, profileMessages) {
		return
	}

	fields := models.ProfileFields{
		Status:         req.Status,
		Skills:         splitSkills(req.Skills),
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	profile, err := h.profiles.Upsert(ctx, id, fields)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// List returns all profiles. Public.
// GET /api/profile
func (h *ProfileHandler) List(c *gin.Context) {
	ctx, cancel := requestCtx(c)
	defer cancel()

	profiles, err := h.profiles.FindAll(ctx)
	if err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// GetByUser returns the profile belonging to the given user. Public.
// GET /api/profile/user/:userId
func (h *ProfileHandler) GetByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId", "Profile not found")
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	profile, err := h.profiles.FindByUser(ctx, userID)
	if err != nil {
		respondError(c, h.log, err, "Profile not found")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Delete removes the caller's posts, profile and user record. The store has
// no multi-document transaction, so the three deletes run in sequence; a
// failure partway through can leave the account without posts or profile.
// DELETE /api/profile
func (h *ProfileHandler) Delete(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.posts.DeleteByUser(ctx, id); err != nil {
		serverError(c, h.log, err)
		return
	}
	if err := h.profiles.DeleteByUser(ctx, id); err != nil {
		serverError(c, h.log, err)
		return
	}
	if err := h.users.DeleteByID(ctx, id); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "User removed successfully"})
}

// AddExperience prepends an experience entry to the caller's profile.
// PUT /api/profile/experience
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	var req experienceRequest
	if !bindJSON(c, &req, experienceMessages) {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	profile, err := h.profiles.FindByUser(ctx, id)
	if err != nil {
		respondError(c, h.log, err, "There is no profile for this user")
		return
	}

	exp := models.Experience{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}
	profile.Experience = append([]models.Experience{exp}, profile.Experience...)

	if err := h.profiles.Save(ctx, profile); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteExperience removes an experience entry by id. An unknown id is an
// explicit not-found, never a silent removal of another entry.
// DELETE /api/profile/experience/:id
func (h *ProfileHandler) DeleteExperience(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	expID, ok := pathID(c, "id", "Experience not found")
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	profile, err := h.profiles.FindByUser(ctx, id)
	if err != nil {
		respondError(c, h.log, err, "There is no profile for this user")
		return
	}

	idx := -1
	for i, exp := range profile.Experience {
		if exp.ID == expID {
			idx = i
			break
		}
	}
	if idx == -1 {
		respondError(c, h.log, models.ErrNotFound, "Experience not found")
		return
	}
	profile.Experience = append(profile.Experience[:idx], profile.Experience[idx+1:]...)

	if err := h.profiles.Save(ctx, profile); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// AddEducation prepends an education entry to the caller's profile.
// PUT /api/profile/education
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	var req educationRequest
	if !bindJSON(c, &req, educationMessages) {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	profile, err := h.profiles.FindByUser(ctx, id)
	if err != nil {
		respondError(c, h.log, err, "There is no profile for this user")
		return
	}

	edu := models.Education{
		ID:           primitive.NewObjectID(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}
	profile.Education = append([]models.Education{edu}, profile.Education...)

	if err := h.profiles.Save(ctx, profile); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteEducation removes an education entry by id.
// DELETE /api/profile/education/:id
func (h *ProfileHandler) DeleteEducation(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	eduID, ok := pathID(c, "id", "Education not found")
	if !ok {
		return
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	profile, err := h.profiles.FindByUser(ctx, id)
	if err != nil {
		respondError(c, h.log, err, "There is no profile for this user")
		return
	}

	idx := -1
	for i, edu := range profile.Education {
		if edu.ID == eduID {
			idx = i
			break
		}
	}
	if idx == -1 {
		respondError(c, h.log, models.ErrNotFound, "Education not found")
		return
	}
	profile.Education = append(profile.Education[:idx], profile.Education[idx+1:]...)

	if err := h.profiles.Save(ctx, profile); err != nil {
		serverError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// splitSkills turns the comma-delimited skills input into a trimmed list.
func splitSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
