package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"devhub/handlers"
	"devhub/models"
	"devhub/routes"
	"devhub/token"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes behind the repository interfaces. They hand out copies so
// handler mutations only become visible through Save, like the real store.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return models.ErrUserExists
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copy := u
			return &copy, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copy := u
	return &copy, nil
}

func (r *fakeUserRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]models.Profile // keyed by owning user id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[primitive.ObjectID]models.Profile)}
}

func copyProfile(p models.Profile) models.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Experience = append([]models.Experience(nil), p.Experience...)
	p.Education = append([]models.Education(nil), p.Education...)
	return p
}

func (r *fakeProfileRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	copy := copyProfile(p)
	return &copy, nil
}

func (r *fakeProfileRepo) FindAll(_ context.Context) ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Profile{}
	for _, p := range r.profiles {
		out = append(out, copyProfile(p))
	}
	return out, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, userID primitive.ObjectID, fields models.ProfileFields) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		p = models.Profile{
			ID:         primitive.NewObjectID(),
			User:       userID,
			Experience: []models.Experience{},
			Education:  []models.Education{},
		}
	}
	p.Status = fields.Status
	p.Skills = fields.Skills
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&p.Company, fields.Company)
	apply(&p.Website, fields.Website)
	apply(&p.Location, fields.Location)
	apply(&p.Bio, fields.Bio)
	apply(&p.GithubUsername, fields.GithubUsername)
	apply(&p.Social.Youtube, fields.Youtube)
	apply(&p.Social.Twitter, fields.Twitter)
	apply(&p.Social.Facebook, fields.Facebook)
	apply(&p.Social.Linkedin, fields.Linkedin)
	apply(&p.Social.Instagram, fields.Instagram)

	r.profiles[userID] = p
	copy := copyProfile(p)
	return &copy, nil
}

func (r *fakeProfileRepo) Save(_ context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.User] = copyProfile(*profile)
	return nil
}

func (r *fakeProfileRepo) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, userID)
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]models.Post)}
}

func copyPost(p models.Post) models.Post {
	p.Likes = append([]models.Like(nil), p.Likes...)
	p.Comments = append([]models.Comment(nil), p.Comments...)
	return p
}

func (r *fakePostRepo) Insert(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = copyPost(*post)
	return nil
}

func (r *fakePostRepo) FindAll(_ context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Post{}
	for _, p := range r.posts {
		out = append(out, copyPost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copy := copyPost(p)
	return &copy, nil
}

func (r *fakePostRepo) Save(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = copyPost(*post)
	return nil
}

func (r *fakePostRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.posts {
		if p.User == userID {
			delete(r.posts, id)
		}
	}
	return nil
}

type testEnv struct {
	router   *gin.Engine
	tokens   *token.Service
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	posts    *fakePostRepo
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	tokens := token.NewService("test-secret")
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	posts := newFakePostRepo()

	router := routes.Setup(routes.Handlers{
		Auth:    handlers.NewAuthHandler(users, tokens, log),
		Profile: handlers.NewProfileHandler(profiles, posts, users, log),
		Post:    handlers.NewPostHandler(posts, users, log),
		Github:  handlers.NewGithubHandler(stubRepoLister{}, log),
	}, tokens)

	return &testEnv{router: router, tokens: tokens, users: users, profiles: profiles, posts: posts}
}

type stubRepoLister struct{}

func (stubRepoLister) Repos(context.Context, string) ([]byte, error) {
	return nil, models.ErrNotFound
}

func (e *testEnv) do(t *testing.T, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the API and returns the token.
func (e *testEnv) register(t *testing.T, name, email, password string) string {
	t.Helper()

	w := e.do(t, "POST", "/api/users", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
