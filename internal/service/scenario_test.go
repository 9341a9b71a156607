package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/auth"
	apperrors "quill/internal/errors"
	"quill/internal/form"
	"quill/internal/model"
)

// fakeUserRepo is an in-memory repository for end-to-end service flows
// where mock expectations would obscure the scenario.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakePostRepo struct {
	mu     sync.Mutex
	nextID uint
	posts  map[uint]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{nextID: 1, posts: make(map[uint]*model.Post)}
}

func (r *fakePostRepo) Create(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.ID = r.nextID
	r.nextID++
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) Update(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return apperrors.ErrPostNotFound
	}
	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return apperrors.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id uint) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post, ok := r.posts[id]; ok {
		clone := *post
		return &clone, nil
	}
	return nil, apperrors.ErrPostNotFound
}

func (r *fakePostRepo) sorted() []model.Post {
	out := make([]model.Post, 0, len(r.posts))
	for _, post := range r.posts {
		out = append(out, *post)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DatePosted.After(out[j].DatePosted)
	})
	return out
}

func paginate(posts []model.Post, page, perPage int) []model.Post {
	start := (page - 1) * perPage
	if start >= len(posts) {
		return nil
	}
	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}

func (r *fakePostRepo) ListPage(_ context.Context, page, perPage int) ([]model.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted()
	return paginate(all, page, perPage), int64(len(all)), nil
}

func (r *fakePostRepo) ListByAuthorPage(_ context.Context, authorID uint, page, perPage int) ([]model.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []model.Post
	for _, post := range r.sorted() {
		if post.AuthorID == authorID {
			mine = append(mine, post)
		}
	}
	return paginate(mine, page, perPage), int64(len(mine)), nil
}

func formMessages(errs []form.FieldError, field string) []string {
	var out []string
	for _, e := range errs {
		if e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

// recordingMailer keeps every reset link it was asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) SendPasswordReset(_, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, resetURL)
	return nil
}

func TestRegisterLoginPostFlow(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	posts := newFakePostRepo()

	authSvc := NewAuthService(users, auth.NewResetTokenSigner("test-secret", 30*time.Minute), &recordingMailer{}, testBaseURL)
	postSvc := NewPostService(posts, users, nilCache)

	reg := form.Registration{Username: "alice", Email: "a@x.com", Password: "secret", ConfirmPassword: "secret"}
	require.Empty(t, reg.Validate(ctx, users))
	alice, err := authSvc.Register(ctx, reg.Username, reg.Email, reg.Password)
	require.NoError(t, err)

	// A second account reusing the username fails form validation.
	dup := form.Registration{Username: "alice", Email: "b@y.com", Password: "secret", ConfirmPassword: "secret"}
	errs := dup.Validate(ctx, users)
	assert.Equal(t, []string{"Username already exists"}, formMessages(errs, "username"))

	logged, err := authSvc.Authenticate(ctx, "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, logged.ID)

	first, err := postSvc.Create(ctx, alice.ID, "Hello", "World")
	require.NoError(t, err)
	second, err := postSvc.Create(ctx, alice.ID, "Second", "More words")
	require.NoError(t, err)
	second.DatePosted = first.DatePosted.Add(time.Second)
	require.NoError(t, posts.Update(ctx, second))

	// Newest post leads the home listing.
	home, err := postSvc.HomePage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, home.Items, 2)
	assert.Equal(t, "Second", home.Items[0].Title)
	assert.Equal(t, "Hello", home.Items[1].Title)

	user, page, err := postSvc.UserPage(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.Equal(t, int64(2), page.Total)
}

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	mailer := &recordingMailer{}

	authSvc := NewAuthService(users, auth.NewResetTokenSigner("test-secret", 30*time.Minute), mailer, testBaseURL)

	_, err := authSvc.Register(ctx, "alice", "a@x.com", "old-secret")
	require.NoError(t, err)

	require.NoError(t, authSvc.RequestReset(ctx, "a@x.com"))
	require.Len(t, mailer.sent, 1)
	token := strings.TrimPrefix(mailer.sent[0], testBaseURL+"/reset_password/")
	require.NotEqual(t, mailer.sent[0], token)

	_, err = authSvc.ResetPassword(ctx, token, "new-secret")
	require.NoError(t, err)

	_, err = authSvc.Authenticate(ctx, "a@x.com", "old-secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	logged, err := authSvc.Authenticate(ctx, "a@x.com", "new-secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", logged.Username)
}
