package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookshelf/internal/db"
	"github.com/Skotchmaster/bookshelf/internal/domain"
	"github.com/Skotchmaster/bookshelf/internal/models"
	"github.com/Skotchmaster/bookshelf/internal/repo"
	"github.com/Skotchmaster/bookshelf/internal/tokens"
	"github.com/Skotchmaster/bookshelf/internal/transport"
)

type sentEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []sentEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, sentEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event["type"].(string)
	}
	return out
}

type testEnv struct {
	Repo   *repo.GormRepo
	Events *recordingPublisher
	Auth   *AuthService
	Users  *UserService
	Books  *BookService
	Favs   *FavoriteService
	Now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, db.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	env := &testEnv{
		Repo:   repo.New(gdb),
		Events: &recordingPublisher{},
		Now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	mgr, err := tokens.NewManager([]byte("test-secret"), tokens.WithClock(func() time.Time { return env.Now }))
	require.NoError(t, err)

	env.Auth = &AuthService{Repo: env.Repo, Tokens: mgr}
	env.Users = &UserService{Repo: env.Repo, Events: env.Events}
	env.Books = &BookService{Repo: env.Repo, Events: env.Events}
	env.Favs = &FavoriteService{Repo: env.Repo, Events: env.Events}
	return env
}

func (env *testEnv) register(t *testing.T, name string, role domain.Role) *models.User {
	t.Helper()
	caller := &domain.Identity{UserID: 1, Role: domain.RoleAdmin}
	u, err := env.Users.Register(context.Background(), caller, transport.RegisterRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: "password123",
		Role:     &role,
	})
	require.NoError(t, err)
	return u
}

func (env *testEnv) book(t *testing.T, title string) *models.Book {
	t.Helper()
	b, err := env.Books.Create(context.Background(), bookRequest(title))
	require.NoError(t, err)
	return b
}

func bookRequest(title string) transport.BookRequest {
	return transport.BookRequest{
		Title:      title,
		Author:     "Author of " + title,
		CoverImage: "https://covers.example.com/" + strings.ReplaceAll(title, " ", "-") + ".jpg",
		Category:   domain.CategoryFantasy,
		Summary:    "A book called " + title,
	}
}

func identity(u *models.User) domain.Identity {
	return domain.Identity{UserID: u.ID, Role: u.Role}
}
