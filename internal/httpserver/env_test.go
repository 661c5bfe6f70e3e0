package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookshelf/internal/db"
	"github.com/Skotchmaster/bookshelf/internal/domain"
	"github.com/Skotchmaster/bookshelf/internal/logging"
	"github.com/Skotchmaster/bookshelf/internal/metrics"
	authmw "github.com/Skotchmaster/bookshelf/internal/middleware/auth"
	"github.com/Skotchmaster/bookshelf/internal/mykafka"
	"github.com/Skotchmaster/bookshelf/internal/repo"
	"github.com/Skotchmaster/bookshelf/internal/service"
	"github.com/Skotchmaster/bookshelf/internal/tokens"
	"github.com/Skotchmaster/bookshelf/internal/transport"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Tokens  *tokens.Manager
	Metrics *metrics.Metrics
	Users   *service.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	gdb, err := db.Open(ctx, db.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	mgr, err := tokens.NewManager([]byte("http-test-secret"))
	require.NoError(t, err)

	m := metrics.New("bookshelf")
	r := repo.New(gdb)
	events := mykafka.Noop{}

	users := &service.UserService{Repo: r, Events: events}
	e := NewEcho(logging.Discard(), m, nil)
	Register(e, &Deps{
		UserHandler: &UserHTTP{
			Svc:     users,
			Auth:    &service.AuthService{Repo: r, Tokens: mgr},
			Metrics: m,
		},
		BookHandler:     &BookHTTP{Svc: &service.BookService{Repo: r, Events: events}},
		FavoriteHandler: &FavoriteHTTP{Svc: &service.FavoriteService{Repo: r, Events: events, Counter: m}},
		Guard:           authmw.NewGuard(mgr, m),
		Metrics:         m,
		Ready:           func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	return &testEnv{T: t, E: e, DB: gdb, Tokens: mgr, Metrics: m, Users: users}
}

func (env *testEnv) doJSONRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// seedAdmin creates an ADMIN directly and returns a token for it.
func (env *testEnv) seedAdmin() (uint, string) {
	env.T.Helper()
	u, err := env.Users.EnsureAdmin(context.Background(), "root", "root@example.com", "admin-password")
	require.NoError(env.T, err)
	tok, _, err := env.Tokens.Issue(u.ID, domain.RoleAdmin)
	require.NoError(env.T, err)
	return u.ID, tok
}

func (env *testEnv) registerAndLogin(name string) (uint, string) {
	env.T.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/api/users", map[string]string{
		"username": name,
		"email":    name + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.doJSONRequest(http.MethodPost, "/api/users/login", transport.LoginRequest{
		Email:    name + "@example.com",
		Password: "password123",
	}, "")
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[transport.LoginResponse](env.T, rec)
	require.NotEmpty(env.T, resp.Token)
	return resp.UserID, resp.Token
}

func (env *testEnv) createBook(adminToken, title string, category domain.Category) uint {
	env.T.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/api/books", transport.BookRequest{
		Title:      title,
		Author:     "Author of " + title,
		CoverImage: "https://covers.example.com/" + strconv.Itoa(len(title)) + ".jpg",
		Category:   category,
		Summary:    "About " + title,
	}, adminToken)
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	var book struct {
		ID uint `json:"book_id"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &book))
	return book.ID
}

func path(parts ...any) string {
	var b bytes.Buffer
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			b.WriteString(v)
		case uint:
			b.WriteString(strconv.FormatUint(uint64(v), 10))
		}
	}
	return b.String()
}
