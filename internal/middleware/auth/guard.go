package auth

import (
	"errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshelf/internal/domain"
	"github.com/Skotchmaster/bookshelf/internal/logging"
	"github.com/Skotchmaster/bookshelf/internal/metrics"
	"github.com/Skotchmaster/bookshelf/internal/tokens"
)

const identityKey = "identity"

// Verifier turns a raw bearer token into an identity.
type Verifier interface {
	Verify(token string) (domain.Identity, error)
}

var _ Verifier = (*tokens.Manager)(nil)

type Guard struct {
	tokens  Verifier
	metrics *metrics.Metrics

	required echo.MiddlewareFunc
	optional echo.MiddlewareFunc
}

func NewGuard(v Verifier, m *metrics.Metrics) *Guard {
	g := &Guard{tokens: v, metrics: m}
	g.required = g.bearer(nil)
	g.optional = g.bearer(func(c echo.Context) bool {
		return strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)) == ""
	})
	return g
}

func (g *Guard) bearer(skipper func(echo.Context) bool) echo.MiddlewareFunc {
	cfg := echojwt.Config{
		ContextKey:  identityKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, raw string) (any, error) {
			return g.tokens.Verify(raw)
		},
		SuccessHandler: func(c echo.Context) {
			id, _ := IdentityFrom(c)
			c.Set("user_id", id.UserID)
			c.Set("role", id.Role)
			req := c.Request()
			l := logging.FromContext(req.Context()).With("user_id", id.UserID, "role", id.Role.String())
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			reason := metrics.ReasonMissing
			var parseErr *echojwt.TokenParsingError
			if errors.As(err, &parseErr) {
				reason = metrics.ReasonInvalid
			}
			g.metrics.AuthFailure(reason)
			logging.FromContext(c.Request().Context()).Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", reason, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid bearer token")
		},
	}
	if skipper != nil {
		cfg.Skipper = skipper
	}
	return echojwt.WithConfig(cfg)
}

// Authenticate rejects requests without a valid bearer token.
func (g *Guard) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return g.required(next)
}

// Optional attaches an identity when a token is present. A malformed or
// invalid token is still rejected.
func (g *Guard) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return g.optional(next)
}

// RequireRole admits identities whose role satisfies min.
func (g *Guard) RequireRole(min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				g.metrics.AuthFailure(metrics.ReasonMissing)
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !id.Role.Satisfies(min) {
				g.metrics.AuthFailure(metrics.ReasonForbidden)
				logging.FromContext(c.Request().Context()).Warn("auth_forbidden",
					"status", http.StatusForbidden, "required", min.String(), "role", id.Role.String())
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.RequireRole(domain.RoleAdmin)(next)
}

func (g *Guard) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return g.RequireRole(domain.RoleUser)(next)
}

func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	if !ok || id.UserID == 0 || !id.Role.Valid() {
		return domain.Identity{}, false
	}
	return id, true
}
