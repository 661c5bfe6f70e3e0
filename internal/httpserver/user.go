package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshelf/internal/domain"
	"github.com/Skotchmaster/bookshelf/internal/logging"
	"github.com/Skotchmaster/bookshelf/internal/metrics"
	authmw "github.com/Skotchmaster/bookshelf/internal/middleware/auth"
	"github.com/Skotchmaster/bookshelf/internal/service"
	"github.com/Skotchmaster/bookshelf/internal/transport"
)

type UserHTTP struct {
	Svc     *service.UserService
	Auth    *service.AuthService
	Metrics *metrics.Metrics
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := bind(c, l, "login_error", &req); err != nil {
		return err
	}

	res, err := h.Auth.Login(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Metrics.AuthFailure(metrics.ReasonLogin)
		}
		return fail(l, "login_error", err)
	}

	l.Info("login_success", "user_id", res.UserID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token:     res.Token,
		UserID:    res.UserID,
		Role:      res.Role,
		ExpiresAt: res.ExpiresAt.Unix(),
	})
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req transport.RegisterRequest
	if err := bind(c, l, "register_error", &req); err != nil {
		return err
	}

	var caller *domain.Identity
	if id, ok := authmw.IdentityFrom(c); ok {
		caller = &id
	}

	user, err := h.Svc.Register(ctx, caller, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	id, err := pathID(c, l, "get_user_error", "id")
	if err != nil {
		return err
	}
	user, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := pathID(c, l, "update_user_error", "id")
	if err != nil {
		return err
	}
	var req transport.UpdateUserRequest
	if err := bind(c, l, "update_user_error", &req); err != nil {
		return err
	}

	caller, _ := authmw.IdentityFrom(c)
	user, err := h.Svc.Update(ctx, caller, id, req)
	if err != nil {
		return fail(l, "update_user_error", err)
	}

	l.Info("update_user_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	id, err := pathID(c, l, "delete_user_error", "id")
	if err != nil {
		return err
	}

	caller, _ := authmw.IdentityFrom(c)
	if err := h.Svc.Delete(ctx, caller, id); err != nil {
		return fail(l, "delete_user_error", err)
	}

	l.Info("delete_user_success", "user_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
