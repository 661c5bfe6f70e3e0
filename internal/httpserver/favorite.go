package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshelf/internal/logging"
	authmw "github.com/Skotchmaster/bookshelf/internal/middleware/auth"
	"github.com/Skotchmaster/bookshelf/internal/service"
	"github.com/Skotchmaster/bookshelf/internal/transport"
)

type FavoriteHTTP struct {
	Svc *service.FavoriteService
}

func (h *FavoriteHTTP) ListFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.list")

	favs, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_favorites_error", err)
	}
	return c.JSON(http.StatusOK, favs)
}

// ReadByUser answers with the books a user has favorited.
func (h *FavoriteHTTP) ReadByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.read_by_user")

	userID, err := pathID(c, l, "read_favorites_error", "userId")
	if err != nil {
		return err
	}

	caller, _ := authmw.IdentityFrom(c)
	books, err := h.Svc.ReadByUser(ctx, caller, userID)
	if err != nil {
		return fail(l, "read_favorites_error", err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *FavoriteHTTP) CreateFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.create")

	var req transport.FavoriteRequest
	if err := bind(c, l, "create_favorite_error", &req); err != nil {
		return err
	}

	caller, _ := authmw.IdentityFrom(c)
	fav, created, err := h.Svc.Create(ctx, caller, req)
	if err != nil {
		return fail(l, "create_favorite_error", err)
	}

	if !created {
		l.Info("create_favorite_exists", "favorite_id", fav.ID)
		return c.JSON(http.StatusOK, fav)
	}
	l.Info("create_favorite_success", "favorite_id", fav.ID)
	return c.JSON(http.StatusCreated, fav)
}

func (h *FavoriteHTTP) UpdateFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.update")

	id, err := pathID(c, l, "update_favorite_error", "id")
	if err != nil {
		return err
	}
	var req transport.FavoriteRequest
	if err := bind(c, l, "update_favorite_error", &req); err != nil {
		return err
	}

	caller, _ := authmw.IdentityFrom(c)
	fav, err := h.Svc.Update(ctx, caller, id, req)
	if err != nil {
		return fail(l, "update_favorite_error", err)
	}

	l.Info("update_favorite_success", "favorite_id", fav.ID)
	return c.JSON(http.StatusOK, fav)
}

// DeleteFavorite removes the caller's favorite for :bookId. The owner always
// comes from the token.
func (h *FavoriteHTTP) DeleteFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.delete")

	bookID, err := pathID(c, l, "delete_favorite_error", "bookId")
	if err != nil {
		return err
	}

	caller, _ := authmw.IdentityFrom(c)
	if err := h.Svc.Delete(ctx, caller, bookID); err != nil {
		return fail(l, "delete_favorite_error", err)
	}

	l.Info("delete_favorite_success", "book_id", bookID)
	return c.JSON(http.StatusOK, echo.Map{"message": "favorite removed"})
}
