package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshelf/internal/logging"
	"github.com/Skotchmaster/bookshelf/internal/service"
	"github.com/Skotchmaster/bookshelf/internal/transport"
	"github.com/Skotchmaster/bookshelf/internal/util"
)

type BookHTTP struct {
	Svc *service.BookService
}

func (h *BookHTTP) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.list")

	books, err := h.Svc.List(ctx, c.QueryParam("category"))
	if err != nil {
		return fail(l, "list_books_error", err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHTTP) SearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.search")

	from, limit := util.Window(c.QueryParam("page"), c.QueryParam("size"))

	total, books, err := h.Svc.Search(ctx, c.QueryParam("q"), from, limit)
	if err != nil {
		return fail(l, "search_books_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "books": books})
}

func (h *BookHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.get")

	id, err := pathID(c, l, "get_book_error", "id")
	if err != nil {
		return err
	}
	book, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_book_error", err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.create")

	var req transport.BookRequest
	if err := bind(c, l, "create_book_error", &req); err != nil {
		return err
	}

	book, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_book_error", err)
	}

	l.Info("create_book_success", "book_id", book.ID)
	return c.JSON(http.StatusCreated, book)
}

func (h *BookHTTP) UpdateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.update")

	id, err := pathID(c, l, "update_book_error", "id")
	if err != nil {
		return err
	}
	var req transport.BookRequest
	if err := bind(c, l, "update_book_error", &req); err != nil {
		return err
	}

	book, err := h.Svc.Replace(ctx, id, req)
	if err != nil {
		return fail(l, "update_book_error", err)
	}

	l.Info("update_book_success", "book_id", book.ID)
	return c.JSON(http.StatusOK, book)
}

func (h *BookHTTP) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.delete")

	id, err := pathID(c, l, "delete_book_error", "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_book_error", err)
	}

	l.Info("delete_book_success", "book_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "book deleted"})
}
