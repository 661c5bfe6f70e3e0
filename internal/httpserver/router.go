package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookshelf/internal/metrics"
	authmw "github.com/Skotchmaster/bookshelf/internal/middleware/auth"
)

type Deps struct {
	UserHandler     *UserHTTP
	BookHandler     *BookHTTP
	FavoriteHandler *FavoriteHTTP
	Guard           *authmw.Guard
	Metrics         *metrics.Metrics
	// Ready reports whether backing stores answer. Nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	user := []echo.MiddlewareFunc{d.Guard.Authenticate, d.Guard.RequireUser}
	admin := []echo.MiddlewareFunc{d.Guard.Authenticate, d.Guard.RequireAdmin}

	api := e.Group("/api")

	users := api.Group("/users")
	users.POST("/login", d.UserHandler.Login)
	users.POST("", d.UserHandler.Register, d.Guard.Optional)
	users.GET("", d.UserHandler.ListUsers, admin...)
	users.GET("/:id", d.UserHandler.GetUser, admin...)
	users.PUT("/:id", d.UserHandler.UpdateUser, user...)
	users.DELETE("/:id", d.UserHandler.DeleteUser, user...)

	books := api.Group("/books")
	books.GET("", d.BookHandler.ListBooks, user...)
	books.GET("/search", d.BookHandler.SearchBooks, user...)
	books.GET("/:id", d.BookHandler.GetBook, user...)
	books.POST("", d.BookHandler.CreateBook, admin...)
	books.PUT("/:id", d.BookHandler.UpdateBook, admin...)
	books.DELETE("/:id", d.BookHandler.DeleteBook, admin...)

	favorites := api.Group("/favorites")
	favorites.GET("", d.FavoriteHandler.ListFavorites, admin...)
	favorites.GET("/:userId", d.FavoriteHandler.ReadByUser, user...)
	favorites.POST("", d.FavoriteHandler.CreateFavorite, user...)
	favorites.PUT("/:id", d.FavoriteHandler.UpdateFavorite, user...)
	favorites.DELETE("/:bookId", d.FavoriteHandler.DeleteFavorite, user...)
}
