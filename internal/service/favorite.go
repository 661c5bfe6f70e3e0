package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/bookshelf/internal/domain"
	"github.com/Skotchmaster/bookshelf/internal/models"
	"github.com/Skotchmaster/bookshelf/internal/repo"
	"github.com/Skotchmaster/bookshelf/internal/transport"
)

// FavoriteCounter observes favorite mutations. *metrics.Metrics satisfies it.
type FavoriteCounter interface {
	Favorite(op string)
}

type FavoriteService struct {
	Repo    *repo.GormRepo
	Events  Publisher
	Counter FavoriteCounter
}

func (s *FavoriteService) count(op string) {
	if s.Counter != nil {
		s.Counter.Favorite(op)
	}
}

func (s *FavoriteService) event(ctx context.Context, typ string, f *models.Favorite) {
	publish(ctx, s.Events, TopicFavorites, strconv.FormatUint(uint64(f.UserID), 10), map[string]any{
		"type":       typ,
		"favoriteID": f.ID,
		"userID":     f.UserID,
		"bookID":     f.BookID,
	})
}

// Create favorites a book. Repeating the call returns the existing row with
// created set to false.
func (s *FavoriteService) Create(ctx context.Context, caller domain.Identity, req transport.FavoriteRequest) (fav *models.Favorite, created bool, err error) {
	if err := check(req); err != nil {
		return nil, false, err
	}
	if !caller.CanActOn(req.UserID) {
		return nil, false, fmt.Errorf("%w: cannot favorite for user %d", ErrForbidden, req.UserID)
	}

	fav, created, err = s.Repo.AddFavorite(ctx, req.UserID, req.BookID)
	if err != nil {
		return nil, false, fromRepo(err)
	}
	if created {
		s.count("add")
		s.event(ctx, "favorite_added", fav)
	}
	return fav, created, nil
}

func (s *FavoriteService) List(ctx context.Context) ([]models.Favorite, error) {
	return s.Repo.ListFavorites(ctx)
}

// ReadByUser lists the books userID has favorited. The result is never nil.
func (s *FavoriteService) ReadByUser(ctx context.Context, caller domain.Identity, userID uint) ([]models.Book, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user_id", ErrMissingField)
	}
	if !caller.CanActOn(userID) {
		return nil, fmt.Errorf("%w: favorites of user %d", ErrForbidden, userID)
	}
	books, err := s.Repo.FavoriteBooks(ctx, userID)
	if err != nil {
		return nil, fromRepo(err)
	}
	return books, nil
}

// Update repoints a favorite. Non-admins only see their own rows and may not
// hand a row to another user.
func (s *FavoriteService) Update(ctx context.Context, caller domain.Identity, favoriteID uint, req transport.FavoriteRequest) (*models.Favorite, error) {
	if favoriteID == 0 {
		return nil, fmt.Errorf("%w: id", ErrMissingField)
	}
	if err := check(req); err != nil {
		return nil, err
	}

	var owner uint
	if caller.Role != domain.RoleAdmin {
		owner = caller.UserID
		if req.UserID != caller.UserID {
			return nil, fmt.Errorf("%w: cannot move favorite to user %d", ErrForbidden, req.UserID)
		}
	}

	fav, err := s.Repo.UpdateFavorite(ctx, favoriteID, owner, req.UserID, req.BookID)
	if err != nil {
		return nil, fromRepo(err)
	}
	s.count("update")
	s.event(ctx, "favorite_updated", fav)
	return fav, nil
}

// Delete removes the caller's own favorite for bookID.
func (s *FavoriteService) Delete(ctx context.Context, caller domain.Identity, bookID uint) error {
	if bookID == 0 {
		return fmt.Errorf("%w: book_id", ErrMissingField)
	}
	if caller.UserID == 0 {
		return fmt.Errorf("%w: user_id", ErrMissingField)
	}
	if err := s.Repo.DeleteFavorite(ctx, caller.UserID, bookID); err != nil {
		return fromRepo(err)
	}
	s.count("remove")
	s.event(ctx, "favorite_removed", &models.Favorite{UserID: caller.UserID, BookID: bookID})
	return nil
}
