package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/bookshelf/internal/domain"
	"github.com/Skotchmaster/bookshelf/internal/logging"
	"github.com/Skotchmaster/bookshelf/internal/models"
	"github.com/Skotchmaster/bookshelf/internal/repo"
	"github.com/Skotchmaster/bookshelf/internal/transport"
)

// BookIndex is an external full-text index kept in step with the books table.
type BookIndex interface {
	IndexBook(ctx context.Context, b *models.Book) error
	RemoveBook(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Book, error)
}

type BookService struct {
	Repo   *repo.GormRepo
	Index  BookIndex
	Events Publisher
}

func bookFromRequest(req transport.BookRequest) models.Book {
	return models.Book{
		Title:      req.Title,
		Author:     req.Author,
		CoverImage: req.CoverImage,
		Category:   req.Category,
		Summary:    req.Summary,
		ISBN:       req.ISBN,
		Price:      req.Price,
	}
}

func (s *BookService) reindex(ctx context.Context, b *models.Book) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexBook(ctx, b); err != nil {
		logging.FromContext(ctx).Error("search_index_error", "book_id", b.ID, "error", err)
	}
}

func (s *BookService) bookEvent(ctx context.Context, typ string, b *models.Book) {
	publish(ctx, s.Events, TopicBooks, strconv.FormatUint(uint64(b.ID), 10), map[string]any{
		"type":     typ,
		"bookID":   b.ID,
		"title":    b.Title,
		"category": string(b.Category),
	})
}

func (s *BookService) Create(ctx context.Context, req transport.BookRequest) (*models.Book, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	book := bookFromRequest(req)
	if err := s.Repo.CreateBook(ctx, &book); err != nil {
		return nil, fromRepo(err)
	}

	s.reindex(ctx, &book)
	s.bookEvent(ctx, "book_created", &book)
	return &book, nil
}

func (s *BookService) Get(ctx context.Context, id uint) (*models.Book, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: id", ErrMissingField)
	}
	b, err := s.Repo.GetBook(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	return b, nil
}

// List returns the catalog, optionally narrowed to one category.
func (s *BookService) List(ctx context.Context, category string) ([]models.Book, error) {
	c := domain.Category(strings.TrimSpace(category))
	if c != "" && !c.Valid() {
		return nil, fmt.Errorf("%w: category %q", ErrInvalidField, category)
	}
	return s.Repo.ListBooks(ctx, c)
}

// Replace overwrites every field of an existing book.
func (s *BookService) Replace(ctx context.Context, id uint, req transport.BookRequest) (*models.Book, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: id", ErrMissingField)
	}
	if err := check(req); err != nil {
		return nil, err
	}

	book := bookFromRequest(req)
	book.ID = id
	if err := s.Repo.SaveBook(ctx, &book); err != nil {
		return nil, fromRepo(err)
	}

	s.reindex(ctx, &book)
	s.bookEvent(ctx, "book_updated", &book)
	return &book, nil
}

// Delete removes the book and every favorite pointing at it.
func (s *BookService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if err := s.Repo.DeleteBook(ctx, id); err != nil {
		return fromRepo(err)
	}

	if s.Index != nil {
		if err := s.Index.RemoveBook(ctx, id); err != nil {
			logging.FromContext(ctx).Error("search_remove_error", "book_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, TopicBooks, strconv.FormatUint(uint64(id), 10), map[string]any{
		"type":   "book_deleted",
		"bookID": id,
	})
	return nil
}

// Search queries the full-text index, or falls back to a substring match in
// the database when no index is configured.
func (s *BookService) Search(ctx context.Context, query string, from, size int) (int64, []models.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, fmt.Errorf("%w: q", ErrMissingField)
	}
	if s.Index != nil {
		return s.Index.Search(ctx, query, from, size)
	}
	total, books, err := s.Repo.SearchBooks(ctx, query, from, size)
	if err != nil {
		return 0, nil, fromRepo(err)
	}
	return total, books, nil
}
