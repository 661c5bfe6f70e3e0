package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/bookshelf/internal/domain"
	"github.com/Skotchmaster/bookshelf/internal/hash"
	"github.com/Skotchmaster/bookshelf/internal/logging"
	"github.com/Skotchmaster/bookshelf/internal/models"
	"github.com/Skotchmaster/bookshelf/internal/repo"
	"github.com/Skotchmaster/bookshelf/internal/transport"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

func hashOrFail(password string) (string, error) {
	h, err := hash.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// Register creates an account. Self-registration always yields USER; an
// ADMIN account can only be requested by an authenticated ADMIN caller.
func (s *UserService) Register(ctx context.Context, caller *domain.Identity, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.register")

	if err := check(req); err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if req.Role != nil {
		role = *req.Role
	}
	switch role {
	case domain.RoleUser:
	case domain.RoleAdmin:
		if caller == nil || caller.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: only an admin can create an admin", ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%w: role", ErrInvalidField)
	}

	pwHash, err := hashOrFail(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_conflict", "username", req.Username)
		}
		return nil, fromRepo(err)
	}

	publish(ctx, s.Events, TopicUsers, strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
		"role":     user.Role.String(),
	})
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: id", ErrMissingField)
	}
	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	return u, nil
}

// Update applies the supplied fields. Callers may edit only themselves unless
// they are ADMIN, and only an ADMIN may change a role.
func (s *UserService) Update(ctx context.Context, caller domain.Identity, id uint, req transport.UpdateUserRequest) (*models.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: id", ErrMissingField)
	}
	if req.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrMissingField)
	}
	if err := check(req); err != nil {
		return nil, err
	}
	if req.Role != nil && !req.Role.Valid() {
		return nil, fmt.Errorf("%w: role", ErrInvalidField)
	}
	if !caller.CanActOn(id) {
		return nil, fmt.Errorf("%w: user %d", ErrForbidden, id)
	}

	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}

	if req.Role != nil && *req.Role != user.Role {
		if caller.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: role change requires admin", ErrForbidden)
		}
		user.Role = *req.Role
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		pwHash, err := hashOrFail(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, fromRepo(err)
	}

	publish(ctx, s.Events, TopicUsers, strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":   "user_updated",
		"userID": user.ID,
		"role":   user.Role.String(),
	})
	return user, nil
}

// Delete removes the user together with its favorites.
func (s *UserService) Delete(ctx context.Context, caller domain.Identity, id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if !caller.CanActOn(id) {
		return fmt.Errorf("%w: user %d", ErrForbidden, id)
	}
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return fromRepo(err)
	}

	publish(ctx, s.Events, TopicUsers, strconv.FormatUint(uint64(id), 10), map[string]any{
		"type":   "user_deleted",
		"userID": id,
	})
	return nil
}

// EnsureAdmin makes sure an ADMIN account with the given email exists. An
// existing account with that email is promoted; its password is left alone.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.ensure_admin")

	existing, err := s.Repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == domain.RoleAdmin {
			return existing, nil
		}
		existing.Role = domain.RoleAdmin
		if err := s.Repo.SaveUser(ctx, existing); err != nil {
			return nil, fromRepo(err)
		}
		l.Info("admin_promoted", "user_id", existing.ID)
		return existing, nil
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	admin := domain.Identity{Role: domain.RoleAdmin}
	role := domain.RoleAdmin
	user, err := s.Register(ctx, &admin, transport.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     &role,
	})
	if err != nil {
		return nil, err
	}
	l.Info("admin_created", "user_id", user.ID)
	return user, nil
}
