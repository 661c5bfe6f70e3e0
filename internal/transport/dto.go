package transport

import "github.com/Skotchmaster/bookshelf/internal/domain"

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	UserID    uint        `json:"userId"`
	Role      domain.Role `json:"role"`
	ExpiresAt int64       `json:"expiresAt"`
}

type RegisterRequest struct {
	Username string       `json:"username" validate:"required,min=3,max=64"`
	Email    string       `json:"email"    validate:"required,email,max=255"`
	Password string       `json:"password" validate:"required,max=72"`
	Role     *domain.Role `json:"role,omitempty"`
}

// UpdateUserRequest carries only the fields being changed.
type UpdateUserRequest struct {
	Username *string      `json:"username,omitempty" validate:"omitempty,min=3,max=64"`
	Email    *string      `json:"email,omitempty"    validate:"omitempty,email,max=255"`
	Password *string      `json:"password,omitempty" validate:"omitempty,max=72"`
	Role     *domain.Role `json:"role,omitempty"`
}

func (r UpdateUserRequest) Empty() bool {
	return r.Username == nil && r.Email == nil && r.Password == nil && r.Role == nil
}

type BookRequest struct {
	Title      string          `json:"title"       validate:"required,max=255"`
	Author     string          `json:"author"      validate:"required,max=255"`
	CoverImage string          `json:"cover_image" validate:"required,uri"`
	Category   domain.Category `json:"category"    validate:"required,category"`
	Summary    string          `json:"summary"     validate:"required"`
	ISBN       *string         `json:"isbn,omitempty"  validate:"omitempty,max=32"`
	Price      *float64        `json:"price,omitempty" validate:"omitempty,gte=0"`
}

type FavoriteRequest struct {
	UserID uint `json:"user_id" validate:"required"`
	BookID uint `json:"book_id" validate:"required"`
}
