package models

import (
	"time"

	"github.com/Skotchmaster/bookshelf/internal/domain"
)

type User struct {
	ID           uint        `gorm:"primaryKey;autoIncrement;column:user_id"              json:"user_id"`
	Username     string      `gorm:"uniqueIndex;not null"                                 json:"username"`
	Email        string      `gorm:"uniqueIndex;not null"                                 json:"email"`
	PasswordHash string      `gorm:"not null"                                             json:"-"`
	Role         domain.Role `gorm:"type:varchar(16);not null;check:chk_users_role,role IN ('USER','ADMIN')" json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Book struct {
	ID         uint            `gorm:"primaryKey;autoIncrement;column:book_id" json:"book_id"`
	Title      string          `gorm:"not null"                                json:"title"`
	Author     string          `gorm:"not null"                                json:"author"`
	CoverImage string          `gorm:"not null"                                json:"cover_image"`
	Category   domain.Category `gorm:"type:varchar(32);not null;index"         json:"category"`
	Summary    string          `gorm:"type:text;not null"                      json:"summary"`
	ISBN       *string         `gorm:"column:isbn"                             json:"isbn,omitempty"`
	Price      *float64        `json:"price,omitempty"`
}

// Favorite is the user<->book join row. A user favorites a given book at most once.
type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:favorite_id"            json:"favorite_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_book"           json:"user_id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_book;index"     json:"book_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Book *Book `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// All lists every model in migration order.
func All() []any {
	return []any{&User{}, &Book{}, &Favorite{}}
}
