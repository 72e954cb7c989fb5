package gormdb

import (
	"time"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

type userModel struct {
	ID             string `gorm:"primaryKey;size:36"`
	Email          string `gorm:"uniqueIndex;size:320;not null"`
	HashedPassword string `gorm:"not null"`
	Role           string `gorm:"size:16;not null"`
	CreatedAt      time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.HashedPassword,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
	}
}

type sweetModel struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Name      string  `gorm:"uniqueIndex;not null"`
	Category  string  `gorm:"index;not null"`
	Price     float64 `gorm:"index;not null"`
	Quantity  int     `gorm:"not null"`
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (sweetModel) TableName() string { return "sweets" }

func (m *sweetModel) toDomain() *domain.Sweet {
	return &domain.Sweet{
		ID:        m.ID,
		Name:      m.Name,
		Category:  m.Category,
		Price:     m.Price,
		Quantity:  m.Quantity,
		ImageURL:  m.ImageURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type stockEventModel struct {
	ID       uint   `gorm:"primaryKey"`
	SweetID  string `gorm:"index;size:36;not null"`
	Kind     string `gorm:"size:16;not null"`
	Delta    int
	Quantity int
	Actor    string
	At       time.Time `gorm:"index"`
}

func (stockEventModel) TableName() string { return "stock_events" }
