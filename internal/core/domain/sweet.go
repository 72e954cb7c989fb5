package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrSweetNotFound   = errors.New("sweet not found")
	ErrSweetExists     = errors.New("sweet already exists")
	ErrOutOfStock      = errors.New("out of stock")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidSweet    = errors.New("name and category must not be blank")
)

// Sweet is a catalog item. Quantity is the number of units in stock.
type Sweet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalize trims name and category and rejects blank values or negative stock.
func (s *Sweet) Normalize() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Category = strings.TrimSpace(s.Category)
	if s.Name == "" || s.Category == "" {
		return ErrInvalidSweet
	}
	if s.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// SweetFilter narrows a catalog search. Zero values mean "no constraint".
type SweetFilter struct {
	Name     string   // case-insensitive substring
	Category string   // exact match
	MinPrice *float64 // price >= MinPrice
	MaxPrice *float64 // price <= MaxPrice
}

// SweetPatch carries a partial update; nil fields are left untouched.
type SweetPatch struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
	ImageURL *string
}

// Empty reports whether the patch changes nothing.
func (p SweetPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil && p.Quantity == nil && p.ImageURL == nil
}

// Normalize trims the string fields that are set and applies the same rules
// as Sweet.Normalize to them.
func (p *SweetPatch) Normalize() error {
	for _, field := range []**string{&p.Name, &p.Category} {
		if *field == nil {
			continue
		}
		trimmed := strings.TrimSpace(**field)
		if trimmed == "" {
			return ErrInvalidSweet
		}
		*field = &trimmed
	}
	if p.ImageURL != nil {
		trimmed := strings.TrimSpace(*p.ImageURL)
		p.ImageURL = &trimmed
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return ErrInvalidQuantity
	}
	return nil
}
