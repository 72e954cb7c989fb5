package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sweetshop/sweet-shop/internal/core/domain"
)

type SweetRepository struct {
	db *gorm.DB
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *SweetRepository) Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error) {
	m := sweetModel{
		ID:        uuid.NewString(),
		Name:      s.Name,
		Category:  s.Category,
		Price:     s.Price,
		Quantity:  s.Quantity,
		ImageURL:  s.ImageURL,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := nameTaken(tx, m.Name, ""); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, translate(err, "insert sweet")
	}
	return m.toDomain(), nil
}

func (r *SweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	return findSweet(r.db.WithContext(ctx), id)
}

func (r *SweetRepository) Search(ctx context.Context, f domain.SweetFilter) ([]*domain.Sweet, error) {
	q := r.db.WithContext(ctx).Model(&sweetModel{})
	if f.Name != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(f.Name))+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var rows []sweetModel
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}

	out := make([]*domain.Sweet, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (r *SweetRepository) Update(ctx context.Context, id string, p domain.SweetPatch) (*domain.Sweet, error) {
	var out *domain.Sweet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findSweet(tx, id)
		if err != nil {
			return err
		}
		if p.Name != nil && *p.Name != current.Name {
			if err := nameTaken(tx, *p.Name, id); err != nil {
				return err
			}
		}

		updates := map[string]any{"updated_at": time.Now().UTC()}
		if p.Name != nil {
			updates["name"] = *p.Name
		}
		if p.Category != nil {
			updates["category"] = *p.Category
		}
		if p.Price != nil {
			updates["price"] = *p.Price
		}
		if p.Quantity != nil {
			updates["quantity"] = *p.Quantity
		}
		if p.ImageURL != nil {
			updates["image_url"] = *p.ImageURL
		}
		if err := tx.Model(&sweetModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		out, err = findSweet(tx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, "update sweet")
	}
	return out, nil
}

func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&sweetModel{})
	if res.Error != nil {
		return fmt.Errorf("delete sweet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

// Decrement removes one unit with a conditional UPDATE so concurrent
// purchases can never drive stock negative.
func (r *SweetRepository) Decrement(ctx context.Context, id string) (*domain.Sweet, error) {
	var out *domain.Sweet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&sweetModel{}).
			Where("id = ? AND quantity > 0", id).
			Updates(map[string]any{
				"quantity":   gorm.Expr("quantity - 1"),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}

		current, err := findSweet(tx, id)
		if err != nil {
			return err
		}
		if res.RowsAffected == 0 {
			return domain.ErrOutOfStock
		}
		out = current
		return nil
	})
	if err != nil {
		return nil, translate(err, "purchase sweet")
	}
	return out, nil
}

func (r *SweetRepository) Increment(ctx context.Context, id string, quantity int) (*domain.Sweet, error) {
	var out *domain.Sweet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&sweetModel{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"quantity":   gorm.Expr("quantity + ?", quantity),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrSweetNotFound
		}
		var err error
		out, err = findSweet(tx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, "restock sweet")
	}
	return out, nil
}

func findSweet(db *gorm.DB, id string) (*domain.Sweet, error) {
	var m sweetModel
	err := db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find sweet: %w", err)
	}
	return m.toDomain(), nil
}

func nameTaken(tx *gorm.DB, name, exceptID string) error {
	q := tx.Model(&sweetModel{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrSweetExists
	}
	return nil
}

// translate keeps domain errors intact and wraps everything else.
func translate(err error, op string) error {
	switch {
	case errors.Is(err, domain.ErrSweetNotFound),
		errors.Is(err, domain.ErrSweetExists),
		errors.Is(err, domain.ErrOutOfStock):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrSweetExists
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
