package category

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jortega-dev/inventario-backend/internal/repo"
	"github.com/jortega-dev/inventario-backend/pkg/db/models"
)

// RankedCategory pairs a category row with its product count.
type RankedCategory struct {
	ID           uuid.UUID
	Name         string
	Description  *string
	Active       bool
	Version      int
	CreatedAt    time.Time
	ProductCount int64
}

// Repository provides persistence for categories.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// FindByID loads a single category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns categories ordered by name, optionally narrowed by a
// free-text match over name and description, and the active flag.
func (r *Repository) List(ctx context.Context, query string, onlyActive bool) ([]models.Category, error) {
	q := r.DB(ctx).Model(&models.Category{})
	if query != "" {
		// LIKE is case-sensitive on Postgres; sqlite (dev/test) matches
		// ASCII case-insensitively.
		pattern := "%" + query + "%"
		q = q.Where(
			"name LIKE ? OR (description IS NOT NULL AND description LIKE ?)",
			pattern, pattern,
		)
	}
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	var rows []models.Category
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create persists a new category.
func (r *Repository) Create(ctx context.Context, row *models.Category) error {
	return r.DB(ctx).Create(row).Error
}

// NameTaken reports whether another category already uses the name.
func (r *Repository) NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	q := r.DB(ctx).Model(&models.Category{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// UpdateVersioned applies the updates only when the stored version still matches.
func (r *Repository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]any) (int64, error) {
	updates["version"] = version + 1
	res := r.DB(ctx).Model(&models.Category{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// Delete removes the category and reports how many rows were affected.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).Delete(&models.Category{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// Exists reports whether a category row is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// RankByProductCount returns active categories ordered by how many
// products reference them, busiest first.
func (r *Repository) RankByProductCount(ctx context.Context) ([]RankedCategory, error) {
	var rows []RankedCategory
	err := r.DB(ctx).Model(&models.Category{}).
		Select("categories.id, categories.name, categories.description, categories.active, categories.version, categories.created_at, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Where("categories.active = ?", true).
		Group("categories.id").
		Order("product_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// IsNotFound reports whether err is GORM's missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
