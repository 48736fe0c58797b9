package product

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jortega-dev/inventario-backend/internal/repo"
	"github.com/jortega-dev/inventario-backend/pkg/db/models"
)

// ListFilter narrows the product listing.
type ListFilter struct {
	Query      string
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
}

// Repository provides persistence for products.
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

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindDetail loads the product with its category and supplier.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	err := r.DB(ctx).
		Preload("Category").
		Preload("Supplier").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns products matching the filter, ordered by name.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	q := r.DB(ctx).Model(&models.Product{}).
		Preload("Category").
		Preload("Supplier")
	if filter.Query != "" {
		// LIKE is case-sensitive on Postgres; sqlite (dev/test) matches
		// ASCII case-insensitively.
		pattern := "%" + filter.Query + "%"
		q = q.Where(
			"name LIKE ? OR code LIKE ? OR (description IS NOT NULL AND description LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SupplierID != nil {
		q = q.Where("supplier_id = ?", *filter.SupplierID)
	}
	var rows []models.Product
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListLowStock returns products at or below the threshold, lowest stock first.
func (r *Repository) ListLowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).
		Preload("Category").
		Preload("Supplier").
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCategory returns the products assigned to a category, ordered by name.
func (r *Repository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBySupplier returns the products assigned to a supplier, ordered by name.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).
		Where("supplier_id = ?", supplierID).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create persists a new product.
func (r *Repository) Create(ctx context.Context, row *models.Product) error {
	return r.DB(ctx).Create(row).Error
}

// UpdateVersioned applies the updates only when the stored version still matches.
// The returned count is zero when the row is missing or the version moved on.
func (r *Repository) UpdateVersioned(ctx context.Context, id uuid.UUID, version int, updates map[string]any) (int64, error) {
	updates["version"] = version + 1
	res := r.DB(ctx).Model(&models.Product{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// Delete removes the product and reports how many rows were affected.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).Delete(&models.Product{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// Exists reports whether a product row is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CodeTaken reports whether another product already uses the code.
func (r *Repository) CodeTaken(ctx context.Context, code string, excludeID uuid.UUID) (bool, error) {
	q := r.DB(ctx).Model(&models.Product{}).Where("code = ?", code)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// CountByCategory counts the products assigned to a category.
func (r *Repository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// CountBySupplier counts the products assigned to a supplier.
func (r *Repository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).Where("supplier_id = ?", supplierID).Count(&count).Error
	return count, err
}

// CategoryExists reports whether a category row is present.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// SupplierExists reports whether a supplier row is present.
func (r *Repository) SupplierExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Supplier{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// IsNotFound reports whether err is GORM's missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
