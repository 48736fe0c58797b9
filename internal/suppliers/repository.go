package supplier

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jortega-dev/inventario-backend/internal/repo"
	"github.com/jortega-dev/inventario-backend/pkg/db/models"
)

// RankedSupplier pairs a supplier row with its product count.
type RankedSupplier struct {
	ID           uuid.UUID
	Name         string
	Contact      *string
	Phone        *string
	Email        *string
	Address      *string
	Active       bool
	Version      int
	RegisteredAt time.Time
	ProductCount int64
}

// Repository provides persistence for suppliers.
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

// FindByID loads a single supplier.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var row models.Supplier
	if err := r.DB(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns suppliers ordered by name, optionally narrowed by a
// free-text match over name, contact, email and phone, and the active flag.
func (r *Repository) List(ctx context.Context, query string, onlyActive bool) ([]models.Supplier, error) {
	q := r.DB(ctx).Model(&models.Supplier{})
	if query != "" {
		// LIKE is case-sensitive on Postgres; sqlite (dev/test) matches
		// ASCII case-insensitively.
		pattern := "%" + query + "%"
		q = q.Where(
			"name LIKE ? OR (contact IS NOT NULL AND contact LIKE ?) OR (email IS NOT NULL AND email LIKE ?) OR (phone IS NOT NULL AND phone LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	var rows []models.Supplier
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create persists a new supplier.
func (r *Repository) Create(ctx context.Context, row *models.Supplier) error {
	return r.DB(ctx).Create(row).Error
}

// NameTaken reports whether another supplier already uses the name.
func (r *Repository) NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	q := r.DB(ctx).Model(&models.Supplier{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// EmailTaken reports whether another supplier already uses the email.
func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	q := r.DB(ctx).Model(&models.Supplier{}).Where("email = ?", email)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// PhoneTaken reports whether another supplier already uses the phone number.
func (r *Repository) PhoneTaken(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error) {
	q := r.DB(ctx).Model(&models.Supplier{}).Where("phone = ?", phone)
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
	res := r.DB(ctx).Model(&models.Supplier{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// Delete removes the supplier and reports how many rows were affected.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).Delete(&models.Supplier{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// Exists reports whether a supplier row is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Supplier{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// RankByProductCount returns active suppliers ordered by how many
// products reference them, busiest first.
func (r *Repository) RankByProductCount(ctx context.Context) ([]RankedSupplier, error) {
	var rows []RankedSupplier
	err := r.DB(ctx).Model(&models.Supplier{}).
		Select("suppliers.id, suppliers.name, suppliers.contact, suppliers.phone, suppliers.email, suppliers.address, suppliers.active, suppliers.version, suppliers.registered_at, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.supplier_id = suppliers.id").
		Where("suppliers.active = ?", true).
		Group("suppliers.id").
		Order("product_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListContactable returns active suppliers that carry an email or a
// phone number, ordered by name.
func (r *Repository) ListContactable(ctx context.Context) ([]models.Supplier, error) {
	var rows []models.Supplier
	err := r.DB(ctx).
		Where("active = ?", true).
		Where("(email IS NOT NULL AND email <> '') OR (phone IS NOT NULL AND phone <> '')").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// IsNotFound reports whether err is GORM's missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
