package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jortega-dev/inventario-backend/pkg/db/models"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Code        string          `json:"code"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  uuid.UUID       `json:"category_id"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	Category    *CategoryRefDTO `json:"category,omitempty"`
	Supplier    *SupplierRefDTO `json:"supplier,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// CategoryRefDTO is the category summary embedded in product payloads.
type CategoryRefDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// SupplierRefDTO is the supplier summary embedded in product payloads.
type SupplierRefDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// ToDTO maps a product row (with optional preloaded associations) to its payload.
func ToDTO(m *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Code:        m.Code,
		Price:       m.Price,
		Stock:       m.Stock,
		CategoryID:  m.CategoryID,
		SupplierID:  m.SupplierID,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Category != nil {
		dto.Category = &CategoryRefDTO{ID: m.Category.ID, Name: m.Category.Name, Active: m.Category.Active}
	}
	if m.Supplier != nil {
		dto.Supplier = &SupplierRefDTO{ID: m.Supplier.ID, Name: m.Supplier.Name, Active: m.Supplier.Active}
	}
	return dto
}

// ToDTOs maps a slice of product rows.
func ToDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
