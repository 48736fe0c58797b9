package supplier

import (
	"time"

	"github.com/google/uuid"

	product "github.com/jortega-dev/inventario-backend/internal/products"
	"github.com/jortega-dev/inventario-backend/pkg/db/models"
)

// SupplierDTO represents the supplier payload returned to clients.
type SupplierDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Contact      *string   `json:"contact,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Active       bool      `json:"active"`
	Version      int       `json:"version"`
	RegisteredAt time.Time `json:"registered_at"`
}

// SupplierDetailDTO adds the products sourced from the supplier.
type SupplierDetailDTO struct {
	SupplierDTO
	Products []product.ProductDTO `json:"products"`
}

// SupplierRankingDTO pairs a supplier with how many products reference it.
type SupplierRankingDTO struct {
	SupplierDTO
	ProductCount int64 `json:"product_count"`
}

// SupplierContactDTO is the directory entry for suppliers that can be reached.
type SupplierContactDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Contact *string   `json:"contact,omitempty"`
	Email   *string   `json:"email,omitempty"`
	Phone   *string   `json:"phone,omitempty"`
}

func toDTO(m *models.Supplier) SupplierDTO {
	return SupplierDTO{
		ID:           m.ID,
		Name:         m.Name,
		Contact:      m.Contact,
		Phone:        m.Phone,
		Email:        m.Email,
		Address:      m.Address,
		Active:       m.Active,
		Version:      m.Version,
		RegisteredAt: m.RegisteredAt,
	}
}
