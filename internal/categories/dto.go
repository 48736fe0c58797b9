package category

import (
	"time"

	"github.com/google/uuid"
	product "github.com/jortega-dev/inventario-backend/internal/products"
	"github.com/jortega-dev/inventario-backend/pkg/db/models"
)

// CategoryDTO represents the category payload returned to clients.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Active      bool      `json:"active"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryDetailDTO adds the products assigned to the category.
type CategoryDetailDTO struct {
	CategoryDTO
	Products []product.ProductDTO `json:"products"`
}

// CategoryRankingDTO pairs a category with how many products reference it.
type CategoryRankingDTO struct {
	CategoryDTO
	ProductCount int64 `json:"product_count"`
}

func toDTO(m *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Active:      m.Active,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
	}
}
