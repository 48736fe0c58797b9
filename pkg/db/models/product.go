package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product references exactly one category and one supplier; both FKs are
// restrict-on-delete so rows block the hard delete of their parents.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;size:100;not null"`
	Description *string         `gorm:"column:description;size:500"`
	Code        string          `gorm:"column:code;size:50;not null;uniqueIndex:idx_products_code"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(18,2);not null"`
	Stock       int             `gorm:"column:stock;not null"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	SupplierID  uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Supplier    *Supplier       `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT"`
	Version     int             `gorm:"column:version;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	// UpdatedAt stays null until the first edit; services stamp it explicitly.
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
