package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier sources products. Phone and email are optional but must be unique
// across all suppliers when present.
type Supplier struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name         string    `gorm:"column:name;size:150;not null;uniqueIndex:idx_suppliers_name"`
	Contact      *string   `gorm:"column:contact;size:100"`
	Phone        *string   `gorm:"column:phone;size:20"`
	Email        *string   `gorm:"column:email;size:100"`
	Address      *string   `gorm:"column:address;size:200"`
	Active       bool      `gorm:"column:active;not null"`
	Version      int       `gorm:"column:version;not null"`
	RegisteredAt time.Time `gorm:"column:registered_at;autoCreateTime"`
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
