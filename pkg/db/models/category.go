package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products; retired via the active flag once products reference it.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;size:100;not null;uniqueIndex:idx_categories_name"`
	Description *string   `gorm:"column:description;size:300"`
	Active      bool      `gorm:"column:active;not null"`
	Version     int       `gorm:"column:version;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
