package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a named grouping that buzzwords link to.
// Name uniqueness is enforced by the repository's pre-insert lookup,
// not by the store.
type Category struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"not null"`
	Description string `gorm:"not null"`
}

func (c *Category) TableName() string {
	return "categories"
}

// BeforeCreate assigns the store-generated identifier.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// URL returns the canonical catalog path for the category.
func (c *Category) URL() string {
	return "/catalog/category/" + c.ID
}
