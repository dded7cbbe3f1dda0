package models

import (
	"encoding/base64"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Image is an optional uploaded payload attached to a buzzword.
// A zero-length Data means "no image".
type Image struct {
	Data        []byte
	ContentType string
}

// Buzzword represents a catalog entry. It links to zero or more
// categories through the buzzword_categories join table.
type Buzzword struct {
	ID            string          `gorm:"primaryKey;size:36"`
	Name          string          `gorm:"not null"`
	Description   string          `gorm:"not null"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	NumberInStock int             `gorm:"not null"`
	Categories    []Category      `gorm:"many2many:buzzword_categories"`
	Image         Image           `gorm:"embedded;embeddedPrefix:image_"`
}

func (b *Buzzword) TableName() string {
	return "buzzwords"
}

// BeforeCreate assigns the store-generated identifier.
func (b *Buzzword) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// URL returns the canonical catalog path for the buzzword.
func (b *Buzzword) URL() string {
	return "/catalog/buzzword/" + b.ID
}

// HasImage reports whether an image payload is attached.
func (b *Buzzword) HasImage() bool {
	return len(b.Image.Data) > 0
}

// ImageDataURL returns a data: URI the presentation layer can embed
// directly in an img src, or the empty string when no image is attached.
func (b *Buzzword) ImageDataURL() string {
	if !b.HasImage() {
		return ""
	}
	return "data:" + b.Image.ContentType + ";base64," +
		base64.StdEncoding.EncodeToString(b.Image.Data)
}
