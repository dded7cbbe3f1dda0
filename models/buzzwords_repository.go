package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrBuzzwordNotFound is returned when a buzzword is not found.
var ErrBuzzwordNotFound = errors.New("buzzword not found")

// ErrUnauthorized is returned when the admin password supplied with a
// protected mutation does not match the configured one. The mutation
// must not have touched the store.
var ErrUnauthorized = errors.New("admin password mismatch")

// ErrUnknownCategory is returned when a submitted category id does not
// name an existing category.
var ErrUnknownCategory = errors.New("unknown category id")

// BuzzwordFields carries the scalar fields of a create/update, already
// validated and sanitized by the intake pipeline. A nil Image means
// "no upload"; on update the stored image is kept.
type BuzzwordFields struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	NumberInStock int
	Image         *Image
}

// BuzzwordSummary is the lightweight list projection.
type BuzzwordSummary struct {
	ID   string
	Name string
}

// URL returns the canonical catalog path for the summarized buzzword.
func (s *BuzzwordSummary) URL() string {
	return "/catalog/buzzword/" + s.ID
}

// BuzzwordsRepository persists buzzwords. Update and Delete are gated by
// the admin password handed in at construction time.
type BuzzwordsRepository struct {
	db            *gorm.DB
	adminPassword string
}

func NewBuzzwordsRepository(db *gorm.DB, adminPassword string) *BuzzwordsRepository {
	return &BuzzwordsRepository{
		db:            db,
		adminPassword: adminPassword,
	}
}

// Create persists a new buzzword linked to the given categories. Every
// id must name an existing category; the set is assumed deduplicated by
// the intake pipeline.
func (r *BuzzwordsRepository) Create(fields BuzzwordFields, categoryIDs []string) (*Buzzword, error) {
	categories, err := r.resolveCategories(categoryIDs)
	if err != nil {
		return nil, err
	}

	buzzword := Buzzword{
		Name:          fields.Name,
		Description:   fields.Description,
		Price:         fields.Price,
		NumberInStock: fields.NumberInStock,
		Categories:    categories,
	}
	if fields.Image != nil {
		buzzword.Image = *fields.Image
	}
	if err := r.db.Create(&buzzword).Error; err != nil {
		return nil, fmt.Errorf("failed to create buzzword: %w", err)
	}
	return &buzzword, nil
}

// GetByID retrieves a buzzword with its categories preloaded.
func (r *BuzzwordsRepository) GetByID(id string) (*Buzzword, error) {
	var buzzword Buzzword
	err := r.db.
		Preload("Categories").
		Where("id = ?", id).
		First(&buzzword).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuzzwordNotFound
		}
		return nil, fmt.Errorf("failed to find buzzword: %w", err)
	}
	return &buzzword, nil
}

// List returns the {id, name} projection of all buzzwords, ordered by name.
func (r *BuzzwordsRepository) List() ([]BuzzwordSummary, error) {
	var summaries []BuzzwordSummary
	err := r.db.Model(&Buzzword{}).
		Select("id", "name").
		Order("name asc").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list buzzwords: %w", err)
	}
	return summaries, nil
}

// ListByCategory returns all buzzwords referencing the given category.
func (r *BuzzwordsRepository) ListByCategory(categoryID string) ([]Buzzword, error) {
	var buzzwords []Buzzword
	err := r.db.
		Joins("JOIN buzzword_categories ON buzzword_categories.buzzword_id = buzzwords.id").
		Where("buzzword_categories.category_id = ?", categoryID).
		Order("buzzwords.name asc").
		Find(&buzzwords).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list buzzwords by category: %w", err)
	}
	return buzzwords, nil
}

// Update replaces the buzzword's scalar fields and its whole category
// set. A nil fields.Image keeps the stored image. The secret is checked
// before anything is read or written.
func (r *BuzzwordsRepository) Update(id string, fields BuzzwordFields, categoryIDs []string, secret string) (*Buzzword, error) {
	if secret != r.adminPassword {
		return nil, ErrUnauthorized
	}

	buzzword, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	categories, err := r.resolveCategories(categoryIDs)
	if err != nil {
		return nil, err
	}

	buzzword.Name = fields.Name
	buzzword.Description = fields.Description
	buzzword.Price = fields.Price
	buzzword.NumberInStock = fields.NumberInStock
	if fields.Image != nil {
		buzzword.Image = *fields.Image
	}

	if err := r.db.Omit("Categories").Save(buzzword).Error; err != nil {
		return nil, fmt.Errorf("failed to update buzzword: %w", err)
	}
	if err := r.db.Model(buzzword).Association("Categories").Replace(categories); err != nil {
		return nil, fmt.Errorf("failed to replace buzzword categories: %w", err)
	}

	buzzword.Categories = categories
	return buzzword, nil
}

// Delete removes a buzzword. Unconditional once the secret matches.
func (r *BuzzwordsRepository) Delete(id, secret string) error {
	if secret != r.adminPassword {
		return ErrUnauthorized
	}

	var buzzword Buzzword
	if err := r.db.Where("id = ?", id).First(&buzzword).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBuzzwordNotFound
		}
		return fmt.Errorf("failed to find buzzword: %w", err)
	}

	if err := r.db.Model(&buzzword).Association("Categories").Clear(); err != nil {
		return fmt.Errorf("failed to clear buzzword categories: %w", err)
	}
	if err := r.db.Delete(&buzzword).Error; err != nil {
		return fmt.Errorf("failed to delete buzzword: %w", err)
	}
	return nil
}

func (r *BuzzwordsRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&Buzzword{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count buzzwords: %w", err)
	}
	return count, nil
}

// resolveCategories loads the categories for the given ids, failing with
// ErrUnknownCategory when any id has no matching record.
func (r *BuzzwordsRepository) resolveCategories(categoryIDs []string) ([]Category, error) {
	if len(categoryIDs) == 0 {
		return []Category{}, nil
	}
	var categories []Category
	if err := r.db.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	if len(categories) != len(categoryIDs) {
		return nil, ErrUnknownCategory
	}
	return categories, nil
}
