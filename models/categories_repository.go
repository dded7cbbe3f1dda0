package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrCategoryNotFound is returned when a category is not found.
var ErrCategoryNotFound = errors.New("category not found")

// ErrCategoryHasDependents is returned when a category cannot be deleted
// because buzzwords still reference it.
var ErrCategoryHasDependents = errors.New("category has dependent buzzwords")

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

// Create persists a new category unless one with the exact same name
// already exists, in which case the existing record is returned as-is.
// The lookup and the insert are not atomic; concurrent creates with the
// same name can race.
func (r *CategoriesRepository) Create(name, description string) (*Category, error) {
	var existing Category
	err := r.db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up category by name: %w", err)
	}

	category := Category{
		Name:        name,
		Description: description,
	}
	if err := r.db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (r *CategoriesRepository) GetByID(id string) (*Category, error) {
	var category Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return &category, nil
}

// List returns all categories ordered ascending by name.
func (r *CategoriesRepository) List() ([]Category, error) {
	var categories []Category
	if err := r.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoriesRepository) Update(id, name, description string) (*Category, error) {
	var category Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	category.Name = name
	category.Description = description
	if err := r.db.Save(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &category, nil
}

// Delete removes a category, refusing with ErrCategoryHasDependents while
// any buzzword still references it. The dependents check and the delete
// are not atomic; see Dependents for the list shown to the caller.
func (r *CategoriesRepository) Delete(id string) error {
	if _, err := r.GetByID(id); err != nil {
		return err
	}

	var count int64
	err := r.db.Model(&Buzzword{}).
		Joins("JOIN buzzword_categories ON buzzword_categories.buzzword_id = buzzwords.id").
		Where("buzzword_categories.category_id = ?", id).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count dependent buzzwords: %w", err)
	}
	if count > 0 {
		return ErrCategoryHasDependents
	}

	if err := r.db.Delete(&Category{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// Dependents returns the buzzwords referencing the given category.
func (r *CategoriesRepository) Dependents(categoryID string) ([]Buzzword, error) {
	var buzzwords []Buzzword
	err := r.db.
		Joins("JOIN buzzword_categories ON buzzword_categories.buzzword_id = buzzwords.id").
		Where("buzzword_categories.category_id = ?", categoryID).
		Order("buzzwords.name asc").
		Find(&buzzwords).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list dependent buzzwords: %w", err)
	}
	return buzzwords, nil
}

func (r *CategoriesRepository) CountAll() (int64, error) {
	var count int64
	if err := r.db.Model(&Category{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}
