package categories

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/buzzword-bazaar/catalog/app/forms"
	"github.com/buzzword-bazaar/catalog/models"
)

// CategoryResponse is the read projection of a category.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// BuzzwordRef is the short form used when listing a category's buzzwords.
type BuzzwordRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type CategoryProvider interface {
	Create(name, description string) (*models.Category, error)
	GetByID(id string) (*models.Category, error)
	List() ([]models.Category, error)
	Update(id, name, description string) (*models.Category, error)
	Delete(id string) error
	Dependents(categoryID string) ([]models.Buzzword, error)
}

type CategoryHandler struct {
	repo   CategoryProvider
	logger *slog.Logger
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{
		repo:   r,
		logger: slog.Default(),
	}
}

// HandleList serves the category list, always name-ascending.
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.List()
	if err != nil {
		h.logger.Error("listing categories", "error", err)
		http.Error(w, "failed to fetch categories", http.StatusInternalServerError)
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(&c)
	}
	writeJSON(w, http.StatusOK, response)
}

// HandleDetail serves one category together with the buzzwords in it.
func (h *CategoryHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	category, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		h.logger.Error("fetching category", "id", id, "error", err)
		http.Error(w, "failed to fetch category", http.StatusInternalServerError)
		return
	}

	buzzwords, err := h.repo.Dependents(id)
	if err != nil {
		h.logger.Error("fetching category buzzwords", "id", id, "error", err)
		http.Error(w, "failed to fetch category buzzwords", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Category  CategoryResponse `json:"category"`
		Buzzwords []BuzzwordRef    `json:"buzzwords"`
	}{
		Category:  toResponse(category),
		Buzzwords: toRefs(buzzwords),
	})
}

// HandleCreateForm serves the empty create-form payload.
func (h *CategoryHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Title string `json:"title"`
	}{Title: "Create Category"})
}

// HandleCreate runs the intake pipeline and persists the category. A
// name that already exists resolves to the existing record's location
// instead of inserting a duplicate.
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	form, err := forms.ParseCategoryForm(r)
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	if !form.Valid() {
		writeRejected(w, form)
		return
	}

	category, err := h.repo.Create(form.Name, form.Description)
	if err != nil {
		h.logger.Error("creating category", "error", err)
		http.Error(w, "failed to create category", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, category.URL(), http.StatusSeeOther)
}

// HandleUpdateForm serves the current values for the update form.
func (h *CategoryHandler) HandleUpdateForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	category, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		h.logger.Error("fetching category", "id", id, "error", err)
		http.Error(w, "failed to fetch category", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(category))
}

// HandleUpdate runs the intake pipeline and updates the record in place.
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	form, err := forms.ParseCategoryForm(r)
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	if !form.Valid() {
		writeRejected(w, form)
		return
	}

	category, err := h.repo.Update(id, form.Name, form.Description)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		h.logger.Error("updating category", "id", id, "error", err)
		http.Error(w, "failed to update category", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, category.URL(), http.StatusSeeOther)
}

// HandleDeleteForm serves the delete-confirmation payload: the category
// plus the buzzwords that would block its deletion.
func (h *CategoryHandler) HandleDeleteForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	category, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			http.Error(w, "Category not found", http.StatusNotFound)
			return
		}
		h.logger.Error("fetching category", "id", id, "error", err)
		http.Error(w, "failed to fetch category", http.StatusInternalServerError)
		return
	}

	dependents, err := h.repo.Dependents(id)
	if err != nil {
		h.logger.Error("fetching category buzzwords", "id", id, "error", err)
		http.Error(w, "failed to fetch category buzzwords", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Category  CategoryResponse `json:"category"`
		Buzzwords []BuzzwordRef    `json:"buzzwords"`
	}{
		Category:  toResponse(category),
		Buzzwords: toRefs(dependents),
	})
}

// HandleDelete enforces the integrity policy: deletion is refused with
// the dependents list while any buzzword references the category.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.repo.Delete(id)
	if err == nil {
		http.Redirect(w, r, "/catalog/categories", http.StatusSeeOther)
		return
	}
	if errors.Is(err, models.ErrCategoryNotFound) {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, models.ErrCategoryHasDependents) {
		dependents, depErr := h.repo.Dependents(id)
		if depErr != nil {
			h.logger.Error("fetching category buzzwords", "id", id, "error", depErr)
			http.Error(w, "failed to fetch category buzzwords", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusConflict, struct {
			Error     string        `json:"error"`
			Buzzwords []BuzzwordRef `json:"buzzwords"`
		}{
			Error:     "category has dependent buzzwords",
			Buzzwords: toRefs(dependents),
		})
		return
	}
	h.logger.Error("deleting category", "id", id, "error", err)
	http.Error(w, "failed to delete category", http.StatusInternalServerError)
}

func toResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		URL:         c.URL(),
	}
}

func toRefs(buzzwords []models.Buzzword) []BuzzwordRef {
	refs := make([]BuzzwordRef, len(buzzwords))
	for i, b := range buzzwords {
		refs[i] = BuzzwordRef{ID: b.ID, Name: b.Name, URL: b.URL()}
	}
	return refs
}

func writeRejected(w http.ResponseWriter, form *forms.CategoryForm) {
	writeJSON(w, http.StatusUnprocessableEntity, struct {
		Category struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"category"`
		Errors []string `json:"errors"`
	}{
		Category: struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}{Name: form.Name, Description: form.Description},
		Errors: form.Errors,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
