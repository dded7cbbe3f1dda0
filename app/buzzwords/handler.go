package buzzwords

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/buzzword-bazaar/catalog/app/forms"
	"github.com/buzzword-bazaar/catalog/models"
)

// BuzzwordResponse is the read projection of a buzzword. Price is always
// a whole number; ImageDataURL is empty when no image is attached.
type BuzzwordResponse struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Price         int64         `json:"price"`
	NumberInStock int           `json:"numberInStock"`
	Categories    []CategoryRef `json:"categories"`
	URL           string        `json:"url"`
	HasImage      bool          `json:"hasImage"`
	ImageDataURL  string        `json:"imageDataUrl,omitempty"`
}

// CategoryRef is the short category form embedded in buzzword reads.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CategoryOption is a selectable category on the create/update form,
// pre-marked as checked when the buzzword already links to it.
type CategoryOption struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

// SummaryResponse is the lightweight list projection.
type SummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type BuzzwordProvider interface {
	Create(fields models.BuzzwordFields, categoryIDs []string) (*models.Buzzword, error)
	GetByID(id string) (*models.Buzzword, error)
	List() ([]models.BuzzwordSummary, error)
	Update(id string, fields models.BuzzwordFields, categoryIDs []string, secret string) (*models.Buzzword, error)
	Delete(id, secret string) error
	CountAll() (int64, error)
}

// CategoryLister supplies the selectable options for buzzword forms and
// the category count for the index page.
type CategoryLister interface {
	List() ([]models.Category, error)
	CountAll() (int64, error)
}

type BuzzwordHandler struct {
	repo       BuzzwordProvider
	categories CategoryLister
	logger     *slog.Logger
}

func NewBuzzwordHandler(r BuzzwordProvider, c CategoryLister) *BuzzwordHandler {
	return &BuzzwordHandler{
		repo:       r,
		categories: c,
		logger:     slog.Default(),
	}
}

// HandleIndex serves the catalog home counts.
func (h *BuzzwordHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	buzzwordCount, err := h.repo.CountAll()
	if err != nil {
		h.logger.Error("counting buzzwords", "error", err)
		http.Error(w, "failed to fetch catalog counts", http.StatusInternalServerError)
		return
	}
	categoryCount, err := h.categories.CountAll()
	if err != nil {
		h.logger.Error("counting categories", "error", err)
		http.Error(w, "failed to fetch catalog counts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Title         string `json:"title"`
		BuzzwordCount int64  `json:"buzzwordCount"`
		CategoryCount int64  `json:"categoryCount"`
	}{
		Title:         "Buzzword Bazaar Home",
		BuzzwordCount: buzzwordCount,
		CategoryCount: categoryCount,
	})
}

// HandleList serves the {id, name} projection of all buzzwords.
func (h *BuzzwordHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.repo.List()
	if err != nil {
		h.logger.Error("listing buzzwords", "error", err)
		http.Error(w, "failed to fetch buzzwords", http.StatusInternalServerError)
		return
	}

	response := make([]SummaryResponse, len(summaries))
	for i, s := range summaries {
		response[i] = SummaryResponse{ID: s.ID, Name: s.Name, URL: s.URL()}
	}
	writeJSON(w, http.StatusOK, response)
}

// HandleDetail serves one buzzword with its categories.
func (h *BuzzwordHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	buzzword, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrBuzzwordNotFound) {
			http.Error(w, "Buzzword not found", http.StatusNotFound)
			return
		}
		h.logger.Error("fetching buzzword", "id", id, "error", err)
		http.Error(w, "failed to fetch buzzword", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(buzzword))
}

// HandleCreateForm serves the create-form payload: every category as an
// unchecked option.
func (h *BuzzwordHandler) HandleCreateForm(w http.ResponseWriter, r *http.Request) {
	options, err := h.options(nil)
	if err != nil {
		h.logger.Error("listing categories", "error", err)
		http.Error(w, "failed to fetch categories", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Title      string           `json:"title"`
		Categories []CategoryOption `json:"categories"`
	}{
		Title:      "Create Buzzword",
		Categories: options,
	})
}

// HandleCreate runs the intake pipeline and persists the buzzword.
func (h *BuzzwordHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	form, err := forms.ParseBuzzwordForm(r)
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	if !form.Valid() {
		h.writeRejected(w, form)
		return
	}

	buzzword, err := h.repo.Create(form.Fields(), form.CategoryIDs)
	if err != nil {
		if errors.Is(err, models.ErrUnknownCategory) {
			form.Errors = append(form.Errors, "One or more selected categories no longer exist")
			h.writeRejected(w, form)
			return
		}
		h.logger.Error("creating buzzword", "error", err)
		http.Error(w, "failed to create buzzword", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, buzzword.URL(), http.StatusSeeOther)
}

// HandleUpdateForm serves the update-form payload: current values plus
// every category, the linked ones pre-checked.
func (h *BuzzwordHandler) HandleUpdateForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	buzzword, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrBuzzwordNotFound) {
			http.Error(w, "Buzzword not found", http.StatusNotFound)
			return
		}
		h.logger.Error("fetching buzzword", "id", id, "error", err)
		http.Error(w, "failed to fetch buzzword", http.StatusInternalServerError)
		return
	}

	checked := make([]string, len(buzzword.Categories))
	for i, c := range buzzword.Categories {
		checked[i] = c.ID
	}
	options, err := h.options(checked)
	if err != nil {
		h.logger.Error("listing categories", "error", err)
		http.Error(w, "failed to fetch categories", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Title      string           `json:"title"`
		Buzzword   BuzzwordResponse `json:"buzzword"`
		Categories []CategoryOption `json:"categories"`
	}{
		Title:      "Update buzzword",
		Buzzword:   toResponse(buzzword),
		Categories: options,
	})
}

// HandleUpdate runs the intake pipeline and replaces the record,
// including its whole category set. Gated by the admin password.
func (h *BuzzwordHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	form, err := forms.ParseBuzzwordForm(r)
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	if !form.Valid() {
		h.writeRejected(w, form)
		return
	}

	buzzword, err := h.repo.Update(id, form.Fields(), form.CategoryIDs, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			http.Error(w, "Invalid password", http.StatusUnauthorized)
		case errors.Is(err, models.ErrBuzzwordNotFound):
			http.Error(w, "Buzzword not found", http.StatusNotFound)
		case errors.Is(err, models.ErrUnknownCategory):
			form.Errors = append(form.Errors, "One or more selected categories no longer exist")
			h.writeRejected(w, form)
		default:
			h.logger.Error("updating buzzword", "id", id, "error", err)
			http.Error(w, "failed to update buzzword", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, buzzword.URL(), http.StatusSeeOther)
}

// HandleDeleteForm serves the delete-confirmation payload.
func (h *BuzzwordHandler) HandleDeleteForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	buzzword, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrBuzzwordNotFound) {
			http.Error(w, "Buzzword not found", http.StatusNotFound)
			return
		}
		h.logger.Error("fetching buzzword", "id", id, "error", err)
		http.Error(w, "failed to fetch buzzword", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(buzzword))
}

// HandleDelete removes the buzzword. Gated by the admin password; a
// mismatch reports 401 rather than silently doing nothing.
func (h *BuzzwordHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	err := h.repo.Delete(id, r.FormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			http.Error(w, "Invalid password", http.StatusUnauthorized)
		case errors.Is(err, models.ErrBuzzwordNotFound):
			http.Error(w, "Buzzword not found", http.StatusNotFound)
		default:
			h.logger.Error("deleting buzzword", "id", id, "error", err)
			http.Error(w, "failed to delete buzzword", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/catalog/buzzwords", http.StatusSeeOther)
}

// options projects every category into a form option, checking the ones
// whose id appears in checkedIDs.
func (h *BuzzwordHandler) options(checkedIDs []string) ([]CategoryOption, error) {
	categories, err := h.categories.List()
	if err != nil {
		return nil, err
	}
	checked := make(map[string]bool, len(checkedIDs))
	for _, id := range checkedIDs {
		checked[id] = true
	}
	options := make([]CategoryOption, len(categories))
	for i, c := range categories {
		options[i] = CategoryOption{
			ID:      c.ID,
			Name:    c.Name,
			Checked: checked[c.ID],
		}
	}
	return options, nil
}

// writeRejected redisplays a failed submission: sanitized values, the
// collected messages and the category options with the submitted ids
// still checked. Nothing is persisted on this path.
func (h *BuzzwordHandler) writeRejected(w http.ResponseWriter, form *forms.BuzzwordForm) {
	options, err := h.options(form.CategoryIDs)
	if err != nil {
		h.logger.Error("listing categories", "error", err)
		http.Error(w, "failed to fetch categories", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusUnprocessableEntity, struct {
		Buzzword struct {
			Name          string   `json:"name"`
			Description   string   `json:"description"`
			Price         string   `json:"price"`
			NumberInStock string   `json:"numberInStock"`
			Categories    []string `json:"categories"`
			HasImage      bool     `json:"hasImage"`
		} `json:"buzzword"`
		Categories []CategoryOption `json:"categories"`
		Errors     []string         `json:"errors"`
	}{
		Buzzword: struct {
			Name          string   `json:"name"`
			Description   string   `json:"description"`
			Price         string   `json:"price"`
			NumberInStock string   `json:"numberInStock"`
			Categories    []string `json:"categories"`
			HasImage      bool     `json:"hasImage"`
		}{
			Name:          form.Name,
			Description:   form.Description,
			Price:         form.PriceRaw,
			NumberInStock: form.StockRaw,
			Categories:    form.CategoryIDs,
			HasImage:      form.Image != nil,
		},
		Categories: options,
		Errors:     form.Errors,
	})
}

func toResponse(b *models.Buzzword) BuzzwordResponse {
	categories := make([]CategoryRef, len(b.Categories))
	for i, c := range b.Categories {
		categories[i] = CategoryRef{ID: c.ID, Name: c.Name, URL: c.URL()}
	}
	return BuzzwordResponse{
		ID:            b.ID,
		Name:          b.Name,
		Description:   b.Description,
		Price:         b.Price.IntPart(),
		NumberInStock: b.NumberInStock,
		Categories:    categories,
		URL:           b.URL(),
		HasImage:      b.HasImage(),
		ImageDataURL:  b.ImageDataURL(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
