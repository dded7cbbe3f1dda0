// Package forms implements the intake pipeline applied to every
// create/update submission: normalize multi-valued fields to a set,
// validate collecting every failure, HTML-escape string fields, then
// branch on the collected failures. A rejected form keeps its sanitized
// values so the presentation layer can redisplay it.
package forms

import (
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/buzzword-bazaar/catalog/models"
)

// Validation messages, one per field rule.
const (
	msgNameRequired        = "Name must not be empty"
	msgDescriptionRequired = "Description must not be empty"
	msgPriceInvalid        = "Price should be a whole number and can't be negative"
	msgStockInvalid        = "Number in stock should be a whole number between 1 and 100"
)

// Category form messages follow the category controller's wording, which
// differs slightly from the buzzword form's.
const (
	msgCategoryNameRequired = "Category name required"
	msgCategoryDescRequired = "Description required"
)

const maxUploadMemory = 10 << 20 // 10 MiB before spooling to disk

// CategoryForm is the intake result for a category submission.
type CategoryForm struct {
	Name        string
	Description string
	Errors      []string
}

// Valid reports whether the submission passed every field rule.
func (f *CategoryForm) Valid() bool {
	return len(f.Errors) == 0
}

// ParseCategoryForm runs the pipeline over a category submission.
func ParseCategoryForm(r *http.Request) (*CategoryForm, error) {
	if err := parseBody(r); err != nil {
		return nil, err
	}

	form := &CategoryForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	if form.Name == "" {
		form.Errors = append(form.Errors, msgCategoryNameRequired)
	}
	if form.Description == "" {
		form.Errors = append(form.Errors, msgCategoryDescRequired)
	}

	form.Name = html.EscapeString(form.Name)
	form.Description = html.EscapeString(form.Description)
	return form, nil
}

// BuzzwordForm is the intake result for a buzzword submission. Price and
// NumberInStock hold zero values when their raw inputs failed to parse;
// the raw strings are kept (sanitized) for redisplay.
type BuzzwordForm struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	PriceRaw      string
	NumberInStock int
	StockRaw      string
	CategoryIDs   []string
	Password      string
	Image         *models.Image
	Errors        []string
}

// Valid reports whether the submission passed every field rule.
func (f *BuzzwordForm) Valid() bool {
	return len(f.Errors) == 0
}

// Fields maps the accepted form onto the repository's field set.
func (f *BuzzwordForm) Fields() models.BuzzwordFields {
	return models.BuzzwordFields{
		Name:          f.Name,
		Description:   f.Description,
		Price:         f.Price,
		NumberInStock: f.NumberInStock,
		Image:         f.Image,
	}
}

// ParseBuzzwordForm runs the pipeline over a buzzword submission. The
// image attachment step is independent of validation: an invalid form
// still carries a valid upload.
func ParseBuzzwordForm(r *http.Request) (*BuzzwordForm, error) {
	if err := parseBody(r); err != nil {
		return nil, err
	}

	form := &BuzzwordForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		PriceRaw:    strings.TrimSpace(r.FormValue("price")),
		StockRaw:    strings.TrimSpace(r.FormValue("numberInStock")),
		CategoryIDs: NormalizeSet(r.Form["categories"]),
		Password:    r.FormValue("password"),
	}

	// Validate, collecting every failure rather than stopping early.
	if form.Name == "" {
		form.Errors = append(form.Errors, msgNameRequired)
	}
	if form.Description == "" {
		form.Errors = append(form.Errors, msgDescriptionRequired)
	}

	if price, err := strconv.ParseInt(form.PriceRaw, 10, 64); err != nil || price < 0 {
		form.Errors = append(form.Errors, msgPriceInvalid)
	} else {
		form.Price = decimal.NewFromInt(price)
	}

	if stock, err := strconv.Atoi(form.StockRaw); err != nil || stock < 1 || stock > 100 {
		form.Errors = append(form.Errors, msgStockInvalid)
	} else {
		form.NumberInStock = stock
	}

	// Sanitize after validation so rejected values redisplay safely.
	form.Name = html.EscapeString(form.Name)
	form.Description = html.EscapeString(form.Description)
	form.PriceRaw = html.EscapeString(form.PriceRaw)
	form.StockRaw = html.EscapeString(form.StockRaw)

	image, err := attachImage(r)
	if err != nil {
		return nil, err
	}
	form.Image = image

	return form, nil
}

// NormalizeSet turns a field the transport may deliver as absent, a
// single scalar or a repeated value into a deduplicated set. Blank
// entries are dropped.
func NormalizeSet(values []string) []string {
	set := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		set = append(set, v)
	}
	return set
}

// parseBody accepts both urlencoded and multipart submissions.
func parseBody(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return r.ParseMultipartForm(maxUploadMemory)
	}
	return r.ParseForm()
}

// attachImage reads the uploaded "image" file eagerly when its declared
// content type starts with "image". Anything else is ignored.
func attachImage(r *http.Request) (*models.Image, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image") {
		return nil, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &models.Image{Data: data, ContentType: contentType}, nil
}
