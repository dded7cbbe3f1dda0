package categories

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/buzzword-bazaar/catalog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Repository ---

type MockCategoryRepo struct {
	Categories   []models.Category
	Buzzwords    []models.Buzzword
	ListErr      error
	CreateErr    error
	UpdateErr    error
	DeleteErr    error
	GetErr       error
	LastCreated  *models.Category
	LastUpdated  *models.Category
	DeleteCalled bool
}

func (m *MockCategoryRepo) Create(name, description string) (*models.Category, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.LastCreated = &models.Category{ID: "new-id", Name: name, Description: description}
	return m.LastCreated, nil
}

func (m *MockCategoryRepo) GetByID(id string) (*models.Category, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for i := range m.Categories {
		if m.Categories[i].ID == id {
			return &m.Categories[i], nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *MockCategoryRepo) List() ([]models.Category, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Categories, nil
}

func (m *MockCategoryRepo) Update(id, name, description string) (*models.Category, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	m.LastUpdated = &models.Category{ID: id, Name: name, Description: description}
	return m.LastUpdated, nil
}

func (m *MockCategoryRepo) Delete(id string) error {
	m.DeleteCalled = true
	return m.DeleteErr
}

func (m *MockCategoryRepo) Dependents(categoryID string) ([]models.Buzzword, error) {
	return m.Buzzwords, nil
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// --- Tests: GET /catalog/categories ---

func TestHandleList(t *testing.T) {
	testCases := []struct {
		name               string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Success with multiple categories",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					Categories: []models.Category{
						{ID: "c1", Name: "Architecture", Description: "d1"},
						{ID: "c2", Name: "Languages", Description: "d2"},
					},
				}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 2)
				assert.Equal(t, "Architecture", resp[0].Name)
				assert.Equal(t, "/catalog/category/c2", resp[1].URL)
			},
		},
		{
			name: "Success with empty list",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{Categories: []models.Category{}}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 0)
			},
		},
		{
			name: "Repository error",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{ListErr: errors.New("db down")}
			},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCategoryHandler(tc.mockRepoSetup())
			req := httptest.NewRequest("GET", "/catalog/categories", nil)
			rec := httptest.NewRecorder()

			handler.HandleList(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}

// --- Tests: GET /catalog/category/{id} ---

func TestHandleDetail(t *testing.T) {
	mockRepo := &MockCategoryRepo{
		Categories: []models.Category{{ID: "c1", Name: "Languages", Description: "d"}},
		Buzzwords:  []models.Buzzword{{ID: "b1", Name: "Rust"}},
	}
	handler := NewCategoryHandler(mockRepo)

	req := httptest.NewRequest("GET", "/catalog/category/c1", nil)
	req.SetPathValue("id", "c1")
	rec := httptest.NewRecorder()

	handler.HandleDetail(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Category  CategoryResponse `json:"category"`
		Buzzwords []BuzzwordRef    `json:"buzzwords"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Languages", resp.Category.Name)
	require.Len(t, resp.Buzzwords, 1)
	assert.Equal(t, "/catalog/buzzword/b1", resp.Buzzwords[0].URL)
}

func TestHandleDetailNotFound(t *testing.T) {
	handler := NewCategoryHandler(&MockCategoryRepo{})

	req := httptest.NewRequest("GET", "/catalog/category/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	handler.HandleDetail(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Tests: POST /catalog/category/create ---

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		values             url.Values
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCall      func(t *testing.T, repo *MockCategoryRepo)
	}{
		{
			name:   "Success redirects to the new record",
			values: url.Values{"name": {"Languages"}, "description": {"d"}},
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusSeeOther,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "/catalog/category/new-id", rec.Header().Get("Location"))
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				require.NotNil(t, repo.LastCreated)
				assert.Equal(t, "Languages", repo.LastCreated.Name)
			},
		},
		{
			name:   "Validation failure never persists",
			values: url.Values{"name": {""}, "description": {""}},
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp struct {
					Errors []string `json:"errors"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, []string{"Category name required", "Description required"}, resp.Errors)
			},
			checkRepoCall: func(t *testing.T, repo *MockCategoryRepo) {
				assert.Nil(t, repo.LastCreated, "Create should not be called for a rejected form")
			},
		},
		{
			name:   "Rejected form carries sanitized values",
			values: url.Values{"name": {"<Cloud>"}, "description": {""}},
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp struct {
					Category struct {
						Name string `json:"name"`
					} `json:"category"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "&lt;Cloud&gt;", resp.Category.Name)
			},
		},
		{
			name:   "Repository error",
			values: url.Values{"name": {"Languages"}, "description": {"d"}},
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{CreateErr: errors.New("insert failed")}
			},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := tc.mockRepoSetup()
			handler := NewCategoryHandler(mockRepo)
			rec := httptest.NewRecorder()

			handler.HandleCreate(rec, postForm("/catalog/category/create", tc.values))

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkRepoCall != nil {
				tc.checkRepoCall(t, mockRepo)
			}
		})
	}
}

// --- Tests: POST /catalog/category/{id}/update ---

func TestHandleUpdate(t *testing.T) {
	mockRepo := &MockCategoryRepo{
		Categories: []models.Category{{ID: "c1", Name: "Old", Description: "d"}},
	}
	handler := NewCategoryHandler(mockRepo)

	req := postForm("/catalog/category/c1/update",
		url.Values{"name": {"New"}, "description": {"nd"}})
	req.SetPathValue("id", "c1")
	rec := httptest.NewRecorder()

	handler.HandleUpdate(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/catalog/category/c1", rec.Header().Get("Location"))
	require.NotNil(t, mockRepo.LastUpdated)
	assert.Equal(t, "New", mockRepo.LastUpdated.Name)
}

func TestHandleUpdateNotFound(t *testing.T) {
	handler := NewCategoryHandler(&MockCategoryRepo{UpdateErr: models.ErrCategoryNotFound})

	req := postForm("/catalog/category/missing/update",
		url.Values{"name": {"New"}, "description": {"nd"}})
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	handler.HandleUpdate(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Tests: POST /catalog/category/{id}/delete ---

func TestHandleDelete(t *testing.T) {
	testCases := []struct {
		name               string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Success redirects to the category list",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusSeeOther,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "/catalog/categories", rec.Header().Get("Location"))
			},
		},
		{
			name: "Refused while buzzwords reference the category",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					DeleteErr: models.ErrCategoryHasDependents,
					Buzzwords: []models.Buzzword{{ID: "b1", Name: "Rust"}},
				}
			},
			expectedStatusCode: http.StatusConflict,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp struct {
					Buzzwords []BuzzwordRef `json:"buzzwords"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				require.Len(t, resp.Buzzwords, 1)
				assert.Equal(t, "Rust", resp.Buzzwords[0].Name)
			},
		},
		{
			name: "Not found",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{DeleteErr: models.ErrCategoryNotFound}
			},
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewCategoryHandler(tc.mockRepoSetup())
			req := postForm("/catalog/category/c1/delete", url.Values{})
			req.SetPathValue("id", "c1")
			rec := httptest.NewRecorder()

			handler.HandleDelete(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
		})
	}
}
