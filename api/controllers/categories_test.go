package controllers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	category "github.com/jortega-dev/inventario-backend/internal/categories"
	pkgerrors "github.com/jortega-dev/inventario-backend/pkg/errors"
	"github.com/jortega-dev/inventario-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

type stubCategoryService struct {
	getFn    func(ctx context.Context, categoryID uuid.UUID) (*category.CategoryDetailDTO, error)
	createFn func(ctx context.Context, input category.CreateCategoryInput) (*category.CategoryDTO, error)
	updateFn func(ctx context.Context, categoryID uuid.UUID, input category.UpdateCategoryInput) (*category.CategoryDTO, error)
	deleteFn func(ctx context.Context, categoryID uuid.UUID) error
	toggleFn func(ctx context.Context, categoryID uuid.UUID) (*category.CategoryDTO, error)
}

func (s *stubCategoryService) ListCategories(ctx context.Context, input category.ListCategoriesInput) ([]category.CategoryDTO, error) {
	return []category.CategoryDTO{}, nil
}

func (s *stubCategoryService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*category.CategoryDetailDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, categoryID)
	}
	panic("unimplemented")
}

func (s *stubCategoryService) CreateCategory(ctx context.Context, input category.CreateCategoryInput) (*category.CategoryDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	panic("unimplemented")
}

func (s *stubCategoryService) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input category.UpdateCategoryInput) (*category.CategoryDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, categoryID, input)
	}
	panic("unimplemented")
}

func (s *stubCategoryService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, categoryID)
	}
	panic("unimplemented")
}

func (s *stubCategoryService) ToggleActive(ctx context.Context, categoryID uuid.UUID) (*category.CategoryDTO, error) {
	if s.toggleFn != nil {
		return s.toggleFn(ctx, categoryID)
	}
	panic("unimplemented")
}

func (s *stubCategoryService) MostProducts(ctx context.Context) ([]category.CategoryRankingDTO, error) {
	return []category.CategoryRankingDTO{}, nil
}

func TestCreateCategory(t *testing.T) {
	logg := testLogger()

	t.Run("missing name rejected before the service runs", func(t *testing.T) {
		stub := &stubCategoryService{createFn: func(ctx context.Context, input category.CreateCategoryInput) (*category.CategoryDTO, error) {
			t.Fatal("service should not be called")
			return nil, nil
		}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{"description":"no name"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateCategory(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		stub := &stubCategoryService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{"name":"Beverages","color":"red"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateCategory(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})

	t.Run("success returns 201", func(t *testing.T) {
		var got category.CreateCategoryInput
		stub := &stubCategoryService{createFn: func(ctx context.Context, input category.CreateCategoryInput) (*category.CategoryDTO, error) {
			got = input
			return &category.CategoryDTO{ID: uuid.New(), Name: input.Name, Active: true, Version: 1}, nil
		}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{"name":"  Beverages  "}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateCategory(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Name != "Beverages" {
			t.Fatalf("expected trimmed name, got %q", got.Name)
		}
	})
}

func TestUpdateCategoryErrorMapping(t *testing.T) {
	logg := testLogger()
	categoryID := uuid.New()
	body := `{"id":"` + categoryID.String() + `","name":"Beverages","active":true,"version":3}`

	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"stale version maps to 409", pkgerrors.New(pkgerrors.CodeConcurrency, "category was modified by another request"), http.StatusConflict},
		{"removed row maps to 410", pkgerrors.New(pkgerrors.CodeGone, "category no longer exists"), http.StatusGone},
		{"payload id mismatch maps to 409", pkgerrors.New(pkgerrors.CodeIDMismatch, "payload id does not match the resource path"), http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubCategoryService{updateFn: func(ctx context.Context, id uuid.UUID, input category.UpdateCategoryInput) (*category.CategoryDTO, error) {
				return nil, tc.serviceErr
			}}
			req := httptest.NewRequest(http.MethodPut, "/api/v1/categories/"+categoryID.String(), strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = withRouteParam(req, "categoryId", categoryID.String())
			rec := httptest.NewRecorder()
			UpdateCategory(stub, logg).ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}

	t.Run("missing version rejected", func(t *testing.T) {
		stub := &stubCategoryService{}
		noVersion := `{"id":"` + categoryID.String() + `","name":"Beverages","active":true}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/categories/"+categoryID.String(), strings.NewReader(noVersion))
		req.Header.Set("Content-Type", "application/json")
		req = withRouteParam(req, "categoryId", categoryID.String())
		rec := httptest.NewRecorder()
		UpdateCategory(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 without version, got %d", rec.Code)
		}
	})
}

func TestDeleteCategory(t *testing.T) {
	logg := testLogger()
	categoryID := uuid.New()

	t.Run("dependents map to 422", func(t *testing.T) {
		stub := &stubCategoryService{deleteFn: func(ctx context.Context, id uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeDependents, "category has products assigned; deactivate it instead of deleting").
				WithDetails(map[string]any{"product_count": int64(4)})
		}}
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/"+categoryID.String(), nil)
		req = withRouteParam(req, "categoryId", categoryID.String())
		rec := httptest.NewRecorder()
		DeleteCategory(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "deactivate it instead") {
			t.Fatalf("expected guidance in body, got %s", rec.Body.String())
		}
	})

	t.Run("invalid id rejected", func(t *testing.T) {
		stub := &stubCategoryService{}
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/not-a-uuid", nil)
		req = withRouteParam(req, "categoryId", "not-a-uuid")
		rec := httptest.NewRecorder()
		DeleteCategory(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		called := false
		stub := &stubCategoryService{deleteFn: func(ctx context.Context, id uuid.UUID) error {
			called = true
			return nil
		}}
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/"+categoryID.String(), nil)
		req = withRouteParam(req, "categoryId", categoryID.String())
		rec := httptest.NewRecorder()
		DeleteCategory(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on delete, got %d", rec.Code)
		}
		if !called {
			t.Fatal("expected DeleteCategory to be invoked")
		}
	})
}

func TestToggleCategoryActive(t *testing.T) {
	logg := testLogger()
	categoryID := uuid.New()

	stub := &stubCategoryService{toggleFn: func(ctx context.Context, id uuid.UUID) (*category.CategoryDTO, error) {
		return &category.CategoryDTO{ID: id, Name: "Beverages", Active: false, Version: 2}, nil
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories/"+categoryID.String()+"/toggle-active", nil)
	req = withRouteParam(req, "categoryId", categoryID.String())
	rec := httptest.NewRecorder()
	ToggleCategoryActive(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"active":false`) {
		t.Fatalf("expected flipped flag in body, got %s", rec.Body.String())
	}
}

func TestListCategoriesRejectsBadOnlyActive(t *testing.T) {
	logg := testLogger()
	stub := &stubCategoryService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories?only_active=maybe", nil)
	rec := httptest.NewRecorder()
	ListCategories(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad only_active, got %d", rec.Code)
	}
}

func TestGetCategoryTagsLogsWithEntity(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: buf})
	categoryID := uuid.New()

	stub := &stubCategoryService{getFn: func(ctx context.Context, id uuid.UUID) (*category.CategoryDetailDTO, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/"+categoryID.String(), nil)
	req = withRouteParam(req, "categoryId", categoryID.String())
	rec := httptest.NewRecorder()
	GetCategory(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	logged := buf.String()
	if !strings.Contains(logged, `"entity_type":"category"`) {
		t.Fatalf("expected entity_type in log output, got %s", logged)
	}
	if !strings.Contains(logged, `"entity_id":"`+categoryID.String()+`"`) {
		t.Fatalf("expected entity_id in log output, got %s", logged)
	}
}
