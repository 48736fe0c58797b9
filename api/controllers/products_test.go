package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	product "github.com/jortega-dev/inventario-backend/internal/products"
	pkgerrors "github.com/jortega-dev/inventario-backend/pkg/errors"
)

type stubProductService struct {
	createFn   func(ctx context.Context, input product.CreateProductInput) (*product.ProductDTO, error)
	updateFn   func(ctx context.Context, productID uuid.UUID, input product.UpdateProductInput) (*product.ProductDTO, error)
	lowStockFn func(ctx context.Context, threshold *int) ([]product.ProductDTO, error)
}

func (s *stubProductService) ListProducts(ctx context.Context, input product.ListProductsInput) ([]product.ProductDTO, error) {
	return []product.ProductDTO{}, nil
}

func (s *stubProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*product.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProductService) CreateProduct(ctx context.Context, input product.CreateProductInput) (*product.ProductDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	panic("unimplemented")
}

func (s *stubProductService) UpdateProduct(ctx context.Context, productID uuid.UUID, input product.UpdateProductInput) (*product.ProductDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, productID, input)
	}
	panic("unimplemented")
}

func (s *stubProductService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	panic("unimplemented")
}

func (s *stubProductService) LowStock(ctx context.Context, threshold *int) ([]product.ProductDTO, error) {
	if s.lowStockFn != nil {
		return s.lowStockFn(ctx, threshold)
	}
	return []product.ProductDTO{}, nil
}

func TestCreateProduct(t *testing.T) {
	logg := testLogger()
	categoryID := uuid.New()
	supplierID := uuid.New()

	t.Run("success forwards parsed fields", func(t *testing.T) {
		var got product.CreateProductInput
		stub := &stubProductService{createFn: func(ctx context.Context, input product.CreateProductInput) (*product.ProductDTO, error) {
			got = input
			return &product.ProductDTO{ID: uuid.New(), Name: input.Name, Code: input.Code, Price: input.Price, Version: 1}, nil
		}}
		body := `{"name":"Colombian Beans","code":"SKU-001","price":"12.50","stock":40,"category_id":"` +
			categoryID.String() + `","supplier_id":"` + supplierID.String() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateProduct(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Price.Equal(decimal.RequireFromString("12.50")) {
			t.Fatalf("expected price 12.50, got %s", got.Price)
		}
		if got.CategoryID != categoryID || got.SupplierID != supplierID {
			t.Fatal("expected category and supplier ids forwarded")
		}
	})

	t.Run("negative stock rejected", func(t *testing.T) {
		stub := &stubProductService{}
		body := `{"name":"Colombian Beans","code":"SKU-001","price":"12.50","stock":-1,"category_id":"` +
			categoryID.String() + `","supplier_id":"` + supplierID.String() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateProduct(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for negative stock, got %d", rec.Code)
		}
	})

	t.Run("malformed category id rejected", func(t *testing.T) {
		stub := &stubProductService{}
		body := `{"name":"Colombian Beans","code":"SKU-001","price":"12.50","stock":4,"category_id":"zzz","supplier_id":"` +
			supplierID.String() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateProduct(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad category id, got %d", rec.Code)
		}
	})

	t.Run("batched validation failure surfaces details", func(t *testing.T) {
		stub := &stubProductService{createFn: func(ctx context.Context, input product.CreateProductInput) (*product.ProductDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product validation failed").WithDetails(map[string]any{
				"code":        "already in use",
				"category_id": "category not found",
			})
		}}
		body := `{"name":"Colombian Beans","code":"SKU-001","price":"12.50","stock":4,"category_id":"` +
			categoryID.String() + `","supplier_id":"` + supplierID.String() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		CreateProduct(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "already in use") || !strings.Contains(rec.Body.String(), "category not found") {
			t.Fatalf("expected both field violations in body, got %s", rec.Body.String())
		}
	})
}

func TestUpdateProductStaleVersion(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()
	categoryID := uuid.New()
	supplierID := uuid.New()

	stub := &stubProductService{updateFn: func(ctx context.Context, id uuid.UUID, input product.UpdateProductInput) (*product.ProductDTO, error) {
		return nil, pkgerrors.New(pkgerrors.CodeConcurrency, "product was modified by another request")
	}}
	body := `{"id":"` + productID.String() + `","name":"Colombian Beans","code":"SKU-001","price":"12.50","stock":4,"category_id":"` +
		categoryID.String() + `","supplier_id":"` + supplierID.String() + `","version":2}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+productID.String(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "productId", productID.String())
	rec := httptest.NewRecorder()
	UpdateProduct(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for stale version, got %d", rec.Code)
	}
}

func TestProductsLowStock(t *testing.T) {
	logg := testLogger()

	t.Run("no threshold forwards nil", func(t *testing.T) {
		var captured *int
		called := false
		stub := &stubProductService{lowStockFn: func(ctx context.Context, threshold *int) ([]product.ProductDTO, error) {
			called = true
			captured = threshold
			return []product.ProductDTO{}, nil
		}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/low-stock", nil)
		rec := httptest.NewRecorder()
		ProductsLowStock(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !called || captured != nil {
			t.Fatalf("expected nil threshold forwarded, got %v", captured)
		}
	})

	t.Run("negative threshold rejected", func(t *testing.T) {
		stub := &stubProductService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/low-stock?threshold=-2", nil)
		rec := httptest.NewRecorder()
		ProductsLowStock(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for negative threshold, got %d", rec.Code)
		}
	})
}

func TestListProductsRejectsBadCategoryFilter(t *testing.T) {
	logg := testLogger()
	stub := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category_id=nope", nil)
	rec := httptest.NewRecorder()
	ListProducts(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad category filter, got %d", rec.Code)
	}
}
