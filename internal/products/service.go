package product

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jortega-dev/inventario-backend/pkg/db"
	"github.com/jortega-dev/inventario-backend/pkg/db/models"
	pkgerrors "github.com/jortega-dev/inventario-backend/pkg/errors"
)

// Service exposes product catalog operations.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) ([]ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	LowStock(ctx context.Context, threshold *int) ([]ProductDTO, error)
}

// ListProductsInput narrows the product listing.
type ListProductsInput struct {
	Query      string
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	Code        string
	Price       decimal.Decimal
	Stock       int
	CategoryID  uuid.UUID
	SupplierID  uuid.UUID
}

// UpdateProductInput holds the full replacement payload for a product.
// Version carries the concurrency token the client last read.
type UpdateProductInput struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Code        string
	Price       decimal.Decimal
	Stock       int
	CategoryID  uuid.UUID
	SupplierID  uuid.UUID
	Version     int
}

// service implements the product service.
type service struct {
	repo            *Repository
	defaultLowStock int
}

// NewService constructs a product service instance.
func NewService(repo *Repository, defaultLowStock int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if defaultLowStock < 0 {
		return nil, fmt.Errorf("low stock threshold must be non-negative")
	}
	return &service{repo: repo, defaultLowStock: defaultLowStock}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, ListFilter{
		Query:      input.Query,
		CategoryID: input.CategoryID,
		SupplierID: input.SupplierID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return ToDTOs(rows), nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindDetail(ctx, productID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	dto := ToDTO(row)
	return &dto, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := s.checkFields(ctx, fieldCheck{
		code:       input.Code,
		price:      input.Price,
		stock:      input.Stock,
		categoryID: input.CategoryID,
		supplierID: input.SupplierID,
		excludeID:  uuid.Nil,
	}); err != nil {
		return nil, err
	}

	row := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Code:        input.Code,
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		SupplierID:  input.SupplierID,
		Version:     1,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "idx_products_code") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]any{"code": "a product with this code already exists"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	return s.reload(ctx, row.ID)
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.ID != productID {
		return nil, pkgerrors.New(pkgerrors.CodeIDMismatch, "payload id does not match resource id")
	}

	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	if err := s.checkFields(ctx, fieldCheck{
		code:       input.Code,
		price:      input.Price,
		stock:      input.Stock,
		categoryID: input.CategoryID,
		supplierID: input.SupplierID,
		excludeID:  productID,
	}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"code":        input.Code,
		"price":       input.Price,
		"stock":       input.Stock,
		"category_id": input.CategoryID,
		"supplier_id": input.SupplierID,
		"updated_at":  now,
	}
	affected, err := s.repo.UpdateVersioned(ctx, productID, input.Version, updates)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_products_code") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]any{"code": "a product with this code already exists"})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	if affected == 0 {
		return nil, s.classifyStaleWrite(ctx, productID)
	}

	return s.reload(ctx, productID)
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	affected, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) LowStock(ctx context.Context, threshold *int) ([]ProductDTO, error) {
	limit := s.defaultLowStock
	if threshold != nil {
		if *threshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "threshold must be non-negative").
				WithDetails(map[string]any{"threshold": "must be non-negative"})
		}
		limit = *threshold
	}
	rows, err := s.repo.ListLowStock(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list low stock")
	}
	return ToDTOs(rows), nil
}

// fieldCheck bundles the values that need uniqueness and reference probes.
type fieldCheck struct {
	code       string
	price      decimal.Decimal
	stock      int
	categoryID uuid.UUID
	supplierID uuid.UUID
	excludeID  uuid.UUID
}

// checkFields runs every probe and reports all violations together.
func (s *service) checkFields(ctx context.Context, check fieldCheck) error {
	details := map[string]any{}

	if !check.price.IsPositive() {
		details["price"] = "must be greater than zero"
	}
	if check.stock < 0 {
		details["stock"] = "must be non-negative"
	}

	taken, err := s.repo.CodeTaken(ctx, check.code, check.excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check product code")
	}
	if taken {
		details["code"] = "a product with this code already exists"
	}

	catOK, err := s.repo.CategoryExists(ctx, check.categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check category")
	}
	if !catOK {
		details["category_id"] = "category does not exist"
	}

	supOK, err := s.repo.SupplierExists(ctx, check.supplierID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check supplier")
	}
	if !supOK {
		details["supplier_id"] = "supplier does not exist"
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

// classifyStaleWrite tells apart a vanished row from a version conflict.
func (s *service) classifyStaleWrite(ctx context.Context, productID uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: recheck product")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeGone, "product was deleted by another request")
	}
	return pkgerrors.New(pkgerrors.CodeConcurrency, "product was modified by another request")
}

func (s *service) reload(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindDetail(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product detail")
	}
	dto := ToDTO(row)
	return &dto, nil
}
