package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jortega-dev/inventario-backend/pkg/db/models"
	pkgerrors "github.com/jortega-dev/inventario-backend/pkg/errors"
)

const testLowStockDefault = 10

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(conn), testLowStockDefault)
	require.NoError(t, err)
	return svc
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) *pkgerrors.Error {
	t.Helper()

	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code(), "unexpected code for %v", err)
	return typed
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil, testLowStockDefault)
	require.Error(t, err)
}

func TestCreateProduct(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn)
	cat := seedCategory(t, conn, "Beverages")
	sup := seedSupplier(t, conn, "Acme Distributing")
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		dto, err := svc.CreateProduct(ctx, CreateProductInput{
			Name:       "Cold Brew",
			Code:       "CB-001",
			Price:      decimal.NewFromFloat(4.50),
			Stock:      25,
			CategoryID: cat.ID,
			SupplierID: sup.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Cold Brew", dto.Name)
		assert.Equal(t, 1, dto.Version)
		assert.False(t, dto.CreatedAt.IsZero())
		assert.Nil(t, dto.UpdatedAt)
		require.NotNil(t, dto.Category)
		assert.Equal(t, cat.Name, dto.Category.Name)
		require.NotNil(t, dto.Supplier)
		assert.Equal(t, sup.Name, dto.Supplier.Name)
	})

	t.Run("reportsAllFieldViolationsTogether", func(t *testing.T) {
		_, err := svc.CreateProduct(ctx, CreateProductInput{
			Name:       "Broken",
			Code:       "CB-001",
			Price:      decimal.Zero,
			Stock:      5,
			CategoryID: uuid.New(),
			SupplierID: sup.ID,
		})
		typed := requireCode(t, err, pkgerrors.CodeValidation)

		details, ok := typed.Details().(map[string]any)
		require.True(t, ok, "expected details map, got %T", typed.Details())
		assert.Contains(t, details, "code")
		assert.Contains(t, details, "price")
		assert.Contains(t, details, "category_id")
		assert.NotContains(t, details, "supplier_id")
	})
}

func TestUpdateProduct(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn)
	cat := seedCategory(t, conn, "Snacks")
	sup := seedSupplier(t, conn, "Norte Foods")
	row := seedProduct(t, conn, "Trail Mix", "TM-01", 40, cat.ID, sup.ID)
	ctx := context.Background()

	t.Run("idMismatch", func(t *testing.T) {
		_, err := svc.UpdateProduct(ctx, row.ID, UpdateProductInput{ID: uuid.New()})
		requireCode(t, err, pkgerrors.CodeIDMismatch)
	})

	t.Run("notFound", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.UpdateProduct(ctx, missing, UpdateProductInput{ID: missing})
		requireCode(t, err, pkgerrors.CodeNotFound)
	})

	t.Run("staleVersionConflicts", func(t *testing.T) {
		_, err := svc.UpdateProduct(ctx, row.ID, UpdateProductInput{
			ID:         row.ID,
			Name:       "Trail Mix",
			Code:       "TM-01",
			Price:      decimal.NewFromFloat(3.25),
			Stock:      40,
			CategoryID: cat.ID,
			SupplierID: sup.ID,
			Version:    99,
		})
		requireCode(t, err, pkgerrors.CodeConcurrency)
	})

	t.Run("success", func(t *testing.T) {
		dto, err := svc.UpdateProduct(ctx, row.ID, UpdateProductInput{
			ID:         row.ID,
			Name:       "Trail Mix Deluxe",
			Code:       "TM-01",
			Price:      decimal.NewFromFloat(3.75),
			Stock:      35,
			CategoryID: cat.ID,
			SupplierID: sup.ID,
			Version:    1,
		})
		require.NoError(t, err)
		assert.Equal(t, "Trail Mix Deluxe", dto.Name)
		assert.Equal(t, 2, dto.Version)
		require.NotNil(t, dto.UpdatedAt, "expected modification timestamp after first edit")
	})
}

func TestClassifyStaleWrite(t *testing.T) {
	conn := openTestDB(t)
	cat := seedCategory(t, conn, "Dairy")
	sup := seedSupplier(t, conn, "Lacteos SA")
	row := seedProduct(t, conn, "Milk", "MK-01", 12, cat.ID, sup.ID)

	svcImpl := &service{repo: NewRepository(conn), defaultLowStock: testLowStockDefault}
	ctx := context.Background()

	requireCode(t, svcImpl.classifyStaleWrite(ctx, row.ID), pkgerrors.CodeConcurrency)

	require.NoError(t, conn.Delete(row).Error)
	requireCode(t, svcImpl.classifyStaleWrite(ctx, row.ID), pkgerrors.CodeGone)
}

func TestDeleteProduct(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn)
	cat := seedCategory(t, conn, "Bakery")
	sup := seedSupplier(t, conn, "Panes del Sur")
	row := seedProduct(t, conn, "Baguette", "BG-01", 8, cat.ID, sup.ID)
	ctx := context.Background()

	require.NoError(t, svc.DeleteProduct(ctx, row.ID))
	requireCode(t, svc.DeleteProduct(ctx, row.ID), pkgerrors.CodeNotFound)
}

func TestListProducts(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn)
	cat := seedCategory(t, conn, "Produce")
	other := seedCategory(t, conn, "Frozen")
	sup := seedSupplier(t, conn, "Campo Verde")
	seedProduct(t, conn, "Bananas", "PR-02", 50, cat.ID, sup.ID)
	seedProduct(t, conn, "Apples", "PR-01", 30, cat.ID, sup.ID)
	seedProduct(t, conn, "Peas", "FZ-01", 15, other.ID, sup.ID)
	ctx := context.Background()

	t.Run("ordersByName", func(t *testing.T) {
		dtos, err := svc.ListProducts(ctx, ListProductsInput{})
		require.NoError(t, err)
		require.Len(t, dtos, 3)
		assert.Equal(t, "Apples", dtos[0].Name)
		assert.Equal(t, "Bananas", dtos[1].Name)
		assert.Equal(t, "Peas", dtos[2].Name)
		require.NotNil(t, dtos[0].Category)
	})

	t.Run("filtersByQuery", func(t *testing.T) {
		dtos, err := svc.ListProducts(ctx, ListProductsInput{Query: "PR-"})
		require.NoError(t, err)
		require.Len(t, dtos, 2)
	})

	t.Run("filtersByCategory", func(t *testing.T) {
		dtos, err := svc.ListProducts(ctx, ListProductsInput{CategoryID: &other.ID})
		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, "Peas", dtos[0].Name)
	})

	t.Run("filtersByDescription", func(t *testing.T) {
		desc := "sweet garden peas, frozen"
		require.NoError(t, conn.Model(&models.Product{}).
			Where("code = ?", "FZ-01").
			Update("description", desc).Error)

		dtos, err := svc.ListProducts(ctx, ListProductsInput{Query: "garden"})
		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, "Peas", dtos[0].Name)
	})
}

func TestLowStock(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn)
	cat := seedCategory(t, conn, "Pantry")
	sup := seedSupplier(t, conn, "Almacen Central")
	seedProduct(t, conn, "Rice", "PT-01", 3, cat.ID, sup.ID)
	seedProduct(t, conn, "Beans", "PT-02", 10, cat.ID, sup.ID)
	seedProduct(t, conn, "Flour", "PT-03", 80, cat.ID, sup.ID)
	ctx := context.Background()

	t.Run("defaultThreshold", func(t *testing.T) {
		dtos, err := svc.LowStock(ctx, nil)
		require.NoError(t, err)
		require.Len(t, dtos, 2)
		assert.Equal(t, "Rice", dtos[0].Name)
		assert.Equal(t, "Beans", dtos[1].Name)
	})

	t.Run("customThreshold", func(t *testing.T) {
		threshold := 5
		dtos, err := svc.LowStock(ctx, &threshold)
		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, "Rice", dtos[0].Name)
	})

	t.Run("rejectsNegativeThreshold", func(t *testing.T) {
		threshold := -1
		_, err := svc.LowStock(ctx, &threshold)
		requireCode(t, err, pkgerrors.CodeValidation)
	})
}
