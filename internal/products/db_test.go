package product

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jortega-dev/inventario-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Category{}, &models.Supplier{}, &models.Product{}))
	return conn
}

func seedCategory(t *testing.T, conn *gorm.DB, name string) *models.Category {
	t.Helper()

	row := &models.Category{Name: name, Active: true, Version: 1}
	require.NoError(t, conn.Create(row).Error)
	return row
}

func seedSupplier(t *testing.T, conn *gorm.DB, name string) *models.Supplier {
	t.Helper()

	row := &models.Supplier{Name: name, Active: true, Version: 1}
	require.NoError(t, conn.Create(row).Error)
	return row
}

func seedProduct(t *testing.T, conn *gorm.DB, name, code string, stock int, categoryID, supplierID uuid.UUID) *models.Product {
	t.Helper()

	row := &models.Product{
		Name:       name,
		Code:       code,
		Price:      decimal.NewFromFloat(9.99),
		Stock:      stock,
		CategoryID: categoryID,
		SupplierID: supplierID,
		Version:    1,
	}
	require.NoError(t, conn.Create(row).Error)
	return row
}
