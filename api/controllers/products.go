package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jortega-dev/inventario-backend/api/responses"
	"github.com/jortega-dev/inventario-backend/api/validators"
	product "github.com/jortega-dev/inventario-backend/internal/products"
	pkgerrors "github.com/jortega-dev/inventario-backend/pkg/errors"
	"github.com/jortega-dev/inventario-backend/pkg/logger"
)

type createProductRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	Code        string          `json:"code" validate:"required,max=50"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
	SupplierID  string          `json:"supplier_id" validate:"required,uuid"`
}

type updateProductRequest struct {
	ID          string          `json:"id" validate:"required,uuid"`
	Name        string          `json:"name" validate:"required,max=100"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	Code        string          `json:"code" validate:"required,max=50"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
	SupplierID  string          `json:"supplier_id" validate:"required,uuid"`
	Version     int             `json:"version" validate:"required,gte=1"`
}

// ListProducts returns products filtered by an optional search query and
// category/supplier ids.
func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := validators.ParseQueryUUID(r, "supplier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, err := svc.ListProducts(r.Context(), product.ListProductsInput{
			Query:      validators.SanitizeString(r.URL.Query().Get("q"), 100),
			CategoryID: categoryID,
			SupplierID: supplierID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

// GetProduct returns one product with its category and supplier.
func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "product", id)

		dto, err := svc.GetProduct(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CreateProduct registers a new product.
func CreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
			return
		}
		supplierID, err := uuid.Parse(req.SupplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
			return
		}

		dto, err := svc.CreateProduct(r.Context(), product.CreateProductInput{
			Name:        validators.SanitizeString(req.Name, 100),
			Description: req.Description,
			Code:        validators.SanitizeString(req.Code, 50),
			Price:       req.Price,
			Stock:       req.Stock,
			CategoryID:  categoryID,
			SupplierID:  supplierID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UpdateProduct replaces the mutable fields of a product.
func UpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "product", id)

		var req updateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		payloadID, err := uuid.Parse(req.ID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload id"))
			return
		}
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
			return
		}
		supplierID, err := uuid.Parse(req.SupplierID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
			return
		}

		dto, err := svc.UpdateProduct(ctx, id, product.UpdateProductInput{
			ID:          payloadID,
			Name:        validators.SanitizeString(req.Name, 100),
			Description: req.Description,
			Code:        validators.SanitizeString(req.Code, 50),
			Price:       req.Price,
			Stock:       req.Stock,
			CategoryID:  categoryID,
			SupplierID:  supplierID,
			Version:     req.Version,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DeleteProduct removes a product.
func DeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := parsePathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "product", id)

		if err := svc.DeleteProduct(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProductsLowStock lists products at or below the replenishment threshold.
func ProductsLowStock(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var threshold *int
		if raw := r.URL.Query().Get("threshold"); raw != "" {
			value, err := validators.ParseQueryInt(r, "threshold", 0, 0, 1_000_000)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			threshold = &value
		}

		dtos, err := svc.LowStock(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}
