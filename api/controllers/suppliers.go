package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jortega-dev/inventario-backend/api/responses"
	"github.com/jortega-dev/inventario-backend/api/validators"
	supplier "github.com/jortega-dev/inventario-backend/internal/suppliers"
	pkgerrors "github.com/jortega-dev/inventario-backend/pkg/errors"
	"github.com/jortega-dev/inventario-backend/pkg/logger"
)

type createSupplierRequest struct {
	Name    string  `json:"name" validate:"required,max=150"`
	Contact *string `json:"contact,omitempty" validate:"omitempty,max=100"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,phone,max=20"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=200"`
	Active  *bool   `json:"active,omitempty"`
}

type updateSupplierRequest struct {
	ID      string  `json:"id" validate:"required,uuid"`
	Name    string  `json:"name" validate:"required,max=150"`
	Contact *string `json:"contact,omitempty" validate:"omitempty,max=100"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,phone,max=20"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=100"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=200"`
	Active  bool    `json:"active"`
	Version int     `json:"version" validate:"required,gte=1"`
}

// ListSuppliers returns suppliers filtered by an optional name query.
// Inactive rows are hidden unless only_active=false is passed.
func ListSuppliers(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		onlyActive, err := validators.ParseQueryBool(r, "only_active", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, err := svc.ListSuppliers(r.Context(), supplier.ListSuppliersInput{
			Query:      validators.SanitizeString(r.URL.Query().Get("q"), 150),
			OnlyActive: onlyActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

// GetSupplier returns one supplier with its sourced products.
func GetSupplier(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := parsePathID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "supplier", id)

		dto, err := svc.GetSupplier(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CreateSupplier registers a new supplier.
func CreateSupplier(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		var req createSupplierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateSupplier(r.Context(), supplier.CreateSupplierInput{
			Name:    validators.SanitizeString(req.Name, 150),
			Contact: req.Contact,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
			Active:  req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UpdateSupplier replaces the mutable fields of a supplier.
func UpdateSupplier(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := parsePathID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "supplier", id)

		var req updateSupplierRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		payloadID, err := uuid.Parse(req.ID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload id"))
			return
		}

		dto, err := svc.UpdateSupplier(ctx, id, supplier.UpdateSupplierInput{
			ID:      payloadID,
			Name:    validators.SanitizeString(req.Name, 150),
			Contact: req.Contact,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
			Active:  req.Active,
			Version: req.Version,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DeleteSupplier removes a supplier with no sourced products.
func DeleteSupplier(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := parsePathID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "supplier", id)

		if err := svc.DeleteSupplier(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ToggleSupplierActive flips the active flag.
func ToggleSupplierActive(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		id, err := parsePathID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "supplier", id)

		dto, err := svc.ToggleActive(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// SuppliersMostProducts ranks active suppliers by product count.
func SuppliersMostProducts(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		dtos, err := svc.MostProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

// SupplierContactDirectory lists reachable active suppliers.
func SupplierContactDirectory(svc supplier.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		dtos, err := svc.ContactDirectory(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}
