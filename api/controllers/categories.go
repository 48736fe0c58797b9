package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jortega-dev/inventario-backend/api/responses"
	"github.com/jortega-dev/inventario-backend/api/validators"
	category "github.com/jortega-dev/inventario-backend/internal/categories"
	pkgerrors "github.com/jortega-dev/inventario-backend/pkg/errors"
	"github.com/jortega-dev/inventario-backend/pkg/logger"
)

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=300"`
	Active      *bool   `json:"active,omitempty"`
}

type updateCategoryRequest struct {
	ID          string  `json:"id" validate:"required,uuid"`
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=300"`
	Active      bool    `json:"active"`
	Version     int     `json:"version" validate:"required,gte=1"`
}

// ListCategories returns categories filtered by an optional name query.
// Inactive rows are hidden unless only_active=false is passed.
func ListCategories(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		onlyActive, err := validators.ParseQueryBool(r, "only_active", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos, err := svc.ListCategories(r.Context(), category.ListCategoriesInput{
			Query:      validators.SanitizeString(r.URL.Query().Get("q"), 100),
			OnlyActive: onlyActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dtos)
	}
}

// GetCategory returns one category with its assigned products.
func GetCategory(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := parsePathID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "category", id)

		dto, err := svc.GetCategory(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CreateCategory registers a new category.
func CreateCategory(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		var req createCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateCategory(r.Context(), category.CreateCategoryInput{
			Name:        validators.SanitizeString(req.Name, 100),
			Description: req.Description,
			Active:      req.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UpdateCategory replaces the mutable fields of a category.
func UpdateCategory(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := parsePathID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "category", id)

		var req updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		payloadID, err := uuid.Parse(req.ID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload id"))
			return
		}

		dto, err := svc.UpdateCategory(ctx, id, category.UpdateCategoryInput{
			ID:          payloadID,
			Name:        validators.SanitizeString(req.Name, 100),
			Description: req.Description,
			Active:      req.Active,
			Version:     req.Version,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DeleteCategory removes a category with no assigned products.
func DeleteCategory(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := parsePathID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "category", id)

		if err := svc.DeleteCategory(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ToggleCategoryActive flips the active flag.
func ToggleCategoryActive(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		id, err := parsePathID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := entityContext(r, logg, "category", id)

		dto, err := svc.ToggleActive(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CategoriesMostProducts ranks active categories by product count.
func CategoriesMostProducts(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
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

// entityContext tags request-scoped logs with the entity under operation.
func entityContext(r *http.Request, logg *logger.Logger, entityType string, id uuid.UUID) context.Context {
	if logg == nil {
		return r.Context()
	}
	return logg.WithEntity(r.Context(), entityType, id.String())
}

func parsePathID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid resource id").
			WithDetails(map[string]any{"param": param})
	}
	return id, nil
}
