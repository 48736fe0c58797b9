package supplier

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	product "github.com/jortega-dev/inventario-backend/internal/products"
	"github.com/jortega-dev/inventario-backend/pkg/db"
	"github.com/jortega-dev/inventario-backend/pkg/db/models"
	pkgerrors "github.com/jortega-dev/inventario-backend/pkg/errors"
)

// Service exposes supplier management operations.
type Service interface {
	ListSuppliers(ctx context.Context, input ListSuppliersInput) ([]SupplierDTO, error)
	GetSupplier(ctx context.Context, supplierID uuid.UUID) (*SupplierDetailDTO, error)
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error)
	UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error)
	DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error
	ToggleActive(ctx context.Context, supplierID uuid.UUID) (*SupplierDTO, error)
	MostProducts(ctx context.Context) ([]SupplierRankingDTO, error)
	ContactDirectory(ctx context.Context) ([]SupplierContactDTO, error)
}

// ListSuppliersInput narrows the supplier listing.
type ListSuppliersInput struct {
	Query      string
	OnlyActive bool
}

// CreateSupplierInput holds the validated payload to create a supplier.
type CreateSupplierInput struct {
	Name    string
	Contact *string
	Phone   *string
	Email   *string
	Address *string
	Active  *bool
}

// UpdateSupplierInput holds the full replacement payload for a supplier.
// Version carries the concurrency token the client last read.
type UpdateSupplierInput struct {
	ID      uuid.UUID
	Name    string
	Contact *string
	Phone   *string
	Email   *string
	Address *string
	Active  bool
	Version int
}

type productReader interface {
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error)
}

// service implements the supplier service.
type service struct {
	repo     *Repository
	products productReader
}

// NewService constructs a supplier service instance.
func NewService(repo *Repository, products productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) ListSuppliers(ctx context.Context, input ListSuppliersInput) ([]SupplierDTO, error) {
	rows, err := s.repo.List(ctx, input.Query, input.OnlyActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}
	dtos := make([]SupplierDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetSupplier(ctx context.Context, supplierID uuid.UUID) (*SupplierDetailDTO, error) {
	row, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	sourced, err := s.products.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list supplier products")
	}
	return &SupplierDetailDTO{
		SupplierDTO: toDTO(row),
		Products:    product.ToDTOs(sourced),
	}, nil
}

func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*SupplierDTO, error) {
	if err := s.checkFields(ctx, input.Name, input.Email, input.Phone, uuid.Nil); err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	row := &models.Supplier{
		Name:    input.Name,
		Contact: input.Contact,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
		Active:  active,
		Version: 1,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if field, ok := uniqueField(err); ok {
			return nil, fieldTakenError(field)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) UpdateSupplier(ctx context.Context, supplierID uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error) {
	if input.ID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeIDMismatch, "payload id does not match resource id")
	}

	if _, err := s.repo.FindByID(ctx, supplierID); err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}

	if err := s.checkFields(ctx, input.Name, input.Email, input.Phone, supplierID); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":    input.Name,
		"contact": input.Contact,
		"phone":   input.Phone,
		"email":   input.Email,
		"address": input.Address,
		"active":  input.Active,
	}
	affected, err := s.repo.UpdateVersioned(ctx, supplierID, input.Version, updates)
	if err != nil {
		if field, ok := uniqueField(err); ok {
			return nil, fieldTakenError(field)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier")
	}
	if affected == 0 {
		return nil, s.classifyStaleWrite(ctx, supplierID)
	}
	return s.reload(ctx, supplierID)
}

func (s *service) DeleteSupplier(ctx context.Context, supplierID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, supplierID); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}

	count, err := s.products.CountBySupplier(ctx, supplierID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count supplier products")
	}
	if count > 0 {
		return dependentsError(count)
	}

	affected, err := s.repo.Delete(ctx, supplierID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return dependentsError(count)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete supplier")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return nil
}

func (s *service) ToggleActive(ctx context.Context, supplierID uuid.UUID) (*SupplierDTO, error) {
	row, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}

	affected, err := s.repo.UpdateVersioned(ctx, supplierID, row.Version, map[string]any{
		"active": !row.Active,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: toggle supplier")
	}
	if affected == 0 {
		return nil, s.classifyStaleWrite(ctx, supplierID)
	}
	return s.reload(ctx, supplierID)
}

func (s *service) MostProducts(ctx context.Context) ([]SupplierRankingDTO, error) {
	rows, err := s.repo.RankByProductCount(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rank suppliers")
	}
	dtos := make([]SupplierRankingDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, SupplierRankingDTO{
			SupplierDTO: SupplierDTO{
				ID:           row.ID,
				Name:         row.Name,
				Contact:      row.Contact,
				Phone:        row.Phone,
				Email:        row.Email,
				Address:      row.Address,
				Active:       row.Active,
				Version:      row.Version,
				RegisteredAt: row.RegisteredAt,
			},
			ProductCount: row.ProductCount,
		})
	}
	return dtos, nil
}

func (s *service) ContactDirectory(ctx context.Context) ([]SupplierContactDTO, error) {
	rows, err := s.repo.ListContactable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list contactable suppliers")
	}
	dtos := make([]SupplierContactDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, SupplierContactDTO{
			ID:      rows[i].ID,
			Name:    rows[i].Name,
			Contact: rows[i].Contact,
			Email:   rows[i].Email,
			Phone:   rows[i].Phone,
		})
	}
	return dtos, nil
}

// checkFields probes every unique field and reports all violations together.
// Email and phone only participate when they carry a value.
func (s *service) checkFields(ctx context.Context, name string, email, phone *string, excludeID uuid.UUID) error {
	details := map[string]any{}

	taken, err := s.repo.NameTaken(ctx, name, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check supplier name")
	}
	if taken {
		details["name"] = "a supplier with this name already exists"
	}

	if email != nil && *email != "" {
		taken, err := s.repo.EmailTaken(ctx, *email, excludeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check supplier email")
		}
		if taken {
			details["email"] = "a supplier with this email already exists"
		}
	}

	if phone != nil && *phone != "" {
		taken, err := s.repo.PhoneTaken(ctx, *phone, excludeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check supplier phone")
		}
		if taken {
			details["phone"] = "a supplier with this phone already exists"
		}
	}

	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

// classifyStaleWrite tells apart a vanished row from a version conflict.
func (s *service) classifyStaleWrite(ctx context.Context, supplierID uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, supplierID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: recheck supplier")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeGone, "supplier was deleted by another request")
	}
	return pkgerrors.New(pkgerrors.CodeConcurrency, "supplier was modified by another request")
}

func (s *service) reload(ctx context.Context, supplierID uuid.UUID) (*SupplierDTO, error) {
	row, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	dto := toDTO(row)
	return &dto, nil
}

// uniqueField maps a database unique violation to the offending payload field.
func uniqueField(err error) (string, bool) {
	switch {
	case db.IsUniqueViolation(err, "idx_suppliers_name"):
		return "name", true
	case db.IsUniqueViolation(err, "idx_suppliers_email"):
		return "email", true
	case db.IsUniqueViolation(err, "idx_suppliers_phone"):
		return "phone", true
	}
	return "", false
}

func fieldTakenError(field string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]any{field: "a supplier with this " + field + " already exists"})
}

func dependentsError(count int64) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeDependents, "supplier has products assigned; deactivate it instead of deleting").
		WithDetails(map[string]any{"product_count": count})
}
