package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	product "github.com/jortega-dev/inventario-backend/internal/products"
	"github.com/jortega-dev/inventario-backend/pkg/db"
	"github.com/jortega-dev/inventario-backend/pkg/db/models"
	pkgerrors "github.com/jortega-dev/inventario-backend/pkg/errors"
)

// Service exposes category management operations.
type Service interface {
	ListCategories(ctx context.Context, input ListCategoriesInput) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*CategoryDetailDTO, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
	ToggleActive(ctx context.Context, categoryID uuid.UUID) (*CategoryDTO, error)
	MostProducts(ctx context.Context) ([]CategoryRankingDTO, error)
}

// ListCategoriesInput narrows the category listing.
type ListCategoriesInput struct {
	Query      string
	OnlyActive bool
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
	Active      *bool
}

// UpdateCategoryInput holds the full replacement payload for a category.
// Version carries the concurrency token the client last read.
type UpdateCategoryInput struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Active      bool
	Version     int
}

type productReader interface {
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Product, error)
}

// service implements the category service.
type service struct {
	repo     *Repository
	products productReader
}

// NewService constructs a category service instance.
func NewService(repo *Repository, products productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) ListCategories(ctx context.Context, input ListCategoriesInput) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx, input.Query, input.OnlyActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, toDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) GetCategory(ctx context.Context, categoryID uuid.UUID) (*CategoryDetailDTO, error) {
	row, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	assigned, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list category products")
	}
	return &CategoryDetailDTO{
		CategoryDTO: toDTO(row),
		Products:    product.ToDTOs(assigned),
	}, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	if err := s.checkName(ctx, input.Name, uuid.Nil); err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	row := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		Active:      active,
		Version:     1,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "idx_categories_name") {
			return nil, nameTakenError()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	if input.ID != categoryID {
		return nil, pkgerrors.New(pkgerrors.CodeIDMismatch, "payload id does not match resource id")
	}

	if _, err := s.repo.FindByID(ctx, categoryID); err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	if err := s.checkName(ctx, input.Name, categoryID); err != nil {
		return nil, err
	}

	updates := map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"active":      input.Active,
	}
	affected, err := s.repo.UpdateVersioned(ctx, categoryID, input.Version, updates)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_categories_name") {
			return nil, nameTakenError()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	if affected == 0 {
		return nil, s.classifyStaleWrite(ctx, categoryID)
	}
	return s.reload(ctx, categoryID)
}

func (s *service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, categoryID); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	count, err := s.products.CountByCategory(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count category products")
	}
	if count > 0 {
		return dependentsError(count)
	}

	affected, err := s.repo.Delete(ctx, categoryID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return dependentsError(count)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return nil
}

func (s *service) ToggleActive(ctx context.Context, categoryID uuid.UUID) (*CategoryDTO, error) {
	row, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	affected, err := s.repo.UpdateVersioned(ctx, categoryID, row.Version, map[string]any{
		"active": !row.Active,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: toggle category")
	}
	if affected == 0 {
		return nil, s.classifyStaleWrite(ctx, categoryID)
	}
	return s.reload(ctx, categoryID)
}

func (s *service) MostProducts(ctx context.Context) ([]CategoryRankingDTO, error) {
	rows, err := s.repo.RankByProductCount(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rank categories")
	}
	dtos := make([]CategoryRankingDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, CategoryRankingDTO{
			CategoryDTO: CategoryDTO{
				ID:          row.ID,
				Name:        row.Name,
				Description: row.Description,
				Active:      row.Active,
				Version:     row.Version,
				CreatedAt:   row.CreatedAt,
			},
			ProductCount: row.ProductCount,
		})
	}
	return dtos, nil
}

// checkName probes the unique name and reports the violation on its field.
func (s *service) checkName(ctx context.Context, name string, excludeID uuid.UUID) error {
	taken, err := s.repo.NameTaken(ctx, name, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check category name")
	}
	if taken {
		return nameTakenError()
	}
	return nil
}

// classifyStaleWrite tells apart a vanished row from a version conflict.
func (s *service) classifyStaleWrite(ctx context.Context, categoryID uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: recheck category")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeGone, "category was deleted by another request")
	}
	return pkgerrors.New(pkgerrors.CodeConcurrency, "category was modified by another request")
}

func (s *service) reload(ctx context.Context, categoryID uuid.UUID) (*CategoryDTO, error) {
	row, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	dto := toDTO(row)
	return &dto, nil
}

func nameTakenError() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]any{"name": "a category with this name already exists"})
}

func dependentsError(count int64) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeDependents, "category has products assigned; deactivate it instead of deleting").
		WithDetails(map[string]any{"product_count": count})
}
