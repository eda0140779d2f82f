package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-locations-api/internal/application/dto"
	"github.com/jhoicas/stock-locations-api/internal/domain"
	"github.com/jhoicas/stock-locations-api/internal/domain/entity"
	"github.com/jhoicas/stock-locations-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos y su stock por ubicación.
// El stock sólo se descuenta por el ledger de asignaciones; aquí se fija administrativamente.
type ProductUseCase struct {
	repo         repository.ProductRepository
	stockRepo    repository.LocationStockRepository
	locationRepo repository.LocationRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, stockRepo repository.LocationStockRepository, locationRepo repository.LocationRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, stockRepo: stockRepo, locationRepo: locationRepo}
}

// Create crea un producto o una variación (ParentID debe existir y no ser a su vez variación).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" {
		return nil, domain.NewValidationError("sku", "es obligatorio")
	}
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.ParentID != "" {
		parent, err := uc.repo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("producto padre %s: %w", in.ParentID, domain.ErrNotFound)
		}
		if parent.IsVariation() {
			return nil, domain.NewValidationError("parent_id", "una variación no puede tener variaciones")
		}
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		ParentID:    in.ParentID,
		SKU:         sku,
		Name:        name,
		ManageStock: in.ManageStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre y gestión de stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "es obligatorio")
		}
		product.Name = name
	}
	if in.ManageStock != nil {
		product.ManageStock = *in.ManageStock
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetProductLocations devuelve las ubicaciones configuradas del producto en orden de posición.
func (uc *ProductUseCase) GetProductLocations(ctx context.Context, productID string) (*dto.ProductLocationsResponse, error) {
	product, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	rows, err := uc.stockRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductLocationsResponse{ProductID: productID, Locations: make([]dto.ProductLocationDTO, 0, len(rows))}
	for _, r := range rows {
		q := r.Stock.Quantity
		out.Locations = append(out.Locations, dto.ProductLocationDTO{
			ID:       r.Location.ID,
			Name:     r.Location.Name,
			Slug:     r.Location.Slug,
			Quantity: &q,
		})
		out.Total += q
	}
	return out, nil
}

// SetProductLocations fija el stock por ubicación del producto.
// Quantity null quita la ubicación; el orden de la petición pasa a ser el orden de posición.
// Las ubicaciones ya configuradas que no vienen en la petición se conservan detrás.
// Toda la petición se valida antes de escribir.
func (uc *ProductUseCase) SetProductLocations(ctx context.Context, productID string, in dto.SetProductLocationsRequest) (*dto.ProductLocationsResponse, error) {
	product, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	type change struct {
		locationID string
		quantity   *int64
	}
	changes := make([]change, 0, len(in.Locations))
	seen := make(map[string]struct{}, len(in.Locations))
	for i, item := range in.Locations {
		field := fmt.Sprintf("locations[%d]", i)
		loc, err := uc.lookupLocation(ctx, item)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			if item.ID == "" && item.Slug == "" {
				return nil, domain.NewValidationError(field, "id o slug es obligatorio")
			}
			return nil, fmt.Errorf("ubicación %s%s: %w", item.ID, item.Slug, domain.ErrNotFound)
		}
		if _, dup := seen[loc.ID]; dup {
			return nil, domain.NewValidationError(field, "ubicación repetida")
		}
		seen[loc.ID] = struct{}{}
		if item.Quantity != nil && *item.Quantity < 0 {
			return nil, domain.NewValidationError(field+".quantity", "no puede ser negativa")
		}
		changes = append(changes, change{locationID: loc.ID, quantity: item.Quantity})
	}

	current, err := uc.stockRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	position := 0
	for _, c := range changes {
		if c.quantity == nil {
			if err := uc.stockRepo.Remove(ctx, productID, c.locationID); err != nil {
				return nil, err
			}
			continue
		}
		if err := uc.stockRepo.Set(ctx, &entity.LocationStock{
			ProductID:  productID,
			LocationID: c.locationID,
			Quantity:   *c.quantity,
			Position:   position,
			UpdatedAt:  now,
		}); err != nil {
			return nil, err
		}
		position++
	}
	for _, r := range current {
		if _, touched := seen[r.Location.ID]; touched {
			continue
		}
		s := r.Stock
		s.Position = position
		if err := uc.stockRepo.Set(ctx, &s); err != nil {
			return nil, err
		}
		position++
	}
	return uc.GetProductLocations(ctx, productID)
}

func (uc *ProductUseCase) lookupLocation(ctx context.Context, item dto.ProductLocationDTO) (*entity.Location, error) {
	if item.ID != "" {
		return uc.locationRepo.GetByID(ctx, item.ID)
	}
	if item.Slug != "" {
		return uc.locationRepo.GetBySlug(ctx, item.Slug)
	}
	return nil, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		ParentID:    p.ParentID,
		SKU:         p.SKU,
		Name:        p.Name,
		ManageStock: p.ManageStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
