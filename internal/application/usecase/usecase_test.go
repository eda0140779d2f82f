package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-locations-api/internal/application/dto"
	"github.com/jhoicas/stock-locations-api/internal/application/usecase"
	"github.com/jhoicas/stock-locations-api/internal/domain"
	"github.com/jhoicas/stock-locations-api/internal/infrastructure/memory"
)

type catalog struct {
	locations *usecase.LocationUseCase
	products  *usecase.ProductUseCase
}

func newCatalog() *catalog {
	store := memory.NewStore()
	locRepo := memory.NewLocationRepository(store)
	return &catalog{
		locations: usecase.NewLocationUseCase(locRepo),
		products:  usecase.NewProductUseCase(memory.NewProductRepository(store), memory.NewLocationStockRepository(store), locRepo),
	}
}

func qty(v int64) *int64 { return &v }

func TestLocationUseCase_Create_DerivaSlug(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()

	loc, err := c.locations.Create(ctx, dto.CreateLocationRequest{Name: "Bodega Bogotá Norte"})
	require.NoError(t, err)
	assert.Equal(t, "bodega-bogota-norte", loc.Slug)
	assert.NotEmpty(t, loc.ID)

	_, err = c.locations.Create(ctx, dto.CreateLocationRequest{Name: "Otra", Slug: "Bodega Bogota Norte"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = c.locations.Create(ctx, dto.CreateLocationRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLocationUseCase_UpdateYDelete(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	loc, err := c.locations.Create(ctx, dto.CreateLocationRequest{Name: "Tienda"})
	require.NoError(t, err)

	name := "Tienda Centro"
	s := ""
	updated, err := c.locations.Update(ctx, loc.ID, dto.UpdateLocationRequest{Name: &name, Slug: &s})
	require.NoError(t, err)
	assert.Equal(t, "tienda-centro", updated.Slug)

	missing, err := c.locations.Update(ctx, "no-existe", dto.UpdateLocationRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := c.locations.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, c.locations.Delete(ctx, loc.ID))
	got, err := c.locations.GetByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, c.locations.Delete(ctx, loc.ID), domain.ErrNotFound)
}

func TestProductUseCase_CreateVariacion(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()

	parent, err := c.products.Create(ctx, dto.CreateProductRequest{SKU: "CAM", Name: "Camiseta", ManageStock: true})
	require.NoError(t, err)

	v, err := c.products.Create(ctx, dto.CreateProductRequest{SKU: "CAM-M", Name: "Camiseta M", ParentID: parent.ID, ManageStock: true})
	require.NoError(t, err)
	assert.Equal(t, parent.ID, v.ParentID)

	_, err = c.products.Create(ctx, dto.CreateProductRequest{SKU: "CAM-M-X", Name: "x", ParentID: v.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.products.Create(ctx, dto.CreateProductRequest{SKU: "CAM", Name: "Duplicado"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = c.products.Create(ctx, dto.CreateProductRequest{SKU: "Z", Name: "z", ParentID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_SetProductLocations(t *testing.T) {
	c := newCatalog()
	ctx := context.Background()
	p, err := c.products.Create(ctx, dto.CreateProductRequest{SKU: "CAM", Name: "Camiseta", ManageStock: true})
	require.NoError(t, err)
	a, err := c.locations.Create(ctx, dto.CreateLocationRequest{Name: "Norte"})
	require.NoError(t, err)
	b, err := c.locations.Create(ctx, dto.CreateLocationRequest{Name: "Sur"})
	require.NoError(t, err)
	d, err := c.locations.Create(ctx, dto.CreateLocationRequest{Name: "Centro"})
	require.NoError(t, err)

	res, err := c.products.SetProductLocations(ctx, p.ID, dto.SetProductLocationsRequest{Locations: []dto.ProductLocationDTO{
		{Slug: "sur", Quantity: qty(3)},
		{ID: a.ID, Quantity: qty(5)},
		{ID: d.ID, Quantity: qty(0)},
	}})
	require.NoError(t, err)
	require.Len(t, res.Locations, 3)
	assert.Equal(t, b.ID, res.Locations[0].ID)
	assert.Equal(t, a.ID, res.Locations[1].ID)
	assert.Equal(t, d.ID, res.Locations[2].ID)
	assert.Equal(t, int64(8), res.Total)

	t.Run("null quita la ubicación y conserva las no mencionadas", func(t *testing.T) {
		res, err := c.products.SetProductLocations(ctx, p.ID, dto.SetProductLocationsRequest{Locations: []dto.ProductLocationDTO{
			{ID: d.ID, Quantity: qty(7)},
			{ID: b.ID, Quantity: nil},
		}})
		require.NoError(t, err)
		require.Len(t, res.Locations, 2)
		assert.Equal(t, d.ID, res.Locations[0].ID)
		assert.Equal(t, int64(7), *res.Locations[0].Quantity)
		assert.Equal(t, a.ID, res.Locations[1].ID)
		assert.Equal(t, int64(5), *res.Locations[1].Quantity)
	})

	t.Run("cantidad negativa no escribe nada", func(t *testing.T) {
		_, err := c.products.SetProductLocations(ctx, p.ID, dto.SetProductLocationsRequest{Locations: []dto.ProductLocationDTO{
			{ID: a.ID, Quantity: qty(100)},
			{ID: d.ID, Quantity: qty(-1)},
		}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		got, err := c.products.GetProductLocations(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(12), got.Total)
	})

	t.Run("ubicación desconocida", func(t *testing.T) {
		_, err := c.products.SetProductLocations(ctx, p.ID, dto.SetProductLocationsRequest{Locations: []dto.ProductLocationDTO{
			{Slug: "no-existe", Quantity: qty(1)},
		}})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ubicación repetida", func(t *testing.T) {
		_, err := c.products.SetProductLocations(ctx, p.ID, dto.SetProductLocationsRequest{Locations: []dto.ProductLocationDTO{
			{ID: a.ID, Quantity: qty(1)},
			{Slug: "norte", Quantity: qty(2)},
		}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("producto desconocido", func(t *testing.T) {
		_, err := c.products.GetProductLocations(ctx, "no-existe")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
