package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posync/internal/application/catalog"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/infrastructure/memory"
)

type fakeSource struct {
	items []entity.CatalogItem
	err   error
	token string
}

func (f *fakeSource) ListCatalogItems(_ context.Context, accessToken string) ([]entity.CatalogItem, error) {
	f.token = accessToken
	return f.items, f.err
}

func newSync(src catalog.Source) (*catalog.SyncUseCase, *memory.Store) {
	s := memory.NewStore()
	s.PutBusiness(&entity.Business{ID: "b-1", SquareAccessToken: "tok-1"})
	s.PutBusiness(&entity.Business{ID: "b-2"})
	return catalog.NewSyncUseCase(memory.NewBusinessRepository(s), memory.NewTxRunner(s), src, zerolog.Nop()), s
}

func TestSync_CreaYRenombra(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{items: []entity.CatalogItem{
		{ID: "sq-1", Name: "Galleta", QuantityInStock: decimal.NewFromInt(12)},
		{ID: "sq-2", Name: "Muffin", QuantityInStock: decimal.NewFromInt(3)},
		{ID: "", Name: "Sin id"},
	}}
	uc, s := newSync(src)

	out, err := uc.Sync(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 0, out.Updated)
	assert.Equal(t, "tok-1", src.token)

	src.items = []entity.CatalogItem{{ID: "sq-1", Name: "Galleta grande", QuantityInStock: decimal.NewFromInt(99)}}
	out, err = uc.Sync(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Created)
	assert.Equal(t, 1, out.Updated)

	ings, err := memory.NewIngredientRepository(s).ListByBusiness(ctx, "b-1")
	require.NoError(t, err)
	require.Len(t, ings, 2)
	assert.Equal(t, "Galleta grande", ings[0].Name)
	assert.True(t, decimal.NewFromInt(12).Equal(ings[0].QuantityInStock), "el stock ya conciliado no se pisa")
}

func TestSync_NegocioSinToken(t *testing.T) {
	uc, _ := newSync(&fakeSource{})
	_, err := uc.Sync(context.Background(), "b-2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Sync(context.Background(), "b-x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSync_ErrorDelPOS(t *testing.T) {
	uc, _ := newSync(&fakeSource{err: errors.New("HTTP 401")})
	_, err := uc.Sync(context.Background(), "b-1")
	assert.ErrorIs(t, err, domain.ErrUpstreamFetchFailed)
	assert.Contains(t, err.Error(), "401")
}
