package shopping_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/posync/internal/application/dto"
	"github.com/jhoicas/posync/internal/application/shopping"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakePDF registra la vista recibida y devuelve bytes fijos.
type fakePDF struct {
	got *dto.ShoppingListResponse
	err error
}

func (f *fakePDF) GenerateShoppingListPDF(_ context.Context, _ *entity.Business, list *dto.ShoppingListResponse) ([]byte, error) {
	f.got = list
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3 fake"), nil
}

type fixture struct {
	uc    *shopping.UseCase
	lists *memory.ShoppingListRepo
	pdf   *fakePDF
}

func newFixture() *fixture {
	s := memory.NewStore()
	s.PutBusiness(&entity.Business{ID: "b-1", Name: "Café Central"})
	s.PutIngredient(&entity.Ingredient{ID: "pan", BusinessID: "b-1", Name: "Pan"})
	s.PutIngredient(&entity.Ingredient{ID: "leche", BusinessID: "b-1", Name: "Leche"})
	s.PutIngredient(&entity.Ingredient{ID: "ajeno", BusinessID: "b-2", Name: "Ajeno"})

	f := &fixture{lists: memory.NewShoppingListRepository(s), pdf: &fakePDF{}}
	f.uc = shopping.NewUseCase(f.lists, memory.NewIngredientRepository(s), memory.NewBusinessRepository(s), f.pdf)
	return f
}

func add(t *testing.T, f *fixture, ingredientID, qty, note string) *dto.ShoppingListResponse {
	t.Helper()
	out, err := f.uc.AddItem(context.Background(), "b-1", ingredientID, dto.AddShoppingItemRequest{Quantity: dec(qty), Note: note})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Get / Clear
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_SinLista(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Get(context.Background(), "b-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_NombreDeIngredienteEliminado(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	_, err := f.lists.Modify(ctx, "b-1", func(l *entity.ShoppingList) error {
		l.Lines = append(l.Lines, entity.ShoppingListLine{IngredientID: "borrado", Quantity: dec("3")})
		return nil
	})
	require.NoError(t, err)

	out, err := f.uc.Get(ctx, "b-1")
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.Equal(t, shopping.UnknownIngredientName, out.Lines[0].IngredientName)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.uc.Clear(ctx, "b-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "no se crea una lista vacía")

	add(t, f, "pan", "2", "")
	add(t, f, "leche", "1", "")

	out, err := f.uc.Clear(ctx, "b-1")
	require.NoError(t, err)
	assert.Empty(t, out.Lines)

	again, err := f.uc.Get(ctx, "b-1")
	require.NoError(t, err)
	assert.Empty(t, again.Lines, "la lista sigue existiendo, vacía")
}

// ──────────────────────────────────────────────────────────────────────────────
// AddItem
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_CreaYSuma(t *testing.T) {
	f := newFixture()

	out := add(t, f, "pan", "2", "")
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "Pan", out.Lines[0].IngredientName)

	out = add(t, f, "pan", "1.5", "panadería")
	require.Len(t, out.Lines, 1)
	assert.True(t, dec("3.5").Equal(out.Lines[0].Quantity))
	assert.Equal(t, "panadería", out.Lines[0].Note, "la nota se fija si la línea no tenía")

	out = add(t, f, "pan", "1", "otra nota")
	assert.Equal(t, "panadería", out.Lines[0].Note, "una nota existente no se reemplaza")
}

func TestAddItem_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.uc.AddItem(ctx, "b-1", "pan", dto.AddShoppingItemRequest{Quantity: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.AddItem(ctx, "b-1", "", dto.AddShoppingItemRequest{Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.AddItem(ctx, "b-1", "no-existe", dto.AddShoppingItemRequest{Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.AddItem(ctx, "b-1", "ajeno", dto.AddShoppingItemRequest{Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound, "ingrediente de otro negocio")
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	add(t, f, "pan", "5", "")
	add(t, f, "leche", "2", "")

	out, err := f.uc.RemoveQuantity(ctx, "b-1", "pan", dto.RemoveShoppingItemRequest{Quantity: dec("2")})
	require.NoError(t, err)
	assert.True(t, dec("3").Equal(out.Lines[0].Quantity))

	out, err = f.uc.RemoveQuantity(ctx, "b-1", "pan", dto.RemoveShoppingItemRequest{Quantity: dec("10")})
	require.NoError(t, err)
	require.Len(t, out.Lines, 1, "la línea en cero o menos se elimina")
	assert.Equal(t, "leche", out.Lines[0].IngredientID)

	_, err = f.uc.RemoveQuantity(ctx, "b-1", "pan", dto.RemoveShoppingItemRequest{Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.RemoveQuantity(ctx, "b-1", "leche", dto.RemoveShoppingItemRequest{Quantity: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoveQuantity_SinLista(t *testing.T) {
	f := newFixture()
	_, err := f.uc.RemoveQuantity(context.Background(), "b-1", "pan", dto.RemoveShoppingItemRequest{Quantity: dec("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ExportPDF
// ──────────────────────────────────────────────────────────────────────────────

func TestExportPDF(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	add(t, f, "pan", "5", "")

	doc, filename, err := f.uc.ExportPDF(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 fake", string(doc))
	assert.True(t, strings.HasPrefix(filename, "lista-compras-"))
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	require.NotNil(t, f.pdf.got)
	assert.Equal(t, "Pan", f.pdf.got.Lines[0].IngredientName)
}

func TestExportPDF_Errores(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, _, err := f.uc.ExportPDF(ctx, "b-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	add(t, f, "pan", "5", "")
	f.pdf.err = errors.New("fuente no disponible")
	_, _, err = f.uc.ExportPDF(ctx, "b-1")
	assert.EqualError(t, err, "fuente no disponible")

	noGen := shopping.NewUseCase(f.lists, nil, nil, nil)
	_, _, err = noGen.ExportPDF(ctx, "b-1")
	assert.Error(t, err)
}
