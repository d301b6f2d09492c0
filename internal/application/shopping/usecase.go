package shopping

import (
	"context"
	"fmt"

	"github.com/jhoicas/posync/internal/application/dto"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

// UnknownIngredientName nombre mostrado para líneas cuyo ingrediente ya no existe.
const UnknownIngredientName = "Unknown"

// UseCase operaciones manuales sobre la lista de compras del negocio.
// Todas las escrituras pasan por el mismo bloqueo por negocio que usa la conciliación.
type UseCase struct {
	lists       repository.ShoppingListRepository
	ingredients repository.IngredientRepository
	businesses  repository.BusinessRepository
	generator   PDFGenerator
}

// NewUseCase construye el caso de uso; generator puede ser nil si no se exporta PDF.
func NewUseCase(
	lists repository.ShoppingListRepository,
	ingredients repository.IngredientRepository,
	businesses repository.BusinessRepository,
	generator PDFGenerator,
) *UseCase {
	return &UseCase{
		lists:       lists,
		ingredients: ingredients,
		businesses:  businesses,
		generator:   generator,
	}
}

// Get devuelve la lista con los nombres de los ingredientes. domain.ErrNotFound si el negocio no tiene lista.
func (uc *UseCase) Get(ctx context.Context, businessID string) (*dto.ShoppingListResponse, error) {
	list, err := uc.requireList(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, list)
}

// Clear vacía la lista.
func (uc *UseCase) Clear(ctx context.Context, businessID string) (*dto.ShoppingListResponse, error) {
	if _, err := uc.requireList(ctx, businessID); err != nil {
		return nil, err
	}
	list, err := uc.lists.Modify(ctx, businessID, func(l *entity.ShoppingList) error {
		l.Lines = []entity.ShoppingListLine{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vaciar lista de compras: %w", err)
	}
	return uc.toResponse(ctx, list)
}

// AddItem suma cantidad a la línea del ingrediente (o la crea). La nota solo se fija si la línea no tenía.
func (uc *UseCase) AddItem(ctx context.Context, businessID, ingredientID string, in dto.AddShoppingItemRequest) (*dto.ShoppingListResponse, error) {
	if ingredientID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	ing, err := uc.ingredients.GetByID(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	if ing.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}

	list, err := uc.lists.Modify(ctx, businessID, func(l *entity.ShoppingList) error {
		if i := l.IndexOf(ingredientID); i >= 0 {
			l.Lines[i].Quantity = l.Lines[i].Quantity.Add(in.Quantity)
			if l.Lines[i].Note == "" {
				l.Lines[i].Note = in.Note
			}
			return nil
		}
		l.Lines = append(l.Lines, entity.ShoppingListLine{
			IngredientID: ingredientID,
			Quantity:     in.Quantity,
			Note:         in.Note,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("agregar a lista de compras: %w", err)
	}
	return uc.toResponse(ctx, list)
}

// RemoveQuantity resta cantidad de la línea; si queda en cero o menos la línea se elimina.
func (uc *UseCase) RemoveQuantity(ctx context.Context, businessID, ingredientID string, in dto.RemoveShoppingItemRequest) (*dto.ShoppingListResponse, error) {
	if ingredientID == "" || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.requireList(ctx, businessID); err != nil {
		return nil, err
	}
	list, err := uc.lists.Modify(ctx, businessID, func(l *entity.ShoppingList) error {
		i := l.IndexOf(ingredientID)
		if i < 0 {
			return domain.ErrNotFound
		}
		l.Lines[i].Quantity = l.Lines[i].Quantity.Sub(in.Quantity)
		if !l.Lines[i].Quantity.IsPositive() {
			l.RemoveAt(i)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, list)
}

// ExportPDF genera el PDF de la lista y un nombre de archivo sugerido.
func (uc *UseCase) ExportPDF(ctx context.Context, businessID string) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	view, err := uc.Get(ctx, businessID)
	if err != nil {
		return nil, "", err
	}
	business, err := uc.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener negocio: %w", err)
	}
	doc, err := uc.generator.GenerateShoppingListPDF(ctx, business, view)
	if err != nil {
		return nil, "", err
	}
	return doc, fmt.Sprintf("lista-compras-%s.pdf", view.UpdatedAt.Format("20060102")), nil
}

func (uc *UseCase) requireList(ctx context.Context, businessID string) (*entity.ShoppingList, error) {
	if businessID == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.lists.Get(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("obtener lista de compras: %w", err)
	}
	if list == nil {
		return nil, domain.ErrNotFound
	}
	return list, nil
}

func (uc *UseCase) toResponse(ctx context.Context, list *entity.ShoppingList) (*dto.ShoppingListResponse, error) {
	ingredients, err := uc.ingredients.ListByBusiness(ctx, list.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("listar ingredientes: %w", err)
	}
	names := make(map[string]string, len(ingredients))
	for _, ing := range ingredients {
		names[ing.ID] = ing.Name
	}

	out := &dto.ShoppingListResponse{
		ID:         list.ID,
		BusinessID: list.BusinessID,
		Lines:      make([]dto.ShoppingListLineDTO, 0, len(list.Lines)),
		UpdatedAt:  list.UpdatedAt,
	}
	for _, l := range list.Lines {
		name, ok := names[l.IngredientID]
		if !ok {
			name = UnknownIngredientName
		}
		out.Lines = append(out.Lines, dto.ShoppingListLineDTO{
			IngredientID:   l.IngredientID,
			IngredientName: name,
			Quantity:       l.Quantity,
			Note:           l.Note,
		})
	}
	return out, nil
}
