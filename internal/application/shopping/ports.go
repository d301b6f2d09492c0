package shopping

import (
	"context"

	"github.com/jhoicas/posync/internal/application/dto"
	"github.com/jhoicas/posync/internal/domain/entity"
)

// PDFGenerator genera la versión imprimible de la lista de compras.
type PDFGenerator interface {
	GenerateShoppingListPDF(ctx context.Context, business *entity.Business, list *dto.ShoppingListResponse) ([]byte, error)
}
