package repository

import (
	"context"

	"github.com/jhoicas/posync/internal/domain/entity"
)

// BusinessRepository puerto de lectura de negocios (el alta y el refresco de tokens son externos).
type BusinessRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	// GetByMerchantID devuelve nil, nil si ningún negocio tiene ese merchant del POS.
	GetByMerchantID(ctx context.Context, merchantID string) (*entity.Business, error)
}
