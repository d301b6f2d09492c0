// Package catalog sincroniza el catálogo del POS con el inventario de ingredientes.
package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/posync/internal/application/dto"
	"github.com/jhoicas/posync/internal/application/inventory"
	"github.com/jhoicas/posync/internal/domain"
	"github.com/jhoicas/posync/internal/domain/entity"
	"github.com/jhoicas/posync/internal/domain/repository"
)

// Source catálogo del POS con la existencia de cada ítem.
type Source interface {
	ListCatalogItems(ctx context.Context, accessToken string) ([]entity.CatalogItem, error)
}

// SyncUseCase importa los ítems del catálogo como ingredientes. Un ítem nuevo entra con la
// existencia que reporta el POS; uno ya vinculado solo se renombra, porque desde entonces su
// stock lo lleva la conciliación.
type SyncUseCase struct {
	businesses repository.BusinessRepository
	txRunner   inventory.TxRunner
	source     Source
	log        zerolog.Logger
}

// NewSyncUseCase construye el caso de uso.
func NewSyncUseCase(businesses repository.BusinessRepository, txRunner inventory.TxRunner, source Source, log zerolog.Logger) *SyncUseCase {
	return &SyncUseCase{
		businesses: businesses,
		txRunner:   txRunner,
		source:     source,
		log:        log.With().Str("component", "catalog_sync").Logger(),
	}
}

// Sync aplica todo el catálogo en una sola transacción. Un negocio sin token del POS
// devuelve domain.ErrInvalidInput.
func (uc *SyncUseCase) Sync(ctx context.Context, businessID string) (*dto.CatalogSyncResponse, error) {
	if businessID == "" {
		return nil, domain.ErrInvalidInput
	}
	business, err := uc.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business.SquareAccessToken == "" {
		return nil, fmt.Errorf("%w: negocio sin conexión al POS", domain.ErrInvalidInput)
	}

	items, err := uc.source.ListCatalogItems(ctx, business.SquareAccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFetchFailed, err)
	}

	var out dto.CatalogSyncResponse
	err = uc.txRunner.Run(ctx, func(ingredientRepo repository.IngredientRepository, _ repository.IngredientMovementRepository) error {
		out = dto.CatalogSyncResponse{}
		for _, item := range items {
			if item.ID == "" || item.Name == "" {
				continue
			}
			created, err := ingredientRepo.UpsertFromPOS(ctx, businessID, item)
			if err != nil {
				return fmt.Errorf("sincronizar %s: %w", item.ID, err)
			}
			if created {
				out.Created++
			} else {
				out.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("business_id", businessID).
		Int("created", out.Created).
		Int("updated", out.Updated).
		Msg("Catálogo sincronizado")
	return &out, nil
}
