package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/posync/internal/application/inventory"
	"github.com/jhoicas/posync/internal/domain/repository"
	"github.com/jhoicas/posync/internal/infrastructure/memory"
	"github.com/jhoicas/posync/internal/infrastructure/postgres"
	"github.com/jhoicas/posync/pkg/config"
)

// store agrupa los adaptadores de persistencia del driver elegido.
type store struct {
	businesses   repository.BusinessRepository
	ingredients  repository.IngredientRepository
	recipes      repository.RecipeRepository
	movements    repository.IngredientMovementRepository
	shoppingList repository.ShoppingListRepository
	processed    repository.ProcessedEventRepository
	inbox        repository.InboxRepository
	txRunner     inventory.TxRunner
	close        func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	if cfg.Store.Driver == "memory" {
		s := memory.NewStore()
		if cfg.Store.SeedFile != "" {
			if err := s.LoadSeed(cfg.Store.SeedFile); err != nil {
				return nil, err
			}
		}
		return &store{
			businesses:   memory.NewBusinessRepository(s),
			ingredients:  memory.NewIngredientRepository(s),
			recipes:      memory.NewRecipeRepository(s),
			movements:    memory.NewIngredientMovementRepository(s),
			shoppingList: memory.NewShoppingListRepository(s),
			processed:    memory.NewProcessedEventRepository(s),
			inbox:        memory.NewInboxRepository(s),
			txRunner:     memory.NewTxRunner(s),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.Store.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &store{
		businesses:   postgres.NewBusinessRepository(pool),
		ingredients:  postgres.NewIngredientRepository(pool),
		recipes:      postgres.NewRecipeRepository(pool),
		movements:    postgres.NewIngredientMovementRepository(pool),
		shoppingList: postgres.NewShoppingListRepository(pool),
		processed:    postgres.NewProcessedEventRepository(pool),
		inbox:        postgres.NewInboxRepository(pool),
		txRunner:     postgres.NewTxRunner(pool),
		close:        pool.Close,
	}, nil
}
