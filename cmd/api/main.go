package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/posync/internal/application/catalog"
	"github.com/jhoicas/posync/internal/application/intake"
	"github.com/jhoicas/posync/internal/application/inventory"
	"github.com/jhoicas/posync/internal/application/purchasing"
	"github.com/jhoicas/posync/internal/application/reconcile"
	"github.com/jhoicas/posync/internal/application/shopping"
	"github.com/jhoicas/posync/internal/domain/restock"
	infrapdf "github.com/jhoicas/posync/internal/infrastructure/pdf"
	"github.com/jhoicas/posync/internal/infrastructure/square"
	httpRouter "github.com/jhoicas/posync/internal/interfaces/http"
	"github.com/jhoicas/posync/pkg/config"
	"github.com/jhoicas/posync/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	zl := log.Zerolog()

	ledger := inventory.NewLedger(st.txRunner, zl)
	squareClient := square.NewClient(cfg.Square.BaseURL, cfg.Square.APIVersion, cfg.Square.Timeout)
	dedup := reconcile.NewDeduplicator(st.processed, cfg.Reconcile.DedupTTL)
	reconciler := reconcile.NewReconciler(reconcile.Deps{
		Businesses:   st.businesses,
		Ingredients:  st.ingredients,
		Recipes:      st.recipes,
		Movements:    st.movements,
		ShoppingList: st.shoppingList,
		Dedup:        dedup,
		Ledger:       ledger,
		Fetcher:      squareClient,
		Policy:       restock.NewPolicy(decimal.NewFromFloat(cfg.Reconcile.RestockRatio)),
		Logger:       zl,
	})

	worker := intake.NewWorker(st.inbox, reconciler, intake.WorkerConfig{
		Workers:      cfg.Reconcile.Workers,
		BatchSize:    cfg.Reconcile.BatchSize,
		MaxAttempts:  cfg.Reconcile.MaxAttempts,
		PollInterval: cfg.Reconcile.PollInterval,
		ClaimLease:   cfg.Reconcile.ClaimLease,
	}, zl)
	receiver := intake.NewReceiver(st.inbox, worker, zl)
	sweeper := intake.NewSweeper(dedup, cfg.Reconcile.SweepInterval, zl)

	shoppingUC := shopping.NewUseCase(st.shoppingList, st.ingredients, st.businesses, infrapdf.NewMarotoPDFGenerator())
	movementsUC := inventory.NewMovementsUseCase(st.movements)
	purchasingUC := purchasing.NewUseCase(st.ingredients, st.movements, st.shoppingList, ledger)
	catalogUC := catalog.NewSyncUseCase(st.businesses, st.txRunner, squareClient, zl)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "posync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Receiver:   receiver,
		ShoppingUC: shoppingUC,
		Movements:  movementsUC,
		Purchasing: purchasingUC,
		CatalogUC:  catalogUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("aplicación finalizada con error")
	}
	log.Info().Msg("aplicación detenida")
}
