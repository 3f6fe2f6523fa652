package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/barbackhq/pos-backend/api/routes"
	"github.com/barbackhq/pos-backend/internal/cart"
	"github.com/barbackhq/pos-backend/internal/inventory"
	"github.com/barbackhq/pos-backend/internal/kds"
	"github.com/barbackhq/pos-backend/internal/menu"
	"github.com/barbackhq/pos-backend/internal/orders"
	"github.com/barbackhq/pos-backend/internal/payments"
	"github.com/barbackhq/pos-backend/internal/staff"
	"github.com/barbackhq/pos-backend/internal/tables"
	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/db"
	"github.com/barbackhq/pos-backend/pkg/enums"
	"github.com/barbackhq/pos-backend/pkg/logger"
	"github.com/barbackhq/pos-backend/pkg/migrate"
	"github.com/barbackhq/pos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	deps, err := buildDeps(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildDeps(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (routes.Deps, error) {
	conn := dbClient.DB()

	cartRepo := cart.NewRepository(conn)
	menuRepo := menu.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)
	paymentsRepo := payments.NewRepository(conn)
	kdsRepo := kds.NewRepository(conn)
	tablesRepo := tables.NewRepository(conn)
	staffRepo := staff.NewRepository(conn)

	menuSvc, err := menu.NewService(menuRepo, dbClient)
	if err != nil {
		return routes.Deps{}, err
	}
	cartSvc, err := cart.NewService(cartRepo, menuSvc, dbClient)
	if err != nil {
		return routes.Deps{}, err
	}
	inventorySvc, err := inventory.NewService(inventoryRepo, dbClient)
	if err != nil {
		return routes.Deps{}, err
	}
	tablesSvc, err := tables.NewService(tablesRepo, cfg.Tax)
	if err != nil {
		return routes.Deps{}, err
	}
	kdsSvc, err := kds.NewService(kdsRepo, dbClient)
	if err != nil {
		return routes.Deps{}, err
	}
	staffSvc, err := staff.NewService(staffRepo, cfg.JWT)
	if err != nil {
		return routes.Deps{}, err
	}

	processor := payments.NewProcessor(cfg.Payments)
	paymentsSvc, err := payments.NewService(paymentsRepo, processor, dbClient)
	if err != nil {
		return routes.Deps{}, err
	}

	routing, err := enums.ParseTicketRouting(cfg.Tickets.Routing)
	if err != nil {
		routing = enums.TicketRoutingAuto
	}
	ordersSvc, err := orders.NewService(
		ordersRepo,
		cartSvc,
		menuRepo,
		inventorySvc,
		paymentsRepo,
		processor,
		tablesSvc,
		dbClient,
		routing,
		cfg.Payments,
	)
	if err != nil {
		return routes.Deps{}, err
	}

	return routes.Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        dbClient,
		Redis:     redisClient,
		Staff:     staffSvc,
		Menu:      menuSvc,
		Inventory: inventorySvc,
		Cart:      cartSvc,
		Orders:    ordersSvc,
		KDS:       kdsSvc,
		Payments:  paymentsSvc,
		Tables:    tablesSvc,
	}, nil
}
