package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lubricentro-ws/internal/config"
	"lubricentro-ws/internal/handler"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/router"
	"lubricentro-ws/internal/service"
	"lubricentro-ws/internal/ws"
	"lubricentro-ws/pkg/database"
	"lubricentro-ws/pkg/jwt"
	"lubricentro-ws/pkg/logger"
)

const loginAttemptsPerMinute = 20

func main() {
	// 1. Config and logging
	cfg, err := config.Load()
	if err != nil {
		// the logger is not configured yet
		bootLog := logger.New(logger.Config{Env: "production"})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	// 2. Database
	db, err := database.ConnectDB(cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Repositories and seed data
	itemRepo := repository.NewItemRepo(db)
	productRepo := repository.NewProductRepo(db)
	subProductRepo := repository.NewSubProductRepo(db)
	vehicleRepo := repository.NewVehicleRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := service.SeedAccess(ctx, privilegeRepo, roleRepo, userRepo, cfg.Admin, log); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	// 4. WebSocket Hub
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// 5. Services
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer)
	ledger := service.NewLedgerService(db, itemRepo, movementRepo, hub, log)
	orders := service.NewOrderService(db, orderRepo, itemRepo, ledger, log)
	catalog := service.NewCatalogService(db, productRepo, subProductRepo, itemRepo, orderRepo, ledger)
	vehicles := service.NewVehicleService(vehicleRepo)
	dashboard := service.NewDashboardService(itemRepo, productRepo, subProductRepo, movementRepo, orderRepo, cfg.Stock)
	auth := service.NewAuthService(userRepo, tokens, log)
	users := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	// 6. HTTP
	app := router.New(router.Handlers{
		Auth:       handler.NewAuthHandler(auth),
		Product:    handler.NewProductHandler(catalog),
		SubProduct: handler.NewSubProductHandler(catalog),
		Vehicle:    handler.NewVehicleHandler(vehicles),
		Movement:   handler.NewMovementHandler(ledger),
		Order:      handler.NewOrderHandler(orders),
		Dashboard:  handler.NewDashboardHandler(dashboard),
		User:       handler.NewUserHandler(users),
		Role:       handler.NewRoleHandler(roleRepo, privilegeRepo),
	}, userRepo, tokens, hub, router.Options{
		CORSOrigins: cfg.App.CORSOrigins,
		LoginLimit:  loginAttemptsPerMinute,
		Log:         log,
	})

	// 7. Graceful Shutdown
	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("listening")
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
