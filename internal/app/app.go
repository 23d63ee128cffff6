package app

import (
	"net/http"

	"home-inventory-go/internal/config"
	"home-inventory-go/internal/db"
	authdomain "home-inventory-go/internal/domain/auth"
	familydomain "home-inventory-go/internal/domain/family"
	invitedomain "home-inventory-go/internal/domain/invite"
	inventorydomain "home-inventory-go/internal/domain/inventory"
	wishlistdomain "home-inventory-go/internal/domain/wishlist"
	authrepo "home-inventory-go/internal/repository/postgres/auth"
	familyrepo "home-inventory-go/internal/repository/postgres/family"
	inventoryrepo "home-inventory-go/internal/repository/postgres/inventory"
	inviterepo "home-inventory-go/internal/repository/postgres/invite"
	wishlistrepo "home-inventory-go/internal/repository/postgres/wishlist"
	"home-inventory-go/internal/transport/httpserver"
	"home-inventory-go/internal/transport/httpserver/handler"
	"home-inventory-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	resolver := authdomain.NewResolver(authrepo.NewPostgres(dbConn))
	families := familydomain.NewService(familyrepo.NewPostgres(dbConn))
	invites := invitedomain.NewService(inviterepo.NewPostgres(dbConn), invitedomain.Config{
		TTL:        cfg.Invites.TTL,
		CodeLength: cfg.Invites.CodeLength,
	})
	inventory := inventorydomain.NewService(inventoryrepo.NewPostgres(dbConn))
	wishlist := wishlistdomain.NewService(wishlistrepo.NewPostgres(dbConn))

	handlers := handler.New(resolver, families, invites, inventory, wishlist, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers)

	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
