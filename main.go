package main

import (
	"context"
	"fmt"
	"time"

	"tubemetrics/domain/repository"
	youtubeclient "tubemetrics/infrastructure/clients/youtube"
	"tubemetrics/infrastructure/configuration"
	"tubemetrics/infrastructure/connectivity"
	"tubemetrics/infrastructure/logger"
	"tubemetrics/infrastructure/persistence"
	"tubemetrics/infrastructure/storage"
	"tubemetrics/interfaces/cli"
	"tubemetrics/usecase"

	responsecache "tubemetrics/infrastructure/cache"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile(".env")

	store, err := initiateStorage()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Storage initialization failed, continuing in-memory")
		store = storage.NewMemoryStorage()
	}

	youtubeConfig := configuration.GetYouTubeConfig()
	oauthConfig := &oauth2.Config{
		ClientID:     youtubeConfig.ClientID,
		ClientSecret: youtubeConfig.ClientSecret,
		RedirectURL:  youtubeConfig.RedirectURL,
		Scopes:       youtubeConfig.Scopes,
		Endpoint:     google.Endpoint,
	}

	catalogClient, err := youtubeclient.NewCatalogClient(ctx, youtubeConfig.APIKey, youtubeConfig.RegionCode)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("YouTube client initialization failed")
		return
	}

	credentialRepo := persistence.NewCredentialRepository(store)
	usageRepo := persistence.NewUsageRepository(store)
	errorLogRepo := persistence.NewErrorLogRepository(store)
	responseCache := responsecache.NewResponseCache(store,
		responsecache.WithDefaultTTL(time.Duration(configuration.C.Cache.TTLSeconds)*time.Second))
	networkHub := connectivity.NewHub()

	classifier := usecase.NewErrorClassifier(errorLogRepo)
	authUseCase := usecase.NewAuthUseCase(oauthConfig, credentialRepo)
	catalogUseCase := usecase.NewCatalogUseCase(catalogClient, authUseCase, responseCache, classifier,
		usecase.WithConnectivity(networkHub),
		usecase.WithRegionCode(youtubeConfig.RegionCode))
	analyticsUseCase := usecase.NewAnalyticsUseCase(usageRepo)

	cli.Execute(cli.Deps{
		Auth:      authUseCase,
		Catalog:   catalogUseCase,
		Analytics: analyticsUseCase,
		ErrorLog:  errorLogRepo,
	})
}

// initiateStorage builds the configured key-value backend.
func initiateStorage() (repository.IStorage, error) {
	cfg := configuration.C.Storage
	switch cfg.Driver {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "", "file":
		return storage.NewFileStorage(cfg.Path)
	case "redis":
		return storage.NewRedisStorage(configuration.C.RedisClient), nil
	case "mysql":
		db := configuration.C.Database.MySql
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			db.User, db.Password, db.Host, db.Port, db.Name)
		gormDb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
		if err != nil {
			return nil, fmt.Errorf("open mysql storage: %w", err)
		}
		mysqlStore := storage.NewMySQLStorage(gormDb)
		if err := mysqlStore.Migrate(); err != nil {
			return nil, err
		}
		return mysqlStore, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
