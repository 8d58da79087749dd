package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-catalog-service/config"
	"github.com/fekuna/omnipos-catalog-service/internal/attribute"
	"github.com/fekuna/omnipos-catalog-service/internal/brand"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-catalog-service/internal/pkg/search"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/size"

	attrRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/attribute/repository"
	attrUCPkg "github.com/fekuna/omnipos-catalog-service/internal/attribute/usecase"

	brandRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/brand/repository"
	brandUCPkg "github.com/fekuna/omnipos-catalog-service/internal/brand/usecase"

	catRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-catalog-service/internal/category/usecase"

	invJobPkg "github.com/fekuna/omnipos-catalog-service/internal/inventory/job"
	invListenerPkg "github.com/fekuna/omnipos-catalog-service/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-catalog-service/internal/inventory/usecase"

	prodRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-catalog-service/internal/product/usecase"

	sizeRepoPkg "github.com/fekuna/omnipos-catalog-service/internal/size/repository"
	sizeUCPkg "github.com/fekuna/omnipos-catalog-service/internal/size/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// app collects every catalog use case wired against the shared store.
// Inventory is driven in-process by the order listener and the low-stock job;
// the others have no transport in this binary.
// TODO: register gRPC handlers on these once the catalog proto is published.
type app struct {
	brands     brand.UseCase
	categories category.UseCase
	products   product.UseCase
	inventory  inventory.UseCase
	sizes      size.UseCase
	attributes attribute.UseCase
}

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer appLogger.Sync()

	// Postgres
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	if cfg.Postgres.AutoMigrate {
		migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
		err := postgres.Migrate(migrateCtx, db)
		cancelMigrate()
		if err != nil {
			appLogger.Fatal("Could not apply schema", zap.Error(err))
		}
	}
	txManager := postgres.NewTxManager(db)

	// Redis backs the brand statistics cache.
	var statsCache brand.Cache
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, brand statistics are not cached", zap.Error(err))
		} else {
			defer redisClient.Close()
			statsCache = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// Repositories
	brandRepo := brandRepoPkg.NewPGRepository(db)
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	sizeRepo := sizeRepoPkg.NewPGRepository(db)
	attrRepo := attrRepoPkg.NewPGRepository(db)

	// Use cases
	brandUC := brandUCPkg.NewBrandUseCase(brandRepo, statsCache, time.Duration(cfg.Redis.StatsTTL)*time.Second, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, txManager, appLogger)

	prodOpts := []prodUCPkg.Option{prodUCPkg.WithStatisticsInvalidator(brandUC)}
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, product search uses the database", zap.Error(err))
		} else {
			prodOpts = append(prodOpts, prodUCPkg.WithSearchIndex(esClient, cfg.Elastic.Index))
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, txManager, brandRepo, catRepo, appLogger, prodOpts...)

	svc := &app{
		brands:     brandUC,
		categories: catUC,
		products:   prodUC,
		inventory:  invUCPkg.NewInventoryUseCase(invRepo, prodRepo, txManager, appLogger),
		sizes:      sizeUCPkg.NewSizeUseCase(sizeRepo, appLogger),
		attributes: attrUCPkg.NewAttributeUseCase(attrRepo, prodRepo, txManager, appLogger),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Order events feed the stock ledger.
	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, svc.inventory, appLogger)
		go invListener.Start(ctx)
		appLogger.Info("Listening for order events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	lowStockJob := invJobPkg.NewLowStockJob(svc.inventory, appLogger)
	if err := lowStockJob.Start(cfg.Jobs.LowStockSpec); err != nil {
		appLogger.Fatal("Could not schedule low stock job", zap.Error(err))
	}

	// gRPC
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer()

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	<-lowStockJob.Stop().Done()
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
