package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpctx "github.com/JordyV23/social-app/internal/api/http/context"
	"github.com/JordyV23/social-app/internal/api/http/router"
	httpServer "github.com/JordyV23/social-app/internal/api/http/server"
	"github.com/JordyV23/social-app/internal/config"
	"github.com/JordyV23/social-app/internal/logger"
	"github.com/JordyV23/social-app/internal/metrics"
	"github.com/JordyV23/social-app/internal/model"
	"github.com/JordyV23/social-app/internal/password"
	"github.com/JordyV23/social-app/internal/repository/memory"
	"github.com/JordyV23/social-app/internal/repository/mongo"
	"github.com/JordyV23/social-app/internal/repository/postgres"
	"github.com/JordyV23/social-app/internal/server"
	"github.com/JordyV23/social-app/internal/service"
	"github.com/JordyV23/social-app/internal/storage/disk"
	storage "github.com/JordyV23/social-app/internal/storage/minio"
	"github.com/JordyV23/social-app/internal/token"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

type stores struct {
	users  model.UserStore
	posts  model.PostStore
	pinger model.Pinger
	close  func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", "driver", cfg.Database.Driver, "error", err)
	}
	defer st.close()

	assets, err := openAssetStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize asset storage", "driver", cfg.Storage.Driver, "error", err)
	}

	m := metrics.New()
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	hasher := password.NewBcrypt(cfg.Auth.BcryptCost)

	serviceLogger := logger.With("component", "service")
	services := router.Services{
		Auth:   service.NewAuth(st.users, hasher, tokenManager, m, serviceLogger),
		Social: service.NewSocial(st.users, m, serviceLogger),
		Feed:   service.NewFeed(st.posts, st.users, m, serviceLogger),
		Token:  service.NewTokenService(tokenManager, serviceLogger),
	}

	httpLogger := logger.With("component", "http")
	engine := router.New(services, httpctx.NewManager(), assets, st.pinger, m, httpLogger, router.Options{
		MaxBodyBytes:       cfg.HTTP.MaxBodyBytes,
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		LegacyStatusCodes:  cfg.HTTP.LegacyStatusCodes,
	}).Register()

	srv := httpServer.NewHTTPServer(engine, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*stores, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:  postgres.NewUserRepository(conn.DB),
			posts:  postgres.NewPostRepository(conn.DB),
			pinger: conn,
			close:  func() { _ = conn.Close() },
		}, nil

	case config.DriverMongo:
		conn, err := mongo.NewConnection(ctx, cfg.Database.DSN, cfg.Database.Name)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:  mongo.NewUserRepository(conn),
			posts:  mongo.NewPostRepository(conn),
			pinger: conn,
			close: func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = conn.Close(closeCtx)
			},
		}, nil

	default:
		store, err := memory.NewStore(cfg.Database.SnapshotFile, logger.With("component", "store"))
		if err != nil {
			return nil, err
		}
		return &stores{
			users:  memory.NewUserRepository(store),
			posts:  memory.NewPostRepository(store),
			pinger: store,
			close: func() {
				if err := store.Close(); err != nil {
					logger.Error("failed to write snapshot", "error", err)
				}
			},
		}, nil
	}
}

func openAssetStorage(ctx context.Context, cfg *config.Config) (model.Storage, error) {
	if cfg.Storage.Driver == config.StorageMinio {
		minioClient, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
			Secure: cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		return storage.NewClient(ctx, minioClient, cfg.Minio.Bucket)
	}
	return disk.New(cfg.Storage.Dir)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
