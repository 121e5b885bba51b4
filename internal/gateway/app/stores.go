package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	doccache "tota/internal/cache/document"
	"tota/internal/gateway/config"
	docrepo "tota/internal/gateway/repository/document"
)

// initDocumentStore builds the configured origin store and wraps it in the
// read-through cache. closeFn releases the database handle, if any.
func initDocumentStore(cfg *config.Config, logger *zap.Logger) (store docrepo.Store, closeFn func() error, err error) {
	closeFn = func() error { return nil }
	var origin docrepo.Store

	switch cfg.Store {
	case config.StoreS3:
		s3Cfg := docrepo.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
		}
		if !s3Cfg.CanUse() {
			logger.Warn("document store: s3 config incomplete, using in-memory fallback")
			origin = docrepo.NewMemoryStore()
			break
		}
		s3Store, err := docrepo.NewS3Store(s3Cfg)
		if err != nil {
			return nil, closeFn, fmt.Errorf("init s3 document store: %w", err)
		}
		logger.Info("document store: s3", zap.String("bucket", s3Cfg.Bucket), zap.String("endpoint", s3Cfg.Endpoint))
		origin = s3Store
	case config.StorePostgres:
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open db: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, closeFn, fmt.Errorf("ping db: %w", err)
		}
		logger.Info("document store: postgres")
		origin = docrepo.NewPostgresStore(db)
		closeFn = db.Close
	default:
		logger.Info("document store: in-memory")
		origin = docrepo.NewMemoryStore()
	}
	return doccache.NewCachedStore(origin, doccache.DefaultCacheConfig()), closeFn, nil
}
