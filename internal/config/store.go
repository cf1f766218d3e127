package config

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bluescreen10/reqx"
	"github.com/bluescreen10/reqx/filestore"
	"github.com/bluescreen10/reqx/gormstore"
	"github.com/bluescreen10/reqx/memstore"
	"github.com/bluescreen10/reqx/mysqlstore"
	"github.com/bluescreen10/reqx/redisstore"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore opens the backend selected by cfg. The returned closer
// releases its connections.
func OpenStore(ctx context.Context, cfg StoreConfig, log zerolog.Logger) (reqx.Store, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Driver {
	case DriverFile:
		s, err := filestore.New(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("config: failed to open file store: %w", err)
		}
		return s, nopCloser{}, nil

	case DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:                     cfg.RedisAddr,
			Password:                 cfg.RedisPassword,
			DB:                       cfg.RedisDB,
			MaintNotificationsConfig: &maintnotifications.Config{
				Mode: maintnotifications.ModeDisabled,
			},
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("config: failed to reach redis: %w", err)
		}

		prefix := cfg.Prefix
		if prefix == "" {
			prefix = redisstore.DefaultPrefix
		}
		return redisstore.NewWithPrefix(rdb, prefix), rdb, nil

	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("config: failed to open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}

		s, err := gormstore.New(db)
		if err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("config: failed to migrate sqlite store: %w", err)
		}
		s.SetLogger(log)
		return s, sqlDB, nil

	case DriverMySQL:
		db, err := sql.Open("mysql", cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("config: failed to open mysql: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("config: failed to reach mysql: %w", err)
		}

		s, err := mysqlstore.New(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		s.SetLogger(log)
		return s, db, nil

	default:
		return memstore.New(), nopCloser{}, nil
	}
}
