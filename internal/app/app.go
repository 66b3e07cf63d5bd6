package app

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-elms/internal/config"
	"go-elms/internal/rbac"
	"go-elms/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// stores is the set of connections every process opens.
type stores struct {
	gormDB *gorm.DB
	db     *sql.DB
	rdb    *redis.Client
}

func (i *stores) Close() {
	if i.rdb != nil {
		_ = i.rdb.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

func connect(cfg *config.Config, withRedis bool) (*stores, error) {
	gormDB, err := connection.ConnectGORMWithRetry(connection.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, cfg.Database.MaxRetries)
	if err != nil {
		return nil, err
	}
	zapLogger().Info("database connection established", zap.String("database", cfg.Database.String()))

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	in := &stores{gormDB: gormDB, db: sqlDB}

	if withRedis {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Database.MaxRetries)
		if err != nil {
			in.Close()
			return nil, err
		}
		zapLogger().Info("redis connection established", zap.String("addr", cfg.Redis.Addr))
		in.rdb = rdb
	}
	return in, nil
}

// BuildApp connects the stores and mounts every module on router. The
// returned func releases the connections.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required to serve the API")
	}

	in, err := connect(cfg, true)
	if err != nil {
		return nil, err
	}

	if err := registerModules(router, cfg, in.db, in.gormDB, in.rdb); err != nil {
		in.Close()
		return nil, err
	}
	return in.Close, nil
}

func rbacLoad(svc rbac.Service) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return svc.LoadPolicy(ctx)
}

func zapLogger() *zap.Logger {
	return zap.L().Named("app")
}
