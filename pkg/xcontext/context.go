package xcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/kudoshq/backend/config"
	"github.com/kudoshq/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	dbKey            struct{}
	txKey            struct{}
	loggerKey        struct{}
	configsKey       struct{}
	requestUserIDKey struct{}
	snowflakeKey     struct{}
)

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current database handle. If the context carries an open
// transaction, the transaction is returned instead of the root handle, so
// every repository call inside a transactional scope joins it automatically.
func DB(ctx context.Context) *gorm.DB {
	if tx := dbTransaction(ctx); tx != nil {
		return tx
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("no database in context")
	}

	return db
}

// WithDBTransaction begins a transaction and stores it in the returned
// context. If the context already carries a transaction, it is returned
// unchanged, which lets nested services join the caller's transaction.
func WithDBTransaction(ctx context.Context) context.Context {
	if HasDBTransaction(ctx) {
		return ctx
	}

	return context.WithValue(ctx, txKey{}, DB(ctx).Begin())
}

func HasDBTransaction(ctx context.Context) bool {
	return dbTransaction(ctx) != nil
}

func WithCommitDBTransaction(ctx context.Context) context.Context {
	if tx := dbTransaction(ctx); tx != nil {
		tx.Commit()
	}

	return context.WithValue(ctx, txKey{}, nil)
}

// WithRollbackDBTransaction rollbacks the transaction in context if it has
// not been committed yet. It is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if tx := dbTransaction(ctx); tx != nil {
		// Rollback after a successful commit is rejected by gorm with
		// ErrInvalidTransaction, which we can safely ignore.
		tx.Rollback()
	}

	return context.WithValue(ctx, txKey{}, nil)
}

func dbTransaction(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return tx
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		panic("no logger in context")
	}

	return l
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		panic("no configs in context")
	}

	return cfg
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(requestUserIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

func WithSnowflakeNode(ctx context.Context, node *snowflake.Node) context.Context {
	return context.WithValue(ctx, snowflakeKey{}, node)
}

func SnowflakeNode(ctx context.Context) *snowflake.Node {
	node, ok := ctx.Value(snowflakeKey{}).(*snowflake.Node)
	if !ok {
		panic("no snowflake node in context")
	}

	return node
}
