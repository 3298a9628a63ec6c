package db

import (
	"context"
	"fmt"
	"time"

	"tavolo/internal/xpkg/config"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Conn *pgx.Conn
	Ctx  context.Context
}

// Start initializes and returns a new DB instance with a single connection
func Start(ctx context.Context, dbCfg *config.Postgres) (*DB, error) {
	conn, err := pgx.Connect(ctx, dsn(dbCfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		Conn: conn,
		Ctx:  ctx,
	}, nil
}

func (db *DB) GetConn() *pgx.Conn {
	return db.Conn
}

func (db *DB) IsAlive() error {
	if db.Conn == nil || db.Conn.IsClosed() {
		return fmt.Errorf("db connection is closed")
	}
	return nil
}

// Close closes the connection
func (db *DB) Close() error {
	if db.Conn != nil {
		return db.Conn.Close(db.Ctx)
	}
	return nil
}

// StartPool opens a pgx connection pool for services that serve many
// concurrent requests (admin back-office, report CLI).
func StartPool(ctx context.Context, dbCfg *config.Postgres) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn(dbCfg))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(pingCtx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func dsn(dbCfg *config.Postgres) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Database,
	)
}
