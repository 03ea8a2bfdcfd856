package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ride-hail-accounts/internal/account-service/adapters/driven/db/migrations"
	"ride-hail-accounts/internal/config"
	"ride-hail-accounts/internal/mylogger"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type DB struct {
	cfg   *config.DBconfig
	mylog mylogger.Logger
	pool  *pgxpool.Pool
}

// New establishes a connection pool with retry logic and runs migrations.
func New(ctx context.Context, dbCfg *config.DBconfig, mylog mylogger.Logger) (*DB, error) {
	d := &DB{
		cfg:   dbCfg,
		mylog: mylog,
	}

	if err := d.connect(ctx); err != nil {
		return nil, err
	}

	if err := d.migrate(ctx); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return d, nil
}

func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Close closes the pool
func (d *DB) Close() error {
	d.pool.Close()
	return nil
}

// IsAlive pings the DB to verify it's responsive
func (d *DB) IsAlive(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("DB is not initialized")
	}
	return d.pool.Ping(ctx)
}

func (d *DB) dsn() string {
	return fmt.Sprintf(
		"postgres://%v:%v@%v:%v/%v?sslmode=disable",
		d.cfg.User,
		d.cfg.Password,
		d.cfg.Host,
		d.cfg.Port,
		d.cfg.Database,
	)
}

// connect establishes the pool with retry logic
func (d *DB) connect(ctx context.Context) error {
	var lastErr error
	for i := 0; i < d.cfg.MaxRetries; i++ {
		pool, err := pgxpool.New(ctx, d.dsn())
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to database: %w", err)
			d.mylog.Error(fmt.Sprintf("DB connection attempt %d failed", i+1), err)

			// Exponential backoff (1s, 2s, 3s, etc.)
			time.Sleep(time.Second * time.Duration(i+1))
			continue
		}

		d.pool = pool
		d.mylog.Info("Successfully connected to the database")
		return nil
	}

	return fmt.Errorf("failed to connect to the database after %d attempts: %w", d.cfg.MaxRetries, lastErr)
}

// migrate runs the embedded goose migrations over a database/sql handle.
func (d *DB) migrate(ctx context.Context) error {
	sqlDB, err := sql.Open("pgx", d.dsn())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return err
	}

	d.mylog.Info("Migrations are up to date")
	return nil
}
