package mysql

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // register the driver

	"github.com/chainq/chainq"
)

const (
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 5
	defaultPort         = 3306
)

// buildPool configures and returns a *sql.DB with pool settings applied.
func buildPool(cfg *chainq.Config) (*sql.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = buildDSN(cfg)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, chainq.WrapError(chainq.KindConnection, "failed to open mysql", err)
	}

	maxOpen := int(cfg.MaxConns)
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := int(cfg.MinConns)
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	return db, nil
}

// buildDSN constructs the MySQL DSN from the discrete config fields.
// multiStatements enables batch result sets; interpolateParams lets
// parameterized batches run (the wire protocol cannot prepare
// multi-statement texts).
func buildDSN(cfg *chainq.Config) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true&interpolateParams=true",
		cfg.User, cfg.Password, cfg.Host, port, cfg.Database,
	)
}
