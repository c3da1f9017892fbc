package store

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/ansel1/merry"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// Open opens the database file at path, creating its folder if needed.
// Use ":memory:" for a private in-memory database.
func Open(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, merry.Prepend(err, "create database folder")
		}
	}

	conn, err := openSqliteDB(path)
	if err != nil {
		return nil, merry.Prepend(err, "open database")
	}

	db := sqlx.NewDb(conn, driverName)
	for _, pragma := range []string{
		"PRAGMA encoding = 'UTF-8'",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, merry.Prependf(err, "apply %q", pragma)
		}
	}
	return db, nil
}

// The loader is the only writer, one connection keeps an in-memory database
// alive for the life of the pool.
func openSqliteDB(fileName string) (*sql.DB, error) {
	conn, err := sql.Open(driverName, fileName)
	if err != nil {
		return nil, err
	}
	conn.SetMaxIdleConns(1)
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
