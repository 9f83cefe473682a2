package journal

import (
	"context"
	"time"

	"github.com/elmanelman/judge-submit/config"
	_ "github.com/godror/godror"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const connectTimeout = 10 * time.Second

// connectDB opens and pings the journal database. SQLite is limited to a
// single open connection.
func connectDB(cfg config.JournalConfig) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
