package db

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Ambush3/SkateSpotApp/config"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init opens the database configured through the environment:
// MySQL if MYSQL_DSN is set, then PostgreSQL, then the SQLite file.
func Init() {
	dialector, name := dialectorFromConfig()
	if err := Open(dialector); err != nil {
		panic(err)
	}
	slog.Info("Database initialized", "driver", name)
}

func dialectorFromConfig() (gorm.Dialector, string) {
	if config.MYSQL_DSN != "" {
		dsn, err := MySQLDSN(config.MYSQL_DSN)
		if err != nil {
			panic(err)
		}
		return mysql.Open(dsn), "mysql"
	}
	if config.POSTGRES_DSN != "" {
		return postgres.Open(config.POSTGRES_DSN), "postgres"
	}
	return sqlite.Open(SQLiteDSN(config.SQLITE_FILE)), "sqlite"
}

// MySQLDSN makes sure the connection uses utf8mb4, spot names can contain emoji
func MySQLDSN(dsn string) (string, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MYSQL_DSN: %w", err)
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// SQLiteDSN enables foreign keys on the given SQLite file or DSN
func SQLiteDSN(file string) string {
	if strings.Contains(file, "_foreign_keys") {
		return file
	}
	if strings.Contains(file, "?") {
		return file + "&_foreign_keys=on"
	}
	return file + "?_foreign_keys=on"
}

// Open replaces Instance with a new connection using the given dialector
func Open(dialector gorm.Dialector) error {
	logLevel := logger.Warn
	if config.DEBUG_MODE {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if db == nil {
		return fmt.Errorf("failed to open database: nil handle")
	}
	Instance = db
	return nil
}

// OpenSQLite is a shortcut used by tests and local runs, e.g.
// OpenSQLite("file:test?mode=memory&cache=shared")
func OpenSQLite(file string) error {
	return Open(sqlite.Open(SQLiteDSN(file)))
}
