package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/bank/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLiteURL = "file:bank.db"

// NewDBConnection opens the database selected by cnf.Driver. Errors from the
// driver are translated into gorm sentinel errors.
func NewDBConnection(
	cnf *config.DB,
	appEnv string,
) (*gorm.DB, error) {
	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}
	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}

	var dialector gorm.Dialector
	switch cnf.Driver {
	case "sqlite":
		dialector = sqlite.Open(SQLiteDSN(cnf.Url))
	case "postgres", "":
		if cnf.Url == "" {
			return nil, errors.New("DATABASE_URL is not set")
		}
		dialector = postgres.Open(cnf.Url)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cnf.Driver)
	}

	connection, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	if cnf.Driver == "sqlite" {
		// single writer; also keeps shared in-memory databases alive
		sqlDB.SetMaxOpenConns(1)
		return connection, nil
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// SQLiteDSN returns url with foreign key enforcement switched on.
func SQLiteDSN(url string) string {
	if url == "" {
		url = defaultSQLiteURL
	}
	if strings.Contains(url, "_foreign_keys=") || strings.Contains(url, "_fk=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_foreign_keys=on"
}
