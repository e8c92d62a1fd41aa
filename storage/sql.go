/*
 * Copyright (C) 2024 Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 *
 */

package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/nuts-foundation/nuts-issuer/storage/log"
	"github.com/nuts-foundation/sqlite"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

//go:embed sql_migrations/*.sql
var sqlMigrationsFS embed.FS

const sqlMigrationsDir = "sql_migrations"

const (
	sqliteDialect    = "sqlite3"
	postgresDialect  = "postgres"
	mysqlDialect     = "mysql"
	sqlserverDialect = "sqlserver"
)

// sqlConnection describes how to open a database from a connection string.
type sqlConnection struct {
	dialect   string
	dialector func(db *sql.DB) gorm.Dialector
	open      func() (*sql.DB, error)
}

// parseConnectionString selects the SQL driver by the scheme of the connection string.
// An empty connection string selects a SQLite database in the data directory.
func parseConnectionString(connectionString string, datadir string) (*sqlConnection, error) {
	if connectionString == "" {
		connectionString = "sqlite:file:" + path.Join(datadir, "sqlite.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	scheme, _, _ := strings.Cut(connectionString, ":")
	switch scheme {
	case "sqlite":
		dsn := strings.TrimPrefix(connectionString, "sqlite:")
		return &sqlConnection{
			dialect: sqliteDialect,
			open: func() (*sql.DB, error) {
				db, err := sql.Open(sqlite.DriverName, dsn)
				if err != nil {
					return nil, err
				}
				// SQLite does not support concurrent writers
				db.SetMaxOpenConns(1)
				return db, nil
			},
			dialector: func(db *sql.DB) gorm.Dialector {
				return sqlite.Dialector{Conn: db}
			},
		}, nil
	case "postgres", "postgresql":
		return &sqlConnection{
			dialect: postgresDialect,
			open: func() (*sql.DB, error) {
				return openThroughGorm(postgres.Open(connectionString))
			},
			dialector: func(db *sql.DB) gorm.Dialector {
				return postgres.New(postgres.Config{Conn: db})
			},
		}, nil
	case "mysql":
		dsn := strings.TrimPrefix(connectionString, "mysql://")
		return &sqlConnection{
			dialect: mysqlDialect,
			open: func() (*sql.DB, error) {
				return openThroughGorm(mysql.Open(dsn))
			},
			dialector: func(db *sql.DB) gorm.Dialector {
				return mysql.New(mysql.Config{Conn: db})
			},
		}, nil
	case "sqlserver":
		return &sqlConnection{
			dialect: sqlserverDialect,
			open: func() (*sql.DB, error) {
				return openThroughGorm(sqlserver.Open(connectionString))
			},
			dialector: func(db *sql.DB) gorm.Dialector {
				return sqlserver.New(sqlserver.Config{Conn: db})
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported SQL database connection string (scheme=%s)", scheme)
	}
}

// openThroughGorm lets the gorm dialector open the connection, since drivers register under names gorm knows best.
func openThroughGorm(dialector gorm.Dialector) (*sql.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogrusLogger{underlying: log.Logger(), slowThreshold: time.Second}})
	if err != nil {
		return nil, err
	}
	return db.DB()
}

// openSQLDatabase connects to the SQL database, applies the migrations and returns the gorm handle.
func openSQLDatabase(config SQLConfig, datadir string) (*gorm.DB, error) {
	connection, err := parseConnectionString(config.ConnectionString, datadir)
	if err != nil {
		return nil, err
	}
	log.Logger().Infof("Connecting to %s database", connection.dialect)
	sqlDB, err := connection.open()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", connection.dialect, err)
	}
	if err = migrate(sqlDB, connection.dialect); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	db, err := gorm.Open(connection.dialector(sqlDB), &gorm.Config{
		Logger: gormLogrusLogger{
			underlying:    log.Logger(),
			slowThreshold: config.SlowQueryThreshold,
		},
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB, dialect string) error {
	goose.SetBaseFS(sqlMigrationsFS)
	goose.SetLogger(log.Logger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := goose.Up(db, sqlMigrationsDir); err != nil {
		return fmt.Errorf("failed to migrate SQL database: %w", err)
	}
	return nil
}
