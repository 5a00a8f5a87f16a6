package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"

	"dispatch-service/src/pkg/log"
)

// DBInterface hides the sqlx handle so repositories can be exercised with
// sqlmock in tests.
type DBInterface interface {
	GetDB() (*sqlx.DB, error)
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
}

type Database struct {
	db *sqlx.DB
}

func InitConnection(v *viper.Viper, logger log.Log) (*Database, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		v.GetString("mysql.username"),
		v.GetString("mysql.password"),
		v.GetString("mysql.host"),
		v.GetInt("mysql.port"),
		v.GetString("mysql.database"),
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		logger.Error("mysql", fmt.Sprintf("failed to connect: %v", err), "InitConnection", "")
		return nil, err
	}

	db.SetMaxOpenConns(v.GetInt("mysql.max_open_conns"))
	db.SetMaxIdleConns(v.GetInt("mysql.max_idle_conns"))
	db.SetConnMaxLifetime(time.Duration(v.GetInt("mysql.conn_max_lifetime_minutes")) * time.Minute)

	return &Database{db: db}, nil
}

// NewWithDB wraps an existing handle; used by tests with sqlmock.
func NewWithDB(db *sqlx.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetDB() (*sqlx.DB, error) {
	if d == nil || d.db == nil {
		return nil, errors.New("mysql connection is not initialized")
	}
	return d.db, nil
}

func (d *Database) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	db, err := d.GetDB()
	if err != nil {
		return nil, err
	}
	return db.BeginTxx(ctx, nil)
}
