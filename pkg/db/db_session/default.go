package db_session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openshift-online/watchdog/pkg/config"
	"github.com/openshift-online/watchdog/pkg/constants"
	"github.com/openshift-online/watchdog/pkg/db"
)

const disable = "disable"

var once sync.Once

type Default struct {
	config *config.DatabaseConfig

	g2 *gorm.DB
	// Direct database connection.
	// It is used to setup/close connection because GORM V2 removed gorm.Close()
	db *sql.DB
}

var _ db.SessionFactory = &Default{}

func NewProdFactory(config *config.DatabaseConfig) *Default {
	conn := &Default{}
	conn.Init(config)
	return conn
}

// Init will initialize a singleton connection as needed and return the same instance.
// Go includes database connection pooling in the platform. Gorm uses the same and provides a method to
// clone a connection via New(), which is safe for use by concurrent Goroutines.
func (f *Default) Init(config *config.DatabaseConfig) {
	// Only the first time
	once.Do(func() {
		connConfig, err := pgx.ParseConfig(config.ConnectionString(config.SSLMode != disable))
		if err != nil {
			panic(fmt.Sprintf(
				"GORM failed to parse the connection string: %s\nError: %s",
				config.LogSafeConnectionString(config.SSLMode != disable),
				err.Error(),
			))
		}

		dbx := stdlib.OpenDB(*connConfig, stdlib.OptionBeforeConnect(setPassword(config)))
		dbx.SetMaxOpenConns(config.MaxOpenConnections)

		// Connect GORM to use the same connection
		conf := &gorm.Config{
			PrepareStmt:          false,
			FullSaveAssociations: false,
		}
		g2, err := gorm.Open(postgres.New(postgres.Config{
			Conn: dbx,
			// Migrations change table structure, a prepared statement cache would go stale.
			PreferSimpleProtocol: true,
		}), conf)
		if err != nil {
			panic(fmt.Sprintf(
				"GORM failed to connect to %s database %s with connection string: %s\nError: %s",
				config.Dialect,
				config.Name,
				config.LogSafeConnectionString(config.SSLMode != disable),
				err.Error(),
			))
		}

		f.config = config
		f.g2 = g2
		f.db = dbx
	})
}

func setPassword(dbConfig *config.DatabaseConfig) func(ctx context.Context, connConfig *pgx.ConnConfig) error {
	return func(ctx context.Context, connConfig *pgx.ConnConfig) error {
		if dbConfig.AuthMethod == constants.AuthMethodPassword {
			connConfig.Password = dbConfig.Password
			return nil
		}
		return fmt.Errorf("unsupported database auth method %q", dbConfig.AuthMethod)
	}
}

func (f *Default) DirectDB() *sql.DB {
	return f.db
}

func (f *Default) New(ctx context.Context) *gorm.DB {
	conn := f.g2.Session(&gorm.Session{
		Context: ctx,
		Logger:  f.g2.Logger.LogMode(gormlogger.Silent),
	})
	if f.config.Debug {
		conn = conn.Debug()
	}
	return conn
}

func (f *Default) CheckConnection() error {
	return f.g2.Exec("SELECT 1").Error
}

// Close will close the connection to the database.
// THIS MUST **NOT** BE CALLED UNTIL THE SERVER/PROCESS IS EXITING!!
// This should only ever be called once for the entire duration of the application and only at the end.
func (f *Default) Close() error {
	return f.db.Close()
}
