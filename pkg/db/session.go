package db

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// SessionFactory hands out gorm sessions bound to a context. Implementations keep
// one connection pool for the whole process.
type SessionFactory interface {
	New(ctx context.Context) *gorm.DB
	CheckConnection() error
	DirectDB() *sql.DB
	Close() error
}
