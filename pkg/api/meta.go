package api

import (
	"time"

	"github.com/segmentio/ksuid"
	"gorm.io/gorm"
)

// Meta is base model definition, embedded in all kinds
type Meta struct {
	ID        string `gorm:"primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// NewID returns a new k-sortable unique identifier for registry rows.
func NewID() string {
	return ksuid.New().String()
}
