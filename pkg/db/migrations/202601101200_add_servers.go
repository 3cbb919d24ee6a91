package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func addServers() *gormigrate.Migration {
	type Server struct {
		Model
		Name string `gorm:"uniqueIndex;not null"`
		Zone string `gorm:"index;not null"`
	}

	return &gormigrate.Migration{
		ID: "202601101200",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&Server{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&Server{})
		},
	}
}
