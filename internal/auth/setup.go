package auth

import (
	"fmt"

	"github.com/EmpoweredVote/booth-results/internal/db"
	"gorm.io/gorm"
)

func Init(d *gorm.DB) error {
	if err := db.EnsureSchema(d, "app_auth"); err != nil {
		return fmt.Errorf("ensure schema app_auth: %w", err)
	}

	if err := d.AutoMigrate(&User{}, &Session{}); err != nil {
		return fmt.Errorf("auto-migrate app_auth: %w", err)
	}
	return nil
}
