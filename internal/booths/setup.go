package booths

import (
	"fmt"

	"github.com/EmpoweredVote/booth-results/internal/db"
	"gorm.io/gorm"
)

const schema = "booth_data"

// Init creates the booth_data schema and migrates its tables.
func Init(d *gorm.DB) error {
	if err := db.EnsureSchema(d, schema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", schema, err)
	}

	if err := d.AutoMigrate(&Booth{}, &BoothMapping{}, &AcTotal{}); err != nil {
		return fmt.Errorf("auto-migrate booth tables: %w", err)
	}

	if err := d.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booths_pc_constituency
		ON booth_data.booths (pc, constituency, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_booths_pc_constituency: %w", err)
	}
	return nil
}
