package boothimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/EmpoweredVote/booth-results/internal/booths"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrReplaceNotConfirmed = errors.New("refusing to run: --replace truncates booth tables, pass --confirm as well")

// Run parses every configured file, then writes them in one transaction.
// Nothing is written when any file fails to parse or validate.
func Run(ctx context.Context, d *gorm.DB, cfg Config, log *zap.Logger) (Result, error) {
	if cfg.Replace && !cfg.Confirm {
		return Result{}, ErrReplaceNotConfirmed
	}
	if cfg.BoothsPath == "" && cfg.MappingsPath == "" && cfg.AcsPath == "" {
		return Result{}, errors.New("nothing to import: no input files given")
	}

	nsText := cfg.Namespace
	if nsText == "" {
		nsText = DefaultNamespace
	}
	ns, err := uuid.Parse(nsText)
	if err != nil {
		return Result{}, fmt.Errorf("invalid namespace uuid: %w", err)
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	boothRows, err := parseFile(cfg.BoothsPath, func(r io.Reader) ([]booths.Booth, error) {
		return ParseBooths(r, ns)
	})
	if err != nil {
		return Result{}, err
	}
	mappings, err := parseFile(cfg.MappingsPath, ParseMappings)
	if err != nil {
		return Result{}, err
	}
	acs, err := parseFile(cfg.AcsPath, ParseAcTotals)
	if err != nil {
		return Result{}, err
	}

	res := Result{Booths: len(boothRows), Mappings: len(mappings), Acs: len(acs)}
	log.Info("parsed import files",
		zap.Int("booths", res.Booths),
		zap.Int("mappings", res.Mappings),
		zap.Int("acs", res.Acs),
		zap.Bool("dry_run", cfg.DryRun),
		zap.Bool("replace", cfg.Replace))

	if cfg.DryRun {
		return res, nil
	}

	start := time.Now()
	err = d.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cfg.Replace {
			if err := truncate(tx, cfg); err != nil {
				return err
			}
		}

		if len(boothRows) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"booth_type", "total_votes", "polled_votes", "fav_votes", "ubt_votes", "updated_at",
				}),
			}).CreateInBatches(&boothRows, batch).Error; err != nil {
				return fmt.Errorf("insert booths: %w", err)
			}
		}
		if len(mappings) > 0 {
			if err := tx.CreateInBatches(&mappings, batch).Error; err != nil {
				return fmt.Errorf("insert booth mappings: %w", err)
			}
		}
		if len(acs) > 0 {
			if err := tx.CreateInBatches(&acs, batch).Error; err != nil {
				return fmt.Errorf("insert acs: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Info("import committed", zap.Duration("took", time.Since(start)))
	return res, nil
}

// truncate empties only the tables that are being reloaded.
func truncate(tx *gorm.DB, cfg Config) error {
	var tables []string
	if cfg.BoothsPath != "" {
		tables = append(tables, booths.Booth{}.TableName())
	}
	if cfg.MappingsPath != "" {
		tables = append(tables, booths.BoothMapping{}.TableName())
	}
	if cfg.AcsPath != "" {
		tables = append(tables, booths.AcTotal{}.TableName())
	}

	for _, t := range tables {
		if err := tx.Exec("TRUNCATE TABLE " + t).Error; err != nil {
			return fmt.Errorf("truncate %s: %w", t, err)
		}
	}
	return nil
}
