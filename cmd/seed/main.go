package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/EmpoweredVote/booth-results/internal/boothimport"
	"github.com/EmpoweredVote/booth-results/internal/booths"
	"github.com/EmpoweredVote/booth-results/internal/cache"
	"github.com/EmpoweredVote/booth-results/internal/config"
	"github.com/EmpoweredVote/booth-results/internal/db"
	"github.com/EmpoweredVote/booth-results/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load(".env.local")

	var (
		boothsPath   = flag.String("booths", "", "path to booths CSV")
		mappingsPath = flag.String("mappings", "", "path to booth mappings CSV")
		acsPath      = flag.String("acs", "", "path to AC totals CSV")
		dsn          = flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN (defaults to DATABASE_URL)")
		namespace    = flag.String("namespace", boothimport.DefaultNamespace, "UUID namespace for booth ids (keep stable)")
		batch        = flag.Int("batch", boothimport.DefaultBatchSize, "rows per INSERT")
		dryRun       = flag.Bool("dry-run", false, "parse and validate only")
		replace      = flag.Bool("replace", false, "DANGER: truncates each target table before importing")
		confirm      = flag.Bool("confirm", false, "required together with --replace")
	)
	flag.Parse()

	if *boothsPath == "" && *mappingsPath == "" && *acsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.NewLogger("info", "console", "booth-seed")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := boothimport.Config{
		BoothsPath:   *boothsPath,
		MappingsPath: *mappingsPath,
		AcsPath:      *acsPath,
		Namespace:    *namespace,
		BatchSize:    *batch,
		DryRun:       *dryRun,
		Replace:      *replace,
		Confirm:      *confirm,
	}

	if cfg.DryRun {
		res, err := boothimport.Run(context.Background(), nil, cfg, log)
		if err != nil {
			log.Fatal("seeding failed", zap.Error(err))
		}
		log.Info("dry run ok", zap.Any("rows", res))
		return
	}

	d, err := db.Connect(*dsn, log)
	if err != nil {
		log.Fatal("connect", zap.Error(err))
	}
	if err := booths.Init(d); err != nil {
		log.Fatal("init booth tables", zap.Error(err))
	}

	res, err := boothimport.Run(context.Background(), d, cfg, log)
	if err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("seeding complete",
		zap.Int("booths", res.Booths),
		zap.Int("mappings", res.Mappings),
		zap.Int("acs", res.Acs))

	clearReportCache(log)
}

// clearReportCache drops cached reports so the API does not serve pre-import
// numbers until REPORT_CACHE_TTL lapses. Failure only warns; the data is committed.
func clearReportCache(log *zap.Logger) {
	cfg := config.Load()
	if cfg.Redis.Addr == "" {
		return
	}

	ctx := context.Background()
	kv, err := cache.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("report cache not cleared: redis unreachable", zap.Error(err))
		return
	}
	defer kv.Close()

	if err := booths.NewReportCache(kv, cfg.ReportCacheTTL, nil, log).Invalidate(ctx); err != nil {
		return
	}
	log.Info("report cache cleared", zap.String("redis_addr", cfg.Redis.Addr))
}
