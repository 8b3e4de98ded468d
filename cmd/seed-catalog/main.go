// Command seed-catalog loads a catalog file into PostgreSQL, replacing the
// items and pricing tiers stored there.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/maftown/spitbraai/internal/domain/catalog"
	"github.com/maftown/spitbraai/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		file        string
		dryRun      bool
	)

	pflag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	pflag.StringVarP(&file, "file", "f", "", "catalog YAML file, optionally gzipped; empty uses the built-in catalog")
	pflag.BoolVar(&dryRun, "dry-run", false, "validate the catalog without writing")
	pflag.Parse()

	lg, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" && !dryRun {
		lg.Fatal("Database URL is required: set --database-url or DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, lg, databaseURL, file, dryRun); err != nil {
		lg.Fatal("Seed failed", zap.Error(err))
	}
	lg.Info("Seed completed")
}

func run(ctx context.Context, lg *zap.Logger, databaseURL, file string, dryRun bool) error {
	doc, err := readCatalog(file)
	if err != nil {
		return err
	}
	lg.Info("Catalog parsed",
		zap.String("file", file),
		zap.Int("items", len(doc.Items)),
		zap.Int("tier_modes", len(doc.Tiers)),
	)
	if dryRun {
		return nil
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	if err := postgres.NewCatalogRepository(pool).Replace(ctx, doc); err != nil {
		return errors.Wrap(err, "replace catalog")
	}
	return nil
}

// readCatalog parses the catalog at path. Files ending in .gz are
// decompressed first.
func readCatalog(path string) (*catalog.Document, error) {
	if !strings.HasSuffix(path, ".gz") {
		return catalog.Load(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog file")
	}
	defer func() { _ = f.Close() }()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "open gzip stream")
	}
	defer func() { _ = zr.Close() }()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "decompress catalog")
	}
	return catalog.Parse(data)
}
