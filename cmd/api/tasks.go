package main

import (
	"context"
	"fmt"

	"medicine-catalog/internal/seed"
)

func runMigrate(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	a.logger.Info().Str("driver", a.cfg.Database.Driver).Msg("database schema is up to date")
	return nil
}

func runSeed(ctx context.Context, path string) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	store, err := a.newStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize upload store: %w", err)
	}

	medicineService, err := a.newService(store)
	if err != nil {
		return err
	}

	result, err := seed.LoadFile(ctx, path, medicineService, a.logger)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d medicines, skipped %d rows\n", result.Imported, result.Skipped)
	return nil
}
