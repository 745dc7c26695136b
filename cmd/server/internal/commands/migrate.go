package commands

import (
	"context"
	"fmt"

	mongorepo "github.com/companyhub/companies-api/internal/infrastructure/db/mongo"
)

// MigrateCmd creates the indexes the repositories rely on. It is safe to run
// repeatedly.
type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, log, err := setup(ctx, globals)
	if err != nil {
		return err
	}

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	log.Info().Str("database", cfg.Mongo.Database).Msg("indexes created")
	return nil
}
