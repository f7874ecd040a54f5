package main

import (
	"context"

	migrations "fleetalloc/internal/migrations/mongo"
	"fleetalloc/pkg/config"
)

// Standalone index and collection bootstrap. The allocations service runs
// the same migration at startup; this binary exists for deployments that
// provision the store before rolling the service out.
func main() {
	cfg := config.Load("migrate")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	if err := migrations.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.CanceledBlocksDate); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	cfg.Log.Info("Migration completed", "database", cfg.MongoDatabaseName)
}
