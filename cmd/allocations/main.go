package main

import (
	"context"

	"fleetalloc/internal/allocations/handler"
	"fleetalloc/internal/allocations/repository"
	"fleetalloc/internal/allocations/service"
	"fleetalloc/internal/allocations/validator"
	migrations "fleetalloc/internal/migrations/mongo"
	"fleetalloc/pkg/app"
	"fleetalloc/pkg/config"
	"fleetalloc/pkg/events"
)

const ServiceName = "allocations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	// Index bootstrap is idempotent; running it at every start keeps the
	// unique (vehicle_id, allocation_date) guard in place before the
	// first request is served.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()
	if err := migrations.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.CanceledBlocksDate); err != nil {
		cfg.Log.Fatal("Failed to run store migrations", "error", err)
	}

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	allocationService := initServices(cfg, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAllocationHandler(allocationService, cfg))
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, allocation events disabled")
		return events.NopPublisher{}
	}
	cfg.Log.Info("Allocation events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, ServiceName)
}

func initServices(cfg *config.Config, publisher events.Publisher) service.AllocationService {
	allocationValidator := validator.NewAllocationValidator(cfg.Log)
	allocationRepo := repository.NewMongoAllocationRepository(cfg)
	allocationService := service.NewAllocationService(
		allocationRepo,
		allocationValidator,
		service.NewVehicleDriverAssigner(),
		publisher,
		cfg,
	)

	cfg.Log.Info("Allocation service initialized", "database", cfg.MongoDatabaseName)
	return allocationService
}
