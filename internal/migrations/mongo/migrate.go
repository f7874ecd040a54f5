package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fleetalloc/internal/migrations/mongo/validators"
	"fleetalloc/pkg/model"
)

const (
	AllocationsCollection  = "vallocations"
	UniqueVehicleDateIndex = "uniq_vehicle_date"
)

// Error codes Mongo returns when an index exists under the same name
// with a different definition.
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// AllocationIndexes carry the storage-level booking guarantees. The
// unique compound index is the final arbiter against double-booking
// under concurrent writers; the employee index serves history lookups.
//
// When canceled allocations do not block their date, the unique index
// is built with a partial filter so canceled records drop out of the
// uniqueness guard entirely. Cancellation then frees the slot at the
// storage layer, not just in the application-level probe.
func AllocationIndexes(canceledBlocksDate bool) []mongo.IndexModel {
	unique := options.Index().SetUnique(true).SetName(UniqueVehicleDateIndex)
	if !canceledBlocksDate {
		unique.SetPartialFilterExpression(bson.M{
			"status": bson.M{"$in": []string{model.StatusPending, model.StatusConfirmed}},
		})
	}

	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "vehicle_id", Value: 1},
				{Key: "allocation_date", Value: 1},
			},
			Options: unique,
		},
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}},
		},
	}
}

// RunMigration ensures collections, validators and indexes exist. It is
// idempotent and runs at every service start as well as from the
// standalone migrate command. Flipping the cancellation policy rebuilds
// the unique index to match.
func RunMigration(ctx context.Context, client *mongo.Client, dbName string, canceledBlocksDate bool) error {
	db := client.Database(dbName)

	if err := ensureCollection(ctx, db, AllocationsCollection, validators.AllocationValidator); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", AllocationsCollection, err)
	}
	if err := ensureIndexes(ctx, db, AllocationsCollection, AllocationIndexes(canceledBlocksDate)); err != nil {
		return fmt.Errorf("failed to ensure indexes for %s: %w", AllocationsCollection, err)
	}

	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	// Collection exists; refresh the validator in place. Failure here is
	// tolerable since the application validates before writing.
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		fmt.Printf("warning: failed updating validator for %s: %v\n", name, err)
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	indexes := db.Collection(name).Indexes()

	_, err := indexes.CreateMany(ctx, models)
	if err == nil {
		return nil
	}
	if !isIndexConflict(err) {
		return err
	}

	// Same name, different definition: the cancellation policy changed
	// since the index was built. Rebuild it under the new policy.
	if _, dropErr := indexes.DropOne(ctx, UniqueVehicleDateIndex); dropErr != nil {
		return fmt.Errorf("failed dropping stale index %s: %w", UniqueVehicleDateIndex, dropErr)
	}
	_, err = indexes.CreateMany(ctx, models)
	return err
}

func isIndexConflict(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == codeIndexOptionsConflict || cmdErr.Code == codeIndexKeySpecsConflict
	}
	return false
}
