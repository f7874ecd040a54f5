package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	allocerrors "fleetalloc/internal/allocations/errors"
	"fleetalloc/pkg/config"
	"fleetalloc/pkg/model"
)

const (
	CollectionName = "vallocations"
)

type AllocationRepository interface {
	Insert(ctx context.Context, allocation *model.Allocation) error
	FindByID(ctx context.Context, id string) (*model.Allocation, error)
	Update(ctx context.Context, id string, set map[string]any) (*model.Allocation, error)
	Delete(ctx context.Context, id string) error
	CountVehicleOnDate(ctx context.Context, vehicleID int, date string, includeCanceled bool) (int64, error)
	Search(ctx context.Context, filter model.HistoryFilter, skip, limit int64) ([]*model.Allocation, error)
	Count(ctx context.Context, filter model.HistoryFilter) (int64, error)
}

type mongoAllocationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAllocationRepository(cfg *config.Config) AllocationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAllocationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAllocationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// Insert writes a new allocation. The unique (vehicle_id,
// allocation_date) index is the final double-booking arbiter: a
// concurrent writer that slipped past the application-level check
// surfaces here as ErrDuplicateSlot.
func (r *mongoAllocationRepository) Insert(ctx context.Context, allocation *model.Allocation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	allocation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, allocation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return allocerrors.ErrDuplicateSlot
		}
		return fmt.Errorf("failed to insert allocation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		allocation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAllocationRepository) FindByID(ctx context.Context, id string) (*model.Allocation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, id)
	}

	var allocation model.Allocation
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&allocation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, allocerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find allocation: %w", err)
	}

	return &allocation, nil
}

// Update applies a partial $set and returns the post-update document.
// A date change that collides with another booking for the same vehicle
// trips the unique index and comes back as ErrDuplicateSlot.
func (r *mongoAllocationRepository) Update(ctx context.Context, id string, set map[string]any) (*model.Allocation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, id)
	}

	fields := bson.M{}
	for k, v := range set {
		fields[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.Allocation
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, allocerrors.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, allocerrors.ErrDuplicateSlot
		}
		return nil, fmt.Errorf("failed to update allocation: %w", err)
	}

	return &updated, nil
}

func (r *mongoAllocationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", allocerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
	}
	if result.DeletedCount == 0 {
		return allocerrors.ErrNotFound
	}

	return nil
}

// CountVehicleOnDate is the application-level conflict probe. It is a
// fast-path rejection only; the unique index remains authoritative
// under concurrency. When includeCanceled is false, canceled records do
// not block the date here, and the migration builds the unique index
// with a matching partial filter so they do not block it there either.
func (r *mongoAllocationRepository) CountVehicleOnDate(ctx context.Context, vehicleID int, date string, includeCanceled bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"vehicle_id":      vehicleID,
		"allocation_date": date,
	}
	if !includeCanceled {
		filter["status"] = bson.M{"$ne": model.StatusCanceled}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count allocations for vehicle: %w", err)
	}
	return count, nil
}

func (r *mongoAllocationRepository) Search(ctx context.Context, filter model.HistoryFilter, skip, limit int64) ([]*model.Allocation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Date then _id gives history pages a stable total order; insertion
	// order is not preserved across compaction.
	opts := options.Find().
		SetSort(bson.D{{Key: "allocation_date", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, buildHistoryFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find allocations: %w", err)
	}
	defer cursor.Close(ctx)

	var allocations []*model.Allocation
	if err = cursor.All(ctx, &allocations); err != nil {
		return nil, fmt.Errorf("failed to decode allocations: %w", err)
	}

	return allocations, nil
}

func (r *mongoAllocationRepository) Count(ctx context.Context, filter model.HistoryFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildHistoryFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count allocations: %w", err)
	}
	return count, nil
}

func buildHistoryFilter(f model.HistoryFilter) bson.M {
	filter := bson.M{}
	if f.EmployeeID != nil {
		filter["employee_id"] = *f.EmployeeID
	}
	if f.VehicleID != nil {
		filter["vehicle_id"] = *f.VehicleID
	}
	if f.DriverID != nil {
		filter["driver_id"] = *f.DriverID
	}
	if f.AllocationDate != nil {
		filter["allocation_date"] = *f.AllocationDate
	}
	return filter
}
