package service

import (
	"context"
	"errors"
	"sync"

	allocerrors "fleetalloc/internal/allocations/errors"
	"fleetalloc/internal/allocations/repository"
	"fleetalloc/internal/allocations/validator"
	"fleetalloc/pkg/config"
	apperrors "fleetalloc/pkg/errors"
	"fleetalloc/pkg/events"
	"fleetalloc/pkg/model"
)

const (
	msgDatePassed      = "Allocation date must be today or later."
	msgFrozenPast      = "Cannot modify allocations that have already passed."
	msgVehicleTaken    = "Vehicle is already allocated for the requested date."
	msgVehicleTakenNew = "Vehicle is already allocated for the new requested date."
)

type HistoryPage struct {
	Total   int64
	Results []*model.Allocation
}

type AllocationService interface {
	Create(ctx context.Context, allocation *model.Allocation) (*model.Allocation, error)
	Update(ctx context.Context, id string, patch *model.AllocationPatch) (*model.Allocation, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, filter model.HistoryFilter, skip, limit int64) (*HistoryPage, error)
}

type allocationService struct {
	repo      repository.AllocationRepository
	validator *validator.AllocationValidator
	drivers   DriverAssigner
	publisher events.Publisher
	cfg       *config.Config
}

func NewAllocationService(
	repo repository.AllocationRepository,
	v *validator.AllocationValidator,
	drivers DriverAssigner,
	publisher events.Publisher,
	cfg *config.Config,
) AllocationService {
	return &allocationService{
		repo:      repo,
		validator: v,
		drivers:   drivers,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create books a vehicle for one day. The conflict probe here is a
// fast-path rejection; the authoritative guard is the unique index,
// whose duplicate-key rejection is re-labeled as the same conflict so a
// lost race is indistinguishable from a pre-detected one.
func (s *allocationService) Create(ctx context.Context, allocation *model.Allocation) (*model.Allocation, error) {
	allocation.ID = ""
	allocation.Status = model.StatusPending

	if err := s.validator.Validate(allocation); err != nil {
		s.cfg.Log.Warn("Allocation validation failed", "error", err)
		return nil, apperrors.Validation("Allocation validation failed", map[string]any{"error": err.Error()})
	}

	requested, err := validator.ParseDate(allocation.AllocationDate)
	if err != nil {
		return nil, apperrors.Validation("Allocation validation failed", map[string]any{"error": err.Error()})
	}
	if !validator.IsFutureOrToday(requested) {
		return nil, apperrors.Validation(msgDatePassed, nil)
	}

	taken, err := s.isVehicleAllocated(ctx, allocation.VehicleID, allocation.AllocationDate)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict(msgVehicleTaken)
	}

	driverID, err := s.drivers.AssignDriver(ctx, allocation.VehicleID)
	if err != nil {
		return nil, apperrors.Internal("Failed to assign driver", err)
	}
	allocation.DriverID = driverID

	if err := s.repo.Insert(ctx, allocation); err != nil {
		if errors.Is(err, allocerrors.ErrDuplicateSlot) {
			// Lost the insert race to a concurrent writer.
			return nil, apperrors.Conflict(msgVehicleTaken)
		}
		s.cfg.Log.Error("Failed to create allocation", "error", err)
		return nil, apperrors.Internal("Failed to create allocation", err)
	}

	s.publish(ctx, events.TypeAllocationCreated, allocation)
	s.cfg.Log.Info("Allocation created",
		"id", allocation.ID,
		"employee_id", allocation.EmployeeID,
		"vehicle_id", allocation.VehicleID,
		"allocation_date", allocation.AllocationDate,
	)
	return allocation, nil
}

// Update applies a partial patch. The futurity gate runs against the
// stored date, so a past allocation is frozen no matter what the patch
// carries. Changing the date to one already held by the same vehicle is
// a conflict; re-submitting the current date is not.
func (s *allocationService) Update(ctx context.Context, id string, patch *model.AllocationPatch) (*model.Allocation, error) {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidatePatch(patch); err != nil {
		s.cfg.Log.Warn("Allocation patch validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Allocation validation failed", map[string]any{"error": err.Error()})
	}

	stored, err := validator.ParseDate(existing.AllocationDate)
	if err != nil {
		return nil, apperrors.Internal("Stored allocation date is malformed", err)
	}
	if !validator.IsFutureOrToday(stored) {
		return nil, apperrors.Validation(msgFrozenPast, nil)
	}

	if patch.AllocationDate != nil && *patch.AllocationDate != existing.AllocationDate {
		taken, err := s.isVehicleAllocated(ctx, existing.VehicleID, *patch.AllocationDate)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict(msgVehicleTakenNew)
		}
	}

	if patch.IsEmpty() {
		return existing, nil
	}

	set := map[string]any{}
	if patch.AllocationDate != nil {
		set["allocation_date"] = *patch.AllocationDate
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		switch {
		case errors.Is(err, allocerrors.ErrDuplicateSlot):
			return nil, apperrors.Conflict(msgVehicleTakenNew)
		case errors.Is(err, allocerrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Allocation", id)
		default:
			s.cfg.Log.Error("Failed to update allocation", "id", id, "error", err)
			return nil, apperrors.Internal("Failed to update allocation", err)
		}
	}

	s.publish(ctx, events.TypeAllocationUpdated, updated)
	s.cfg.Log.Info("Allocation updated", "id", id)
	return updated, nil
}

// Delete physically removes an allocation whose date has not passed.
func (s *allocationService) Delete(ctx context.Context, id string) error {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	stored, err := validator.ParseDate(existing.AllocationDate)
	if err != nil {
		return apperrors.Internal("Stored allocation date is malformed", err)
	}
	if !validator.IsFutureOrToday(stored) {
		return apperrors.Validation(msgFrozenPast, nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, allocerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Allocation", id)
		}
		s.cfg.Log.Error("Failed to delete allocation", "id", id, "error", err)
		return apperrors.Internal("Failed to delete allocation", err)
	}

	s.publish(ctx, events.TypeAllocationDeleted, existing)
	s.cfg.Log.Info("Allocation deleted", "id", id)
	return nil
}

// History returns one page of matching allocations plus the total match
// count, fetched concurrently.
func (s *allocationService) History(ctx context.Context, filter model.HistoryFilter, skip, limit int64) (*HistoryPage, error) {
	if filter.AllocationDate != nil {
		if _, err := validator.ParseDate(*filter.AllocationDate); err != nil {
			return nil, apperrors.InvalidInput("invalid allocation_date filter: " + *filter.AllocationDate)
		}
	}

	skip = s.cfg.NormalizeSkip(skip)
	limit = s.cfg.NormalizeLimit(limit)

	var total int64
	var results []*model.Allocation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count allocations", "error", errCount)
			errCount = apperrors.Internal("Failed to count allocations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		results, errFind = s.repo.Search(ctx, filter, skip, limit)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search allocations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve allocations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, errCount
	}
	if errFind != nil {
		return nil, errFind
	}

	if results == nil {
		results = []*model.Allocation{}
	}
	return &HistoryPage{Total: total, Results: results}, nil
}

// --- Helpers ---

func (s *allocationService) findByID(ctx context.Context, id string) (*model.Allocation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Allocation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, allocerrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid allocation ID format")
		case errors.Is(err, allocerrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Allocation", id)
		default:
			return nil, apperrors.Internal("Failed to retrieve allocation", err)
		}
	}
	return existing, nil
}

func (s *allocationService) isVehicleAllocated(ctx context.Context, vehicleID int, date string) (bool, error) {
	count, err := s.repo.CountVehicleOnDate(ctx, vehicleID, date, s.cfg.CanceledBlocksDate)
	if err != nil {
		s.cfg.Log.Error("Failed to check vehicle availability", "vehicle_id", vehicleID, "error", err)
		return false, apperrors.Internal("Failed to check vehicle availability", err)
	}
	return count > 0, nil
}

func (s *allocationService) publish(ctx context.Context, eventType string, allocation *model.Allocation) {
	if err := s.publisher.Publish(ctx, eventType, allocation); err != nil {
		s.cfg.Log.Warn("Failed to publish allocation event",
			"type", eventType,
			"id", allocation.ID,
			"error", err,
		)
	}
}
