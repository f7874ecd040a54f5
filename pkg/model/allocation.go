package model

import "time"

// DateLayout is the stored form of allocation dates. Keeping the date a
// plain ISO string makes lexical and chronological ordering identical,
// which the history sort relies on.
const DateLayout = "2006-01-02"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCanceled  = "canceled"
)

// Allocation books one vehicle to one employee for one calendar day.
// (vehicle_id, allocation_date) is unique across the collection.
type Allocation struct {
	ID             string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	EmployeeID     int       `json:"employee_id" bson:"employee_id" validate:"required,gt=0"`
	VehicleID      int       `json:"vehicle_id" bson:"vehicle_id" validate:"required,gt=0"`
	DriverID       int       `json:"driver_id" bson:"driver_id" validate:"omitempty,gt=0"`
	AllocationDate string    `json:"allocation_date" bson:"allocation_date" validate:"required,datetime=2006-01-02"`
	Status         string    `json:"status" bson:"status" validate:"omitempty,oneof=pending confirmed canceled"`
	CreatedAt      time.Time `json:"created_at,omitempty" bson:"created_at,omitempty" validate:"omitempty"`
}

// AllocationPatch is a partial update. Absent fields leave the stored
// record untouched.
type AllocationPatch struct {
	AllocationDate *string `json:"allocation_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed canceled"`
}

// IsEmpty reports whether the patch would change nothing.
func (p *AllocationPatch) IsEmpty() bool {
	return p.AllocationDate == nil && p.Status == nil
}

// HistoryFilter holds the optional exact-match filters of the history
// report. Nil fields impose no constraint.
type HistoryFilter struct {
	EmployeeID     *int
	VehicleID      *int
	DriverID       *int
	AllocationDate *string
}
