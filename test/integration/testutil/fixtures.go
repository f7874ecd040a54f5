package testutil

import (
	"time"

	"fleetalloc/pkg/model"
)

type AllocationBuilder struct {
	a model.Allocation
}

func NewAllocationBuilder() *AllocationBuilder {
	return &AllocationBuilder{
		a: model.Allocation{
			EmployeeID:     101,
			VehicleID:      42,
			AllocationDate: DateFromToday(1),
		},
	}
}

func (b *AllocationBuilder) WithEmployee(id int) *AllocationBuilder {
	b.a.EmployeeID = id
	return b
}

func (b *AllocationBuilder) WithVehicle(id int) *AllocationBuilder {
	b.a.VehicleID = id
	return b
}

func (b *AllocationBuilder) WithDate(date string) *AllocationBuilder {
	b.a.AllocationDate = date
	return b
}

func (b *AllocationBuilder) WithStatus(status string) *AllocationBuilder {
	b.a.Status = status
	return b
}

func (b *AllocationBuilder) Build() model.Allocation {
	return b.a
}

func (b *AllocationBuilder) BuildPtr() *model.Allocation {
	a := b.a
	return &a
}

// DateFromToday formats today plus the given day offset as a stored
// allocation date.
func DateFromToday(days int) string {
	return time.Now().AddDate(0, 0, days).Format(model.DateLayout)
}

func ValidAllocation() model.Allocation {
	return NewAllocationBuilder().Build()
}

func PastAllocation() model.Allocation {
	return NewAllocationBuilder().WithDate(DateFromToday(-1)).Build()
}

func EmptyAllocation() model.Allocation {
	return model.Allocation{}
}
