package validator

import (
	"io"
	"strings"
	"testing"
	"time"

	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"
)

func testValidator() *AllocationValidator {
	return NewAllocationValidator(logger.New(logger.Config{
		Level:   "error",
		Output:  io.Discard,
		Service: "test",
	}))
}

func TestIsFutureOrToday(t *testing.T) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"today", today, true},
		{"tomorrow", today.AddDate(0, 0, 1), true},
		{"yesterday", today.AddDate(0, 0, -1), false},
		{"next year", today.AddDate(1, 0, 0), true},
		{"last week", today.AddDate(0, 0, -7), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsFutureOrToday(tc.date); got != tc.want {
				t.Errorf("IsFutureOrToday(%s) = %v, want %v", tc.date.Format(model.DateLayout), got, tc.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-08-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.August || d.Day() != 29 {
		t.Errorf("parsed wrong date: %v", d)
	}
	if d.Location() != time.Local {
		t.Errorf("dates must parse in the process's local zone, got %v", d.Location())
	}

	for _, bad := range []string{"", "29-08-2026", "2026/08/29", "2026-13-01", "2026-08-29T00:00:00Z", "tomorrow"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestValidate(t *testing.T) {
	v := testValidator()

	valid := &model.Allocation{
		EmployeeID:     7,
		VehicleID:      42,
		AllocationDate: "2027-01-15",
		Status:         model.StatusPending,
	}
	if err := v.Validate(valid); err != nil {
		t.Fatalf("expected valid allocation, got: %v", err)
	}

	cases := []struct {
		name       string
		allocation *model.Allocation
		field      string
	}{
		{"missing employee_id", &model.Allocation{VehicleID: 42, AllocationDate: "2027-01-15"}, "EmployeeID"},
		{"negative employee_id", &model.Allocation{EmployeeID: -1, VehicleID: 42, AllocationDate: "2027-01-15"}, "EmployeeID"},
		{"missing vehicle_id", &model.Allocation{EmployeeID: 7, AllocationDate: "2027-01-15"}, "VehicleID"},
		{"bad date", &model.Allocation{EmployeeID: 7, VehicleID: 42, AllocationDate: "15-01-2027"}, "AllocationDate"},
		{"unknown status", &model.Allocation{EmployeeID: 7, VehicleID: 42, AllocationDate: "2027-01-15", Status: "parked"}, "Status"},
		{"malformed id", &model.Allocation{ID: "zzz", EmployeeID: 7, VehicleID: 42, AllocationDate: "2027-01-15"}, "ID"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.allocation)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected error naming %s, got: %v", tc.field, err)
			}
		})
	}
}

func TestValidatePatch(t *testing.T) {
	v := testValidator()

	date := "2027-01-15"
	status := model.StatusConfirmed
	if err := v.ValidatePatch(&model.AllocationPatch{AllocationDate: &date, Status: &status}); err != nil {
		t.Fatalf("expected valid patch, got: %v", err)
	}

	// Absent fields are not validated
	if err := v.ValidatePatch(&model.AllocationPatch{}); err != nil {
		t.Fatalf("empty patch must validate, got: %v", err)
	}

	badDate := "2027-1-5"
	if err := v.ValidatePatch(&model.AllocationPatch{AllocationDate: &badDate}); err == nil {
		t.Error("expected error for malformed patch date")
	}

	badStatus := "done"
	if err := v.ValidatePatch(&model.AllocationPatch{Status: &badStatus}); err == nil {
		t.Error("expected error for unknown patch status")
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "EmployeeID", Message: "EmployeeID is required"},
		{Field: "VehicleID", Message: "VehicleID must be greater than 0"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "2 error(s)") {
		t.Errorf("expected error count in message, got: %s", msg)
	}
	if !strings.Contains(msg, "EmployeeID is required") {
		t.Errorf("expected field message, got: %s", msg)
	}

	if (ValidationErrors{}).Error() != "" {
		t.Error("empty error list must render as empty string")
	}
}
