package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"fleetalloc/pkg/model"
	"fleetalloc/test/integration/testutil"
)

func createAllocation(t *testing.T, client *testutil.Client, allocation model.Allocation) model.Allocation {
	t.Helper()

	resp := client.POST(t, "/allocate", allocation)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created model.Allocation
	if err := resp.DecodeJSON(&created); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return created
}

// insertPastAllocation writes directly to the store; past dates cannot
// be created through the API.
func insertPastAllocation(t *testing.T, mongo *testutil.MongoHelper) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := mongo.GetCollection(testutil.AllocationsCollection).InsertOne(ctx, map[string]interface{}{
		"employee_id":     101,
		"vehicle_id":      42,
		"driver_id":       42,
		"allocation_date": testutil.DateFromToday(-1),
		"status":          model.StatusPending,
	})
	if err != nil {
		t.Fatalf("failed to seed past allocation: %v", err)
	}
}

func findAllocationID(t *testing.T, client *testutil.Client) string {
	t.Helper()

	resp := client.GET(t, "/history")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var page struct {
		Results []model.Allocation `json:"results"`
	}
	if err := resp.DecodeJSON(&page); err != nil {
		t.Fatalf("failed to unmarshal history: %v", err)
	}
	if len(page.Results) == 0 {
		t.Fatal("expected at least one allocation in history")
	}
	return page.Results[0].ID
}

func TestUpdate_ChangeDate(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	created := createAllocation(t, client, testutil.ValidAllocation())
	newDate := testutil.DateFromToday(5)

	resp := client.PUT(t, "/allocate/"+created.ID, map[string]string{
		"allocation_date": newDate,
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var updated model.Allocation
	if err := resp.DecodeJSON(&updated); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if updated.AllocationDate != newDate {
		t.Errorf("expected date %q, got %q", newDate, updated.AllocationDate)
	}
	if updated.EmployeeID != created.EmployeeID {
		t.Error("untouched fields must survive the patch")
	}
}

func TestUpdate_ChangeStatus(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	created := createAllocation(t, client, testutil.ValidAllocation())

	resp := client.PUT(t, "/allocate/"+created.ID, map[string]string{
		"status": model.StatusConfirmed,
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var updated model.Allocation
	if err := resp.DecodeJSON(&updated); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if updated.Status != model.StatusConfirmed {
		t.Errorf("expected status confirmed, got %q", updated.Status)
	}
	if updated.AllocationDate != created.AllocationDate {
		t.Error("date must survive a status-only patch")
	}
}

func TestUpdate_DateConflict(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	occupied := testutil.DateFromToday(3)
	createAllocation(t, client, testutil.NewAllocationBuilder().WithVehicle(7).WithDate(occupied).Build())
	movable := createAllocation(t, client, testutil.NewAllocationBuilder().WithVehicle(7).WithDate(testutil.DateFromToday(4)).Build())

	resp := client.PUT(t, "/allocate/"+movable.ID, map[string]string{
		"allocation_date": occupied,
	})
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	testutil.AssertContains(t, resp, "already allocated")
}

func TestUpdate_SameDateIsNotAConflict(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	created := createAllocation(t, client, testutil.ValidAllocation())

	// Re-submitting the current date alongside a status change must not
	// collide with the record itself
	resp := client.PUT(t, "/allocate/"+created.ID, map[string]string{
		"allocation_date": created.AllocationDate,
		"status":          model.StatusConfirmed,
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}

func TestUpdate_NotFound(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.PUT(t, "/allocate/65f000000000000000000099", map[string]string{
		"status": model.StatusConfirmed,
	})
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestUpdate_InvalidID(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := client.PUT(t, "/allocate/not-an-object-id", map[string]string{
		"status": model.StatusConfirmed,
	})
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
}

func TestUpdate_PastAllocationIsFrozen(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	insertPastAllocation(t, mongo)
	id := findAllocationID(t, client)

	resp := client.PUT(t, "/allocate/"+id, map[string]string{
		"status": model.StatusCanceled,
	})
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	testutil.AssertContains(t, resp, "already passed")
}

func TestDelete_ExistingAllocation(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	created := createAllocation(t, client, testutil.ValidAllocation())

	resp := client.DELETE(t, "/allocate/"+created.ID)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertContains(t, resp, "Allocation deleted successfully.")

	count := mongo.CountDocuments(t, testutil.AllocationsCollection)
	if count != 0 {
		t.Errorf("expected 0 documents in DB, got %d", count)
	}

	// Deleting again reports not found
	resp = client.DELETE(t, "/allocate/"+created.ID)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestDelete_FreesTheDate(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	allocation := testutil.ValidAllocation()
	created := createAllocation(t, client, allocation)

	resp := client.DELETE(t, "/allocate/"+created.ID)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	// The slot opens up again once the allocation is gone
	resp = client.POST(t, "/allocate", allocation)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
}

func TestDelete_PastAllocationIsFrozen(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	insertPastAllocation(t, mongo)
	id := findAllocationID(t, client)

	resp := client.DELETE(t, "/allocate/"+id)
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	testutil.AssertContains(t, resp, "already passed")

	count := mongo.CountDocuments(t, testutil.AllocationsCollection)
	if count != 1 {
		t.Errorf("expected the past allocation to survive, got %d documents", count)
	}
}
