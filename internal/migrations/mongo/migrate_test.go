package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"fleetalloc/pkg/model"
)

func TestAllocationIndexes_CanceledBlocksDate(t *testing.T) {
	indexes := AllocationIndexes(true)
	unique := indexes[0].Options

	if unique.Unique == nil || !*unique.Unique {
		t.Fatal("expected a unique compound index")
	}
	if unique.Name == nil || *unique.Name != UniqueVehicleDateIndex {
		t.Errorf("unexpected index name: %v", unique.Name)
	}
	if unique.PartialFilterExpression != nil {
		t.Error("blocking policy must cover every status, got a partial filter")
	}
}

func TestAllocationIndexes_CanceledFreesDate(t *testing.T) {
	indexes := AllocationIndexes(false)
	unique := indexes[0].Options

	if unique.Unique == nil || !*unique.Unique {
		t.Fatal("expected a unique compound index")
	}

	expr, ok := unique.PartialFilterExpression.(bson.M)
	if !ok {
		t.Fatalf("expected a partial filter, got %v", unique.PartialFilterExpression)
	}
	cond, ok := expr["status"].(bson.M)
	if !ok {
		t.Fatalf("expected a status condition, got %v", expr)
	}
	statuses, ok := cond["$in"].([]string)
	if !ok {
		t.Fatalf("expected an $in status list, got %v", cond)
	}

	covered := map[string]bool{}
	for _, s := range statuses {
		covered[s] = true
	}
	if !covered[model.StatusPending] || !covered[model.StatusConfirmed] {
		t.Errorf("active statuses must stay under the uniqueness guard, got %v", statuses)
	}
	if covered[model.StatusCanceled] {
		t.Error("canceled records must drop out of the uniqueness guard")
	}
}

func TestAllocationIndexes_KeyOrder(t *testing.T) {
	for _, blocks := range []bool{true, false} {
		keys, ok := AllocationIndexes(blocks)[0].Keys.(bson.D)
		if !ok {
			t.Fatal("expected ordered compound keys")
		}
		if len(keys) != 2 || keys[0].Key != "vehicle_id" || keys[1].Key != "allocation_date" {
			t.Errorf("unexpected key order: %v", keys)
		}
	}
}
