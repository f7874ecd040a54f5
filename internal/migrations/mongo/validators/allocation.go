package validators

import "go.mongodb.org/mongo-driver/bson"

// AllocationValidator is the collection-level schema guard. It rejects
// documents the application should never write: missing identifiers,
// malformed dates, statuses outside the closed set.
var AllocationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"employee_id", "vehicle_id", "driver_id", "allocation_date", "status"},
		"properties": bson.M{
			"employee_id": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},
			"vehicle_id": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},
			"driver_id": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},
			"allocation_date": bson.M{
				"bsonType": "string",
				"pattern":  `^\d{4}-\d{2}-\d{2}$`,
			},
			"status": bson.M{
				"enum": []string{"pending", "confirmed", "canceled"},
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
