package validators

import "go.mongodb.org/mongo-driver/bson"

var SlotClaimValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"reservation_id",
			"slot_start",
		},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"reservation_id": bson.M{
				"bsonType": "string",
			},
			"slot_start": bson.M{
				"bsonType": "date",
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
