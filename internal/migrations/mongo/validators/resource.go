package validators

import "go.mongodb.org/mongo-driver/bson"

var ResourceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"project_id",
			"name",
			"default_capacity",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"project_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"default_capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  10000,
			},

			"booking_config": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"daily": bson.M{
						"bsonType": "object",
						"properties": bson.M{
							"start": bson.M{"bsonType": "string"},
							"end":   bson.M{"bsonType": "string"},
						},
					},
					"weekly": bson.M{
						"bsonType": "object",
						"properties": bson.M{
							"available_days": bson.M{
								"bsonType": "array",
								"items": bson.M{
									"bsonType": "int",
									"minimum":  0,
									"maximum":  6,
								},
							},
						},
					},
				},
			},

			"metadata": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "string",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
