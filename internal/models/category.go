package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category : données de référence en lecture seule
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string             `bson:"name" json:"name"`
	Icon string             `bson:"icon,omitempty" json:"icon,omitempty"`
}
