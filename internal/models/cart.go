package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart : un document unique par utilisateur (index unique sur userId)
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// CartItemView est la ligne enrichie renvoyée au client, le produit étant
// résolu en live contre le catalogue
type CartItemView struct {
	ProductID string         `json:"productId"`
	Quantity  int            `json:"quantity"`
	Product   ProductSummary `json:"product"`
}
