package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

var OrderStatuses = []string{OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}

// IsValidOrderStatus vérifie qu'un statut fait partie des quatre valeurs autorisées
func IsValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Order struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	UserID             primitive.ObjectID `bson:"userId"`
	Items              []OrderItem        `bson:"items"`
	PaymentMethod      string             `bson:"paymentMethod"`
	ShippingDetails    ShippingDetails    `bson:"shippingDetails"`
	Status             string             `bson:"status"`
	CancellationReason string             `bson:"cancellationReason,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt"`
	UserDetails        *OrderUserDetails  `bson:"userDetails,omitempty"` // rempli par le $lookup côté admin
}

// OrderItem : on ne stocke que la référence et la quantité, les détails du
// produit sont résolus en live à chaque lecture
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type ShippingDetails struct {
	FullName   string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Address    string `bson:"address,omitempty" json:"address,omitempty"`
	City       string `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country    string `bson:"country,omitempty" json:"country,omitempty"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type OrderUserDetails struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

// OrderItemView : ligne de commande enrichie (placeholder "Unknown Product"
// si le produit n'existe plus, jamais supprimée silencieusement)
type OrderItemView struct {
	ProductID string         `json:"productId"`
	Quantity  int            `json:"quantity"`
	Product   ProductSummary `json:"product"`
}

// OrderView est la sérialisation d'une commande pour le client
type OrderView struct {
	ID                 string            `json:"_id"`
	UserID             string            `json:"userId"`
	Items              []OrderItemView   `json:"items"`
	PaymentMethod      string            `json:"paymentMethod"`
	ShippingDetails    ShippingDetails   `json:"shippingDetails"`
	Status             string            `json:"status"`
	CancellationReason string            `json:"cancellationReason,omitempty"`
	CreatedAt          string            `json:"createdAt"`
	UpdatedAt          string            `json:"updatedAt"`
	UserDetails        *OrderUserDetails `json:"userDetails,omitempty"`
}

// OrderStatusResult : résultat individuel d'une mise à jour de statut en lot
type OrderStatusResult struct {
	OrderID string `json:"orderId"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}
