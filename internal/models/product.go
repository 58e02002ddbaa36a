package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Types de mise en avant d'un produit sur la boutique
const (
	ProductTypeForYou      = "forYou"
	ProductTypeRecommended = "recommended"
	ProductTypeFlashSale   = "flashSale"
)

var ProductTypes = []string{ProductTypeForYou, ProductTypeRecommended, ProductTypeFlashSale}

// IsValidProductType vérifie qu'un type de produit fait partie de l'énumération
func IsValidProductType(t string) bool {
	for _, v := range ProductTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Product struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Title         string              `bson:"title" json:"title"`
	Description   string              `bson:"description,omitempty" json:"description,omitempty"`
	Price         float64             `bson:"price" json:"price"`
	OriginalPrice float64             `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Discount      float64             `bson:"discount,omitempty" json:"discount,omitempty"`
	Type          string              `bson:"type,omitempty" json:"type,omitempty"`
	EndDate       string              `bson:"endDate,omitempty" json:"endDate,omitempty"` // uniquement pertinent pour les flash sales
	Category      string              `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL      string              `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Images        []string            `bson:"images,omitempty" json:"images,omitempty"`
	Colors        []string            `bson:"colors,omitempty" json:"colors,omitempty"`
	Brand         string              `bson:"brand,omitempty" json:"brand,omitempty"`
	Weight        float64             `bson:"weight,omitempty" json:"weight,omitempty"`
	InStock       bool                `bson:"inStock" json:"inStock"`
	Stock         int                 `bson:"stock" json:"stock"`
	UserID        *primitive.ObjectID `bson:"userId" json:"userId"` // nil = produit maison (admin)
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ProductSummary est la vue réduite d'un produit renvoyée dans le panier et
// les commandes (résolue en live, jamais dénormalisée en base)
type ProductSummary struct {
	ID       string  `json:"_id,omitempty"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}

const PlaceholderImage = "/placeholder.jpg"

// UnknownProductSummary remplace un produit supprimé dans une vue de commande
// ou lors d'un retrait du panier
func UnknownProductSummary(productID string) ProductSummary {
	return ProductSummary{
		ID:       productID,
		Title:    "Unknown Product",
		Price:    0,
		ImageURL: PlaceholderImage,
	}
}
