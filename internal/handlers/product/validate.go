package product

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sahilvr03/kido-store/internal/models"
)

// ProductInput : DTO de création d'un produit. Les champs sont validés à la
// frontière avant de toucher la logique métier.
type ProductInput struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	Discount      float64  `json:"discount"`
	Type          string   `json:"type"`
	EndDate       string   `json:"endDate"`
	Category      string   `json:"category"`
	ImageURL      string   `json:"imageUrl"`
	Images        []string `json:"images"`
	Colors        []string `json:"colors"`
	Brand         string   `json:"brand"`
	Weight        float64  `json:"weight"`
	InStock       bool     `json:"inStock"`
	Stock         int      `json:"stock"`
}

// ProductUpdateInput : DTO de mise à jour partielle, un champ nil est absent
// du $set
type ProductUpdateInput struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	OriginalPrice *float64  `json:"originalPrice"`
	Discount      *float64  `json:"discount"`
	Type          *string   `json:"type"`
	EndDate       *string   `json:"endDate"`
	Category      *string   `json:"category"`
	ImageURL      *string   `json:"imageUrl"`
	Images        *[]string `json:"images"`
	Colors        *[]string `json:"colors"`
	Brand         *string   `json:"brand"`
	Weight        *float64  `json:"weight"`
	InStock       *bool     `json:"inStock"`
	Stock         *int      `json:"stock"`
}

// Formats de date acceptés pour endDate (le front envoie tantôt une date
// ISO complète, tantôt un simple jour)
var endDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123,
}

func parseEndDate(value string) bool {
	for _, layout := range endDateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

// validateProductFields applique les règles communes création/mise à jour.
// Retourne le message d'erreur client, ou "" si tout est valide.
func validateProductFields(ptype, endDate string) string {
	if ptype != "" && !models.IsValidProductType(ptype) {
		return "Invalid product type"
	}
	if ptype == models.ProductTypeFlashSale && endDate != "" && !parseEndDate(endDate) {
		return "Invalid endDate format"
	}
	return ""
}

func validateProductInput(in ProductInput) string {
	return validateProductFields(in.Type, in.EndDate)
}

func validateProductUpdate(in ProductUpdateInput) string {
	ptype := ""
	if in.Type != nil {
		ptype = *in.Type
	}
	endDate := ""
	if in.EndDate != nil {
		endDate = *in.EndDate
	}
	return validateProductFields(ptype, endDate)
}

// bindErrorMessage traduit une erreur de décodage JSON en message client
// précis (le contrat d'API nomme le champ fautif)
func bindErrorMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch strings.ToLower(typeErr.Field) {
		case "images":
			return "Images must be an array"
		case "colors":
			return "Colors must be an array"
		case "category":
			return "Category must be a string"
		}
	}
	return "Invalid request body"
}

// canModifyProduct : un admin peut tout modifier, un utilisateur seulement
// ses propres produits. Un produit maison (userId nul) est réservé à l'admin.
func canModifyProduct(role, userID string, existing models.Product) bool {
	if role == models.RoleAdmin {
		return true
	}
	return existing.UserID != nil && existing.UserID.Hex() == userID
}
