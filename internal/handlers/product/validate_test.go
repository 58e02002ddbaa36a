package product

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sahilvr03/kido-store/internal/models"
)

func TestValidateProductFields(t *testing.T) {
	assert.Equal(t, "", validateProductFields("", ""))
	assert.Equal(t, "", validateProductFields("forYou", ""))
	assert.Equal(t, "", validateProductFields("recommended", ""))
	assert.Equal(t, "", validateProductFields("flashSale", "2026-12-31"))
	assert.Equal(t, "", validateProductFields("flashSale", "2026-12-31T23:59:59Z"))

	assert.Equal(t, "Invalid product type", validateProductFields("banner", ""))
	assert.Equal(t, "Invalid endDate format", validateProductFields("flashSale", "demain"))
	assert.Equal(t, "Invalid endDate format", validateProductFields("flashSale", "31/12/2026"))
}

func TestValidateProductUpdateNilFields(t *testing.T) {
	// Un DTO de mise à jour sans type ni endDate est toujours valide
	assert.Equal(t, "", validateProductUpdate(ProductUpdateInput{}))

	bad := "invalide"
	assert.Equal(t, "Invalid product type", validateProductUpdate(ProductUpdateInput{Type: &bad}))
}

func TestParseEndDateLayouts(t *testing.T) {
	valid := []string{
		"2026-12-31",
		"2026/12/31",
		"2026-12-31T23:59:59",
		"2026-12-31T23:59:59Z",
		"2026-12-31T23:59:59.123Z",
	}
	for _, v := range valid {
		assert.True(t, parseEndDate(v), v)
	}
	assert.False(t, parseEndDate("pas-une-date"))
	assert.False(t, parseEndDate(""))
}

func TestBindErrorMessage(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"images non tableau", `{"images": "oops"}`, "Images must be an array"},
		{"colors non tableau", `{"colors": 42}`, "Colors must be an array"},
		{"category non chaîne", `{"category": ["jouets"]}`, "Category must be a string"},
		{"json invalide", `{`, "Invalid request body"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var input ProductInput
			err := json.Unmarshal([]byte(tc.body), &input)
			require.Error(t, err)
			assert.Equal(t, tc.message, bindErrorMessage(err))
		})
	}
}

func TestCanModifyProduct(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	owned := models.Product{UserID: &owner}
	house := models.Product{UserID: nil}

	assert.True(t, canModifyProduct(models.RoleAdmin, other.Hex(), owned))
	assert.True(t, canModifyProduct(models.RoleAdmin, "", house))

	assert.True(t, canModifyProduct(models.RoleUser, owner.Hex(), owned))
	assert.False(t, canModifyProduct(models.RoleUser, other.Hex(), owned))
	// Un produit maison n'appartient à personne, seul l'admin y touche
	assert.False(t, canModifyProduct(models.RoleUser, owner.Hex(), house))
}

func TestBuildUpdateSetPartial(t *testing.T) {
	title := "Peluche ours"
	stock := 12
	inStock := false

	update := buildUpdateSet(ProductUpdateInput{
		Title:   &title,
		Stock:   &stock,
		InStock: &inStock,
	})

	assert.Equal(t, title, update["title"])
	assert.Equal(t, stock, update["stock"])
	assert.Equal(t, inStock, update["inStock"])
	// Les champs absents du payload ne doivent jamais apparaître dans le $set
	assert.NotContains(t, update, "price")
	assert.NotContains(t, update, "images")
	assert.Len(t, update, 3)
}
