package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sahilvr03/kido-store/internal/models"
)

func TestMergeCartItemsExisting(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: p1, Quantity: 2},
		{ProductID: p2, Quantity: 1},
	}

	merged := mergeCartItems(items, p1, 3)

	// Jamais de doublon : la quantité s'accumule sur la ligne existante
	require.Len(t, merged, 2)
	assert.Equal(t, 5, merged[0].Quantity)
	assert.Equal(t, 1, merged[1].Quantity)

	// La liste d'origine n'est pas modifiée
	assert.Equal(t, 2, items[0].Quantity)
}

func TestMergeCartItemsNew(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	items := []models.CartItem{{ProductID: p1, Quantity: 1}}

	merged := mergeCartItems(items, p2, 4)

	require.Len(t, merged, 2)
	assert.Equal(t, p2, merged[1].ProductID)
	assert.Equal(t, 4, merged[1].Quantity)
}

func TestMergeCartItemsEmpty(t *testing.T) {
	p := primitive.NewObjectID()
	merged := mergeCartItems(nil, p, 1)
	require.Len(t, merged, 1)
	assert.Equal(t, p, merged[0].ProductID)
}

func TestRemoveCartItem(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: p1, Quantity: 2},
		{ProductID: p2, Quantity: 1},
	}

	remaining := removeCartItem(items, p1)
	require.Len(t, remaining, 1)
	assert.Equal(t, p2, remaining[0].ProductID)
}

func TestRemoveCartItemAbsent(t *testing.T) {
	p1 := primitive.NewObjectID()
	items := []models.CartItem{{ProductID: p1, Quantity: 2}}

	// Retirer un produit absent est un no-op
	remaining := removeCartItem(items, primitive.NewObjectID())
	assert.Equal(t, items, remaining)
}

func TestPruneCartItemsDropsVanishedProducts(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: p1, Quantity: 1},
		{ProductID: p2, Quantity: 3},
	}

	lookup := func(id primitive.ObjectID) (models.Product, error) {
		if id == p1 {
			return models.Product{ID: p1, Title: "Puzzle", Price: 9.99, ImageURL: "/puzzle.jpg"}, nil
		}
		return models.Product{}, mongo.ErrNoDocuments
	}

	kept, views := pruneCartItems(items, lookup)

	// La ligne dont le produit a disparu est élaguée, pas remplacée
	require.Len(t, kept, 1)
	assert.Equal(t, p1, kept[0].ProductID)
	require.Len(t, views, 1)
	assert.Equal(t, "Puzzle", views[0].Product.Title)
	assert.Equal(t, 1, views[0].Quantity)
}

func TestPruneCartItemsKeepsLinesOnTransientError(t *testing.T) {
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	items := []models.CartItem{
		{ProductID: p1, Quantity: 2},
		{ProductID: p2, Quantity: 1},
	}

	lookup := func(id primitive.ObjectID) (models.Product, error) {
		if id == p1 {
			return models.Product{ID: p1, Title: "Peluche", Price: 14.5}, nil
		}
		return models.Product{}, errors.New("connexion perdue")
	}

	kept, views := pruneCartItems(items, lookup)

	// Une erreur de lecture transitoire ne doit jamais faire perdre une ligne
	require.Len(t, kept, 2)
	assert.Equal(t, p2, kept[1].ProductID)
	require.Len(t, views, 2)
	assert.Equal(t, "Unknown Product", views[1].Product.Title)
	assert.Equal(t, p2.Hex(), views[1].Product.ID)
}

func TestPruneCartItemsStable(t *testing.T) {
	p1 := primitive.NewObjectID()
	items := []models.CartItem{{ProductID: p1, Quantity: 1}}

	lookup := func(id primitive.ObjectID) (models.Product, error) {
		return models.Product{ID: id, Title: "Ballon", Price: 5}, nil
	}

	// Deux passes consécutives rendent exactement la même liste
	kept, _ := pruneCartItems(items, lookup)
	again, views := pruneCartItems(kept, lookup)
	assert.Equal(t, kept, again)
	require.Len(t, views, 1)
	assert.Equal(t, "Ballon", views[0].Product.Title)
}

func TestProductSummaryPlaceholderImage(t *testing.T) {
	p := models.Product{ID: primitive.NewObjectID(), Title: "Puzzle", Price: 9.99}

	summary := productSummary(p)
	assert.Equal(t, models.PlaceholderImage, summary.ImageURL)
	assert.Equal(t, "Puzzle", summary.Title)

	p.ImageURL = "/puzzle.jpg"
	assert.Equal(t, "/puzzle.jpg", productSummary(p).ImageURL)
}
