package cache

import (
	"encoding/json"
	"log"
	"time"

	"github.com/sahilvr03/kido-store/internal/models"
)

const (
	ProductCacheTTL = 10 * time.Minute

	// Seule la liste complète (sans filtre) est mise en cache, comme elle
	// alimente la page d'accueil à chaque visite
	productListKey = "products:all"
)

// GetProductList récupère la liste complète des produits depuis Redis
func GetProductList() ([]models.Product, bool) {
	if RedisClient == nil {
		return nil, false
	}

	data, err := RedisClient.Get(ctx, productListKey).Result()
	if err != nil || data == "" {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetProductList met la liste complète des produits en cache
func SetProductList(products []models.Product) {
	if RedisClient == nil {
		return
	}

	jsonData, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := RedisClient.Set(ctx, productListKey, jsonData, ProductCacheTTL).Err(); err != nil {
		log.Printf("⚠️ Erreur écriture cache produits: %v", err)
	}
}

// InvalidateProducts invalide le cache catalogue après toute écriture
func InvalidateProducts() {
	if RedisClient == nil {
		return
	}
	if err := RedisClient.Del(ctx, productListKey).Err(); err != nil {
		log.Printf("⚠️ Erreur invalidation cache produits: %v", err)
	}
}
