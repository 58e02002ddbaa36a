package product

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sahilvr03/kido-store/internal/cache"
	"github.com/sahilvr03/kido-store/internal/database"
	"github.com/sahilvr03/kido-store/internal/middleware"
	"github.com/sahilvr03/kido-store/internal/models"
)

const dbTimeout = 10 * time.Second

// GET /api/products?type=&category=&user=
func ListProducts(db *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.CurrentIdentity(c)

		ptype := c.Query("type")
		category := c.Query("category")
		isUserView := c.Query("user") == "true"

		query := bson.M{}
		if ptype != "" {
			query["type"] = ptype
		}
		if category != "" {
			query["category"] = category
		}
		// Le filtre par propriétaire n'est appliqué que pour le tableau de
		// bord vendeur, jamais pour un admin
		if isUserView && ident != nil && !ident.IsAdmin() {
			oid, err := primitive.ObjectIDFromHex(ident.ID)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			query["userId"] = oid
		}

		// La liste complète anonyme est servie depuis Redis quand il est là
		cacheable := len(query) == 0
		if cacheable {
			if cached, ok := cache.GetProductList(); ok {
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		cursor, err := db.Products().Find(ctx, query)
		if err != nil {
			log.Println("❌ Erreur MongoDB Find produits:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		defer cursor.Close(ctx)

		products := []models.Product{}
		if err := cursor.All(ctx, &products); err != nil {
			log.Println("❌ Erreur décodage produits:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if cacheable {
			cache.SetProductList(products)
		}

		c.JSON(http.StatusOK, products)
	}
}

// GET /api/product/:id
func GetProduct(db *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		var product models.Product
		if err := db.Products().FindOne(ctx, bson.M{"_id": oid}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			log.Println("❌ Erreur MongoDB FindOne produit:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// POST /api/products
func CreateProduct(db *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.CurrentIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
			return
		}

		if msg := validateProductInput(input); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		now := time.Now()
		product := models.Product{
			Title:         input.Title,
			Description:   input.Description,
			Price:         input.Price,
			OriginalPrice: input.OriginalPrice,
			Discount:      input.Discount,
			Type:          input.Type,
			EndDate:       input.EndDate,
			Category:      input.Category,
			ImageURL:      input.ImageURL,
			Images:        input.Images,
			Colors:        input.Colors,
			Brand:         input.Brand,
			Weight:        input.Weight,
			InStock:       input.InStock,
			Stock:         input.Stock,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		// Un produit créé par un admin est un produit maison (sans propriétaire)
		if !ident.IsAdmin() {
			oid, err := primitive.ObjectIDFromHex(ident.ID)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			product.UserID = &oid
		}

		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		result, err := db.Products().InsertOne(ctx, product)
		if err != nil {
			log.Println("❌ Erreur création produit:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		product.ID = result.InsertedID.(primitive.ObjectID)

		cache.InvalidateProducts()

		c.JSON(http.StatusCreated, product)
	}
}

// PUT /api/product/:id
func UpdateProduct(db *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.CurrentIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input ProductUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		var existing models.Product
		if err := db.Products().FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			log.Println("❌ Erreur MongoDB FindOne produit:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !canModifyProduct(ident.Role, ident.ID, existing) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized to update this product"})
			return
		}

		if msg := validateProductUpdate(input); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		update := buildUpdateSet(input)
		// Une mise à jour admin rend le produit maison ; un vendeur conserve
		// la propriété existante (lui-même par défaut)
		if ident.IsAdmin() {
			update["userId"] = nil
		} else if existing.UserID != nil {
			update["userId"] = *existing.UserID
		} else {
			requester, err := primitive.ObjectIDFromHex(ident.ID)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			update["userId"] = requester
		}
		update["updatedAt"] = time.Now()

		if _, err := db.Products().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update}); err != nil {
			log.Println("❌ Erreur mise à jour produit:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		var updated models.Product
		if err := db.Products().FindOne(ctx, bson.M{"_id": oid}).Decode(&updated); err != nil {
			log.Println("❌ Erreur relecture produit:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		cache.InvalidateProducts()

		c.JSON(http.StatusOK, updated)
	}
}

// DELETE /api/product/:id
func DeleteProduct(db *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.CurrentIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id := c.Param("id")
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		var existing models.Product
		if err := db.Products().FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			log.Println("❌ Erreur MongoDB FindOne produit:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if !canModifyProduct(ident.Role, ident.ID, existing) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized to delete this product"})
			return
		}

		result, err := db.Products().DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			log.Println("❌ Erreur suppression produit:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		// Nettoyage en cascade des flash sales rattachées : best-effort, non
		// transactionnel avec la suppression du produit
		if _, err := db.FlashSales().DeleteMany(ctx, bson.M{"productId": id}); err != nil {
			log.Printf("⚠️ Erreur nettoyage flash sales du produit %s: %v", id, err)
		}

		cache.InvalidateProducts()

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

func buildUpdateSet(in ProductUpdateInput) bson.M {
	update := bson.M{}
	if in.Title != nil {
		update["title"] = *in.Title
	}
	if in.Description != nil {
		update["description"] = *in.Description
	}
	if in.Price != nil {
		update["price"] = *in.Price
	}
	if in.OriginalPrice != nil {
		update["originalPrice"] = *in.OriginalPrice
	}
	if in.Discount != nil {
		update["discount"] = *in.Discount
	}
	if in.Type != nil {
		update["type"] = *in.Type
	}
	if in.EndDate != nil {
		update["endDate"] = *in.EndDate
	}
	if in.Category != nil {
		update["category"] = *in.Category
	}
	if in.ImageURL != nil {
		update["imageUrl"] = *in.ImageURL
	}
	if in.Images != nil {
		update["images"] = *in.Images
	}
	if in.Colors != nil {
		update["colors"] = *in.Colors
	}
	if in.Brand != nil {
		update["brand"] = *in.Brand
	}
	if in.Weight != nil {
		update["weight"] = *in.Weight
	}
	if in.InStock != nil {
		update["inStock"] = *in.InStock
	}
	if in.Stock != nil {
		update["stock"] = *in.Stock
	}
	return update
}
