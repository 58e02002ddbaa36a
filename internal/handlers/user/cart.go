package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sahilvr03/kido-store/internal/database"
	"github.com/sahilvr03/kido-store/internal/middleware"
	"github.com/sahilvr03/kido-store/internal/models"
)

const dbTimeout = 10 * time.Second

type cartAddInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type cartRemoveInput struct {
	ProductID string `json:"productId"`
}

// GET /api/cart
//
// Chaque ligne est résolue contre le catalogue : les lignes dont le produit
// a disparu sont supprimées silencieusement, et l'élagage est persisté.
func GetCart(db *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.CurrentIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"items": []models.CartItemView{}})
			return
		}

		userOID, err := primitive.ObjectIDFromHex(ident.ID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"items": []models.CartItemView{}})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		var cart models.Cart
		err = db.Carts().FindOne(ctx, bson.M{"userId": userOID}).Decode(&cart)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusOK, gin.H{"items": []models.CartItemView{}})
				return
			}
			log.Println("❌ Erreur MongoDB FindOne panier:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"items": []models.CartItemView{}, "message": "Failed to fetch cart"})
			return
		}

		kept, views := pruneCartItems(cart.Items, func(id primitive.ObjectID) (models.Product, error) {
			var product models.Product
			err := db.Products().FindOne(ctx, bson.M{"_id": id}).Decode(&product)
			return product, err
		})

		// Persiste l'élagage pour que deux lectures consécutives soient stables
		if len(kept) < len(cart.Items) {
			_, err := db.Carts().UpdateOne(ctx,
				bson.M{"userId": userOID},
				bson.M{"$set": bson.M{"items": kept, "updatedAt": time.Now()}},
			)
			if err != nil {
				log.Printf("⚠️ Erreur persistance élagage panier de %s: %v", ident.ID, err)
			} else {
				log.Printf("🧹 %d ligne(s) invalide(s) retirée(s) du panier de %s", len(cart.Items)-len(kept), ident.ID)
			}
		}

		c.JSON(http.StatusOK, gin.H{"items": views})
	}
}

// POST /api/cart
func AddToCart(db *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.CurrentIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		userOID, err := primitive.ObjectIDFromHex(ident.ID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		var input cartAddInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product or quantity"})
			return
		}
		if input.ProductID == "" || input.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product or quantity"})
			return
		}

		productOID, err := primitive.ObjectIDFromHex(input.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid productId format"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		if err := db.Products().FindOne(ctx, bson.M{"_id": productOID}).Err(); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
				return
			}
			log.Println("❌ Erreur MongoDB FindOne produit:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
			return
		}

		now := time.Now()

		var cart models.Cart
		err = db.Carts().FindOne(ctx, bson.M{"userId": userOID}).Decode(&cart)
		if err != nil {
			if err != mongo.ErrNoDocuments {
				log.Println("❌ Erreur MongoDB FindOne panier:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
				return
			}
			// Création paresseuse au premier ajout
			_, err = db.Carts().InsertOne(ctx, models.Cart{
				UserID:    userOID,
				Items:     []models.CartItem{{ProductID: productOID, Quantity: input.Quantity}},
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				log.Println("❌ Erreur création panier:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Added to cart successfully"})
			return
		}

		updatedItems := mergeCartItems(cart.Items, productOID, input.Quantity)
		_, err = db.Carts().UpdateOne(ctx,
			bson.M{"userId": userOID},
			bson.M{"$set": bson.M{"items": updatedItems, "updatedAt": now}},
		)
		if err != nil {
			log.Println("❌ Erreur mise à jour panier:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Added to cart successfully"})
	}
}

// DELETE /api/cart
//
// Contrairement à la lecture, les lignes restantes dont le produit a disparu
// sont rendues avec un placeholder "Unknown Product" au lieu d'être élaguées
// (comportement documenté du chemin de retrait).
func RemoveFromCart(db *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.CurrentIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"items": []models.CartItemView{}, "message": "Unauthorized"})
			return
		}

		userOID, err := primitive.ObjectIDFromHex(ident.ID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"items": []models.CartItemView{}, "message": "Unauthorized"})
			return
		}

		var input cartRemoveInput
		if err := c.ShouldBindJSON(&input); err != nil || input.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "ProductId is required"})
			return
		}

		productOID, err := primitive.ObjectIDFromHex(input.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid productId format"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		var cart models.Cart
		err = db.Carts().FindOne(ctx, bson.M{"userId": userOID}).Decode(&cart)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				// Pas de panier : ce n'est pas une erreur
				c.JSON(http.StatusOK, gin.H{"items": []models.CartItemView{}, "message": "Cart is empty"})
				return
			}
			log.Println("❌ Erreur MongoDB FindOne panier:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove item", "items": []models.CartItemView{}})
			return
		}

		updatedItems := removeCartItem(cart.Items, productOID)
		_, err = db.Carts().UpdateOne(ctx,
			bson.M{"userId": userOID},
			bson.M{"$set": bson.M{"items": updatedItems, "updatedAt": time.Now()}},
		)
		if err != nil {
			log.Println("❌ Erreur mise à jour panier:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove item", "items": []models.CartItemView{}})
			return
		}

		views := []models.CartItemView{}
		for _, item := range updatedItems {
			var product models.Product
			err := db.Products().FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product)
			view := models.CartItemView{ProductID: item.ProductID.Hex(), Quantity: item.Quantity}
			if err != nil {
				view.Product = models.UnknownProductSummary(item.ProductID.Hex())
			} else {
				view.Product = productSummary(product)
			}
			views = append(views, view)
		}

		log.Printf("🛒 Ligne %s retirée du panier de %s", input.ProductID, ident.ID)
		c.JSON(http.StatusOK, gin.H{"items": views, "message": "Item removed successfully"})
	}
}

// pruneCartItems résout chaque ligne contre le catalogue. Un produit disparu
// élague la ligne ; une erreur de lecture transitoire la conserve avec un
// placeholder plutôt que de la perdre définitivement.
func pruneCartItems(items []models.CartItem, lookup func(primitive.ObjectID) (models.Product, error)) ([]models.CartItem, []models.CartItemView) {
	kept := []models.CartItem{}
	views := []models.CartItemView{}
	for _, item := range items {
		view := models.CartItemView{ProductID: item.ProductID.Hex(), Quantity: item.Quantity}

		product, err := lookup(item.ProductID)
		switch {
		case err == nil:
			view.Product = productSummary(product)
		case err == mongo.ErrNoDocuments:
			continue // produit disparu : la ligne est élaguée
		default:
			log.Printf("⚠️ Erreur résolution produit %s: %v", item.ProductID.Hex(), err)
			view.Product = models.UnknownProductSummary(item.ProductID.Hex())
		}

		kept = append(kept, item)
		views = append(views, view)
	}
	return kept, views
}

// mergeCartItems fusionne un ajout dans la liste : une ligne existante voit
// sa quantité incrémentée (jamais de doublon de productId)
func mergeCartItems(items []models.CartItem, productID primitive.ObjectID, quantity int) []models.CartItem {
	merged := make([]models.CartItem, len(items))
	copy(merged, items)

	for i := range merged {
		if merged[i].ProductID == productID {
			merged[i].Quantity += quantity
			return merged
		}
	}
	return append(merged, models.CartItem{ProductID: productID, Quantity: quantity})
}

// removeCartItem retire la ligne correspondante, no-op si elle n'existe pas
func removeCartItem(items []models.CartItem, productID primitive.ObjectID) []models.CartItem {
	remaining := []models.CartItem{}
	for _, item := range items {
		if item.ProductID != productID {
			remaining = append(remaining, item)
		}
	}
	return remaining
}

func productSummary(p models.Product) models.ProductSummary {
	imageURL := p.ImageURL
	if imageURL == "" {
		imageURL = models.PlaceholderImage
	}
	return models.ProductSummary{
		ID:       p.ID.Hex(),
		Title:    p.Title,
		Price:    p.Price,
		ImageURL: imageURL,
	}
}
