package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sahilvr03/kido-store/internal/database"
	"github.com/sahilvr03/kido-store/internal/handlers/product"
	"github.com/sahilvr03/kido-store/internal/handlers/user"
	"github.com/sahilvr03/kido-store/internal/middleware"
	"github.com/sahilvr03/kido-store/internal/notify"
)

// Register branche toutes les routes sous /api. L'identité est résolue en
// amont par AuthOptional, chaque handler applique ensuite sa propre règle
// d'accès (les réponses 401 diffèrent selon la route).
func Register(r *gin.Engine, db *database.Store, notifier *notify.Client) {
	api := r.Group("/api")
	api.Use(middleware.AuthOptional())
	api.Use(middleware.RateLimit("api", middleware.APIMaxRequests))

	// Catalogue
	api.GET("/products", product.ListProducts(db))
	api.POST("/products", product.CreateProduct(db))
	api.GET("/product/:id", product.GetProduct(db))
	api.PUT("/product/:id", product.UpdateProduct(db))
	api.DELETE("/product/:id", product.DeleteProduct(db))
	api.GET("/categories", product.ListCategories(db))

	// Panier
	api.GET("/cart", user.GetCart(db))
	api.POST("/cart", user.AddToCart(db))
	api.DELETE("/cart", user.RemoveFromCart(db))

	// Commandes
	api.GET("/orders", user.ListOrders(db))
	api.POST("/orders", middleware.RateLimit("orders", middleware.OrderMaxRequests), user.CreateOrder(db, notifier))
	api.PUT("/orders", user.UpdateOrderStatus(db, notifier))
}
