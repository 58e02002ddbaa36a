package user

import (
	"context"
	"fmt"
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
	"github.com/sahilvr03/kido-store/internal/notify"
	"github.com/sahilvr03/kido-store/internal/utils"
)

type orderLineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// createOrderRequest accepte soit un panier multi-lignes, soit le raccourci
// "buy now" mono-produit, normalisé en liste d'une ligne
type createOrderRequest struct {
	Items           []orderLineInput        `json:"items"`
	ProductID       string                  `json:"productId"`
	Quantity        int                     `json:"quantity"`
	PaymentMethod   string                  `json:"paymentMethod"`
	ShippingDetails *models.ShippingDetails `json:"shippingDetails"`
	// Un éventuel statut fourni par le client est ignoré : une commande
	// démarre toujours en "pending"
	Status string `json:"status"`
}

type updateOrderStatusRequest struct {
	OrderIDs []string `json:"orderIds"`
	Status   string   `json:"status"`
	Reason   string   `json:"reason"`
}

// POST /api/orders
func CreateOrder(db *database.Store, notifier *notify.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.CurrentIdentity(c)
		if ident == nil || ident.Role != models.RoleUser {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: Invalid user role or token"})
			return
		}

		userOID, err := primitive.ObjectIDFromHex(ident.ID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: Invalid user role or token"})
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON body"})
			return
		}

		if req.PaymentMethod == "" || req.ShippingDetails == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields: paymentMethod or shippingDetails"})
			return
		}

		items, errMsg := normalizeOrderItems(req)
		if errMsg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": errMsg})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		// Tout ou rien : la moindre ligne sans stock suffisant fait échouer
		// la commande entière, aucun document n'est écrit
		for _, item := range items {
			var product models.Product
			err := db.Products().FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product)
			if err != nil {
				if err == mongo.ErrNoDocuments {
					c.JSON(http.StatusBadRequest, gin.H{"message": "One or more products not found"})
					return
				}
				log.Println("❌ Erreur MongoDB FindOne produit:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
				return
			}
			if ok, msg := checkStock(product, item.Quantity); !ok {
				c.JSON(http.StatusBadRequest, gin.H{"message": msg})
				return
			}
		}

		// NOTE: le stock est vérifié mais jamais décrémenté, la gestion
		// d'inventaire se fait hors ligne
		now := time.Now()
		order := models.Order{
			UserID:          userOID,
			Items:           items,
			PaymentMethod:   req.PaymentMethod,
			ShippingDetails: *req.ShippingDetails,
			Status:          models.OrderStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		result, err := db.Orders().InsertOne(ctx, order)
		if err != nil {
			log.Println("❌ Erreur création commande:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
			return
		}
		orderID := result.InsertedID.(primitive.ObjectID).Hex()

		// Notification best-effort après le commit, jamais jointe à la réponse
		if ident.Email != "" {
			go notifier.NotifyOrderStatus(ident.Email, orderID, "placed", "")
		}

		log.Printf("✅ Commande %s créée pour l'utilisateur %s", orderID, ident.ID)
		c.JSON(http.StatusCreated, gin.H{
			"message": "Order placed successfully",
			"orderId": orderID,
		})
	}
}

// GET /api/orders
func ListOrders(db *database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.CurrentIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
		defer cancel()

		var orders []models.Order
		if ident.IsAdmin() {
			// L'admin voit toutes les commandes, enrichies de l'acheteur
			pipeline := mongo.Pipeline{
				{{Key: "$lookup", Value: bson.M{
					"from":         "users",
					"localField":   "userId",
					"foreignField": "_id",
					"as":           "userDetails",
				}}},
				{{Key: "$unwind", Value: bson.M{
					"path":                       "$userDetails",
					"preserveNullAndEmptyArrays": true,
				}}},
				{{Key: "$project", Value: bson.M{
					"userId":             1,
					"items":              1,
					"paymentMethod":      1,
					"shippingDetails":    1,
					"status":             1,
					"cancellationReason": 1,
					"createdAt":          1,
					"updatedAt":          1,
					"userDetails": bson.M{
						"name":  "$userDetails.name",
						"email": "$userDetails.email",
					},
				}}},
			}
			cursor, err := db.Orders().Aggregate(ctx, pipeline)
			if err != nil {
				log.Println("❌ Erreur MongoDB Aggregate commandes:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
				return
			}
			defer cursor.Close(ctx)
			if err := cursor.All(ctx, &orders); err != nil {
				log.Println("❌ Erreur décodage commandes:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
				return
			}
		} else {
			userOID, err := primitive.ObjectIDFromHex(ident.ID)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
				return
			}
			cursor, err := db.Orders().Find(ctx, bson.M{"userId": userOID})
			if err != nil {
				log.Println("❌ Erreur MongoDB Find commandes:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
				return
			}
			defer cursor.Close(ctx)
			if err := cursor.All(ctx, &orders); err != nil {
				log.Println("❌ Erreur décodage commandes:", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
				return
			}
		}

		views := make([]models.OrderView, 0, len(orders))
		for _, order := range orders {
			views = append(views, serializeOrder(ctx, db, order, ident.IsAdmin()))
		}

		c.JSON(http.StatusOK, views)
	}
}

// PUT /api/orders
func UpdateOrderStatus(db *database.Store, notifier *notify.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := middleware.CurrentIdentity(c)
		if ident == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON body"})
			return
		}

		// Validations globales, avant la boucle
		if len(req.OrderIDs) == 0 || req.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing orderIds or status"})
			return
		}
		if !models.IsValidOrderStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		update := statusUpdateDoc(req.Status, req.Reason, time.Now())

		// Chaque identifiant est traité indépendamment : un échec individuel
		// ne fait jamais échouer le lot
		results := []models.OrderStatusResult{}
		for _, orderIDStr := range req.OrderIDs {
			orderOID, err := primitive.ObjectIDFromHex(orderIDStr)
			if err != nil {
				results = append(results, models.OrderStatusResult{OrderID: orderIDStr, Success: false, Message: "Invalid orderId format"})
				continue
			}

			var order models.Order
			err = db.Orders().FindOne(ctx, bson.M{"_id": orderOID}).Decode(&order)
			if err != nil {
				results = append(results, models.OrderStatusResult{OrderID: orderIDStr, Success: false, Message: "Order not found"})
				continue
			}

			if ok, msg := statusUpdateCheck(ident.Role, ident.ID, order, req.Status, req.Reason); !ok {
				results = append(results, models.OrderStatusResult{OrderID: orderIDStr, Success: false, Message: msg})
				continue
			}

			updateResult, err := db.Orders().UpdateOne(ctx, bson.M{"_id": orderOID}, update)
			if err != nil {
				log.Printf("❌ Erreur mise à jour commande %s: %v", orderIDStr, err)
				results = append(results, models.OrderStatusResult{OrderID: orderIDStr, Success: false, Message: "Failed to update order"})
				continue
			}

			success := updateResult.MatchedCount > 0
			message := "Order not found"
			if success {
				message = "Order updated successfully"
			}

			// Sur succès admin : push + email best-effort vers l'acheteur
			if success && ident.IsAdmin() {
				var owner models.User
				if err := db.Users().FindOne(ctx, bson.M{"_id": order.UserID}).Decode(&owner); err == nil && owner.Email != "" {
					go notifier.NotifyOrderStatus(owner.Email, orderIDStr, req.Status, req.Reason)
					go utils.SendOrderStatusEmail(owner.Email, orderIDStr, req.Status, req.Reason)
				}
			}

			results = append(results, models.OrderStatusResult{OrderID: orderIDStr, Success: success, Message: message})
		}

		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

// normalizeOrderItems valide le payload et le ramène à une liste de lignes.
// Les lignes malformées d'un payload panier sont écartées silencieusement ;
// zéro ligne valide est une erreur.
func normalizeOrderItems(req createOrderRequest) ([]models.OrderItem, string) {
	valid := []models.OrderItem{}

	if len(req.Items) > 0 {
		for _, line := range req.Items {
			if line.ProductID == "" || line.Quantity < 1 {
				log.Printf("⚠️ Ligne de commande invalide ignorée: %+v", line)
				continue
			}
			oid, err := primitive.ObjectIDFromHex(line.ProductID)
			if err != nil {
				log.Printf("⚠️ ObjectId invalide ignoré: %s", line.ProductID)
				continue
			}
			valid = append(valid, models.OrderItem{ProductID: oid, Quantity: line.Quantity})
		}
	} else if req.ProductID != "" && req.Quantity >= 1 {
		// Raccourci "buy now" mono-produit
		oid, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			return nil, "Invalid productId: Not a valid ObjectId"
		}
		valid = append(valid, models.OrderItem{ProductID: oid, Quantity: req.Quantity})
	}

	if len(valid) == 0 {
		return nil, "No valid items in order"
	}
	return valid, ""
}

// checkStock vérifie qu'une ligne est servable : produit en stock et quantité
// demandée couverte par le stock restant
func checkStock(product models.Product, quantity int) (bool, string) {
	if !product.InStock || product.Stock < quantity {
		return false, fmt.Sprintf("Insufficient stock for product %s", product.Title)
	}
	return true, ""
}

// statusUpdateDoc construit le document de mise à jour du statut. Quitter
// "cancelled" efface la raison d'annulation : ce champ n'existe que sur une
// commande annulée.
func statusUpdateDoc(status, reason string, now time.Time) bson.M {
	set := bson.M{"status": status, "updatedAt": now}
	if status != models.OrderStatusCancelled {
		return bson.M{"$set": set, "$unset": bson.M{"cancellationReason": ""}}
	}
	if reason != "" {
		set["cancellationReason"] = reason
	}
	return bson.M{"$set": set}
}

// statusUpdateCheck applique les règles de transition : un admin fait ce
// qu'il veut, un utilisateur ne peut qu'annuler ses propres commandes encore
// pending, avec une raison obligatoire
func statusUpdateCheck(role, userID string, order models.Order, newStatus, reason string) (bool, string) {
	if role != models.RoleAdmin && order.UserID.Hex() != userID {
		return false, "Unauthorized to update this order"
	}
	if role != models.RoleAdmin && newStatus != models.OrderStatusCancelled {
		return false, "Users can only cancel orders"
	}
	if role != models.RoleAdmin && order.Status != models.OrderStatusPending {
		return false, "Only pending orders can be cancelled by users"
	}
	if newStatus == models.OrderStatusCancelled && reason == "" && role != models.RoleAdmin {
		return false, "Reason required for cancellation"
	}
	return true, ""
}

// serializeOrder résout chaque ligne en live contre le catalogue. Un produit
// disparu est rendu en placeholder "Unknown Product" : une commande ne perd
// jamais de lignes, elle les dégrade.
func serializeOrder(ctx context.Context, db *database.Store, order models.Order, includeUser bool) models.OrderView {
	items := []models.OrderItemView{}
	for _, item := range order.Items {
		view := models.OrderItemView{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
		}
		var product models.Product
		if err := db.Products().FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product); err != nil {
			view.Product = models.ProductSummary{Title: "Unknown Product", Price: 0, ImageURL: models.PlaceholderImage}
		} else {
			imageURL := product.ImageURL
			if imageURL == "" {
				imageURL = models.PlaceholderImage
			}
			view.Product = models.ProductSummary{Title: product.Title, Price: product.Price, ImageURL: imageURL}
		}
		items = append(items, view)
	}

	v := models.OrderView{
		ID:                 order.ID.Hex(),
		UserID:             order.UserID.Hex(),
		Items:              items,
		PaymentMethod:      order.PaymentMethod,
		ShippingDetails:    order.ShippingDetails,
		Status:             order.Status,
		CancellationReason: order.CancellationReason,
		CreatedAt:          order.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		UpdatedAt:          order.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	if includeUser {
		v.UserDetails = order.UserDetails
	}
	return v
}
