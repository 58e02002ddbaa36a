package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sahilvr03/kido-store/internal/cache"
	"github.com/sahilvr03/kido-store/internal/config"
	"github.com/sahilvr03/kido-store/internal/database"
	"github.com/sahilvr03/kido-store/internal/notify"
	"github.com/sahilvr03/kido-store/internal/routes"
)

func main() {
	config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	uri := config.Getenv("MONGODB_URI", "mongodb://localhost:27017")
	dbName := config.Getenv("MONGODB_DB", "kiddo-store")

	db, err := database.Connect(ctx, uri, dbName)
	if err != nil {
		log.Fatal("❌ Connexion MongoDB impossible:", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := db.Close(shutdownCtx); err != nil {
			log.Println("⚠️ Erreur fermeture MongoDB:", err)
		}
	}()

	// Redis est optionnel : sans lui, pas de cache produits ni de rate limit
	if err := cache.InitRedis(); err != nil {
		log.Println("⚠️ Redis indisponible, cache et rate limit désactivés:", err)
	}
	defer cache.CloseRedis()

	notifier := notify.NewClientFromEnv()
	if !notifier.Enabled() {
		log.Println("⚠️ OneSignal non configuré, notifications push désactivées")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.Getenv("FRONTEND_URL", "http://localhost:3000")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, db, notifier)

	port := config.Getenv("PORT", "8080")
	log.Printf("🚀 Serveur démarré sur le port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Erreur serveur:", err)
	}
}
