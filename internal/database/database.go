package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store encapsule la connexion MongoDB. Le handle est construit explicitement
// au démarrage et injecté dans les handlers : pas de singleton de package.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect ouvre le pool de connexions MongoDB et vérifie la liaison par un ping
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connexion MongoDB impossible: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB échoué: %w", err)
	}

	log.Println("✅ Connecté à MongoDB :", dbName)

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		// Non bloquant : l'index existe probablement déjà
		log.Printf("⚠️ Création des index MongoDB: %v", err)
	}
	return s, nil
}

// Close ferme proprement le pool de connexions
func (s *Store) Close(ctx context.Context) error {
	log.Println("🔌 Fermeture de la connexion MongoDB")
	return s.client.Disconnect(ctx)
}

// Un seul panier par utilisateur
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.Carts().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) Products() *mongo.Collection   { return s.db.Collection("products") }
func (s *Store) Carts() *mongo.Collection      { return s.db.Collection("carts") }
func (s *Store) Orders() *mongo.Collection     { return s.db.Collection("orders") }
func (s *Store) Users() *mongo.Collection      { return s.db.Collection("users") }
func (s *Store) Categories() *mongo.Collection { return s.db.Collection("categories") }
func (s *Store) FlashSales() *mongo.Collection { return s.db.Collection("flashSales") }
