package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"game_market_back_end/internal/models"
)

type CartStore struct {
	col *mongo.Collection
}

func (s *CartStore) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save remplace les items du panier, en le créant au premier ajout.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.col.UpdateOne(ctx,
		bson.M{"userId": cart.UserID},
		bson.M{"$set": bson.M{"items": cart.Items}},
		opts)
	return err
}

// Empty vide le panier sans le supprimer (un panier par utilisateur, toujours).
func (s *CartStore) Empty(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}}})
	return err
}
