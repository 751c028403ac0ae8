package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"game_market_back_end/internal/models"
)

type ResetPasswordStore struct {
	col *mongo.Collection
}

// Upsert pose ou remplace la demande de réinitialisation d'un utilisateur
// (une seule demande active par compte).
func (s *ResetPasswordStore) Upsert(ctx context.Context, userID primitive.ObjectID, token string, expires time.Time) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.col.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{"$set": bson.M{
			"resetPasswordToken":   token,
			"resetPasswordExpires": expires,
		}},
		opts)
	return err
}

func (s *ResetPasswordStore) FindByToken(ctx context.Context, token string) (*models.ResetPassword, error) {
	var reset models.ResetPassword
	err := s.col.FindOne(ctx, bson.M{"resetPasswordToken": token}).Decode(&reset)
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (s *ResetPasswordStore) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.ResetPassword, error) {
	var reset models.ResetPassword
	err := s.col.FindOne(ctx, bson.M{"user": userID}).Decode(&reset)
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

// Delete retire la demande une fois le mot de passe changé.
func (s *ResetPasswordStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
