package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"game_market_back_end/internal/models"
)

type UserStore struct {
	col *mongo.Collection
}

// ErrNotFound est renvoyée telle quelle par le driver ; on la réexporte pour
// que les handlers n'importent pas mongo directement.
var ErrNotFound = mongo.ErrNoDocuments

func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, user)
	return err
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByToken résout un token opaque vers son utilisateur. Seuls les comptes
// vérifiés peuvent s'authentifier.
func (s *UserStore) FindByToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"token": token, "isVerified": true}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"confirmationToken": token}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetConfirmation pose un nouveau token de confirmation valable 24h.
func (s *UserStore) SetConfirmation(ctx context.Context, userID primitive.ObjectID, token string, expires time.Time) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"confirmationToken":        token,
			"confirmationTokenExpires": expires,
		},
	})
	return err
}

// MarkVerified active le compte et efface le token de confirmation.
func (s *UserStore) MarkVerified(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set":   bson.M{"isVerified": true},
		"$unset": bson.M{"confirmationToken": "", "confirmationTokenExpires": ""},
	})
	return err
}

func (s *UserStore) UpdateHash(ctx context.Context, userID primitive.ObjectID, hash string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"hash": hash}})
	return err
}

func (s *UserStore) UpdateAddress(ctx context.Context, userID primitive.ObjectID, address models.Address) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"address": address}})
	return err
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update modifie les champs de profil éditables par un admin.
func (s *UserStore) Update(ctx context.Context, userID primitive.ObjectID, fields bson.M) (*models.User, error) {
	res := s.col.FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": fields})
	var user models.User
	if err := res.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Delete(ctx context.Context, userID primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

// SignupCounts groupe les inscriptions par période ($dateToString) depuis une
// date de départ. Les trous sont comblés côté handler.
func (s *UserStore) SignupCounts(ctx context.Context, since time.Time, dateFormat string) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": dateFormat, "date": "$createdAt"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID    string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}
