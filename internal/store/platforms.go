package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"game_market_back_end/internal/models"
)

// PlatformStore gère la table de référence des plateformes (consoles),
// chargée par les fixtures et référencée par les variants.
type PlatformStore struct {
	col *mongo.Collection
}

func (s *PlatformStore) List(ctx context.Context) ([]models.Platform, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var platforms []models.Platform
	if err := cursor.All(ctx, &platforms); err != nil {
		return nil, err
	}
	return platforms, nil
}

func (s *PlatformStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Platform, error) {
	var platform models.Platform
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&platform)
	if err != nil {
		return nil, err
	}
	return &platform, nil
}

// NamesByID retourne la table id → nom pour résoudre les plateformes des variants.
func (s *PlatformStore) NamesByID(ctx context.Context) (map[primitive.ObjectID]string, error) {
	platforms, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(platforms))
	for _, p := range platforms {
		names[p.ID] = p.Name
	}
	return names, nil
}

// Seed insère les plateformes de référence si la collection est vide.
func (s *PlatformStore) Seed(ctx context.Context, names []string) error {
	count, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil || count > 0 {
		return err
	}

	docs := make([]interface{}, 0, len(names))
	for _, name := range names {
		docs = append(docs, models.Platform{ID: primitive.NewObjectID(), Name: name})
	}
	_, err = s.col.InsertMany(ctx, docs)
	return err
}
