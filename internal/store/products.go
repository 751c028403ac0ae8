package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"game_market_back_end/internal/models"
)

type ProductStore struct {
	col *mongo.Collection
}

func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySKU retourne le produit porteur du variant ainsi que le variant lui-même.
func (s *ProductStore) FindBySKU(ctx context.Context, sku string) (*models.Product, *models.ProductVariant, error) {
	var product models.Product
	err := s.col.FindOne(ctx, bson.M{"variants.sku": sku}).Decode(&product)
	if err != nil {
		return nil, nil, err
	}
	for i := range product.Variants {
		if product.Variants[i].SKU == sku {
			return &product, &product.Variants[i], nil
		}
	}
	return nil, nil, ErrNotFound
}

func (s *ProductStore) SKUExists(ctx context.Context, sku string) (bool, error) {
	count, err := s.col.CountDocuments(ctx, bson.M{"variants.sku": sku})
	return count > 0, err
}

func (s *ProductStore) Insert(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if product.Variants == nil {
		product.Variants = []models.ProductVariant{}
	}
	_, err := s.col.InsertOne(ctx, product)
	return err
}

// Update ne touche qu'aux champs du produit parent, jamais aux variants.
func (s *ProductStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error) {
	res := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	var product models.Product
	if err := res.Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete supprime le produit et, les variants étant embarqués, tous ses variants avec lui.
func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVariant attache un variant (entité enfant avec son propre id) au produit.
func (s *ProductStore) AddVariant(ctx context.Context, productID primitive.ObjectID, variant models.ProductVariant) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$push": bson.M{"variants": variant}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProductStore) UpdateVariant(ctx context.Context, productID, variantID primitive.ObjectID, fields bson.M) error {
	set := bson.M{}
	for k, v := range fields {
		set["variants.$."+k] = v
	}

	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": productID, "variants._id": variantID},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveVariant retire un seul variant, le produit et ses autres variants restent.
func (s *ProductStore) RemoveVariant(ctx context.Context, productID, variantID primitive.ObjectID) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$pull": bson.M{"variants": bson.M{"_id": variantID}}})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVariantImage ajoute une URL d'image au variant identifié par son SKU.
func (s *ProductStore) AddVariantImage(ctx context.Context, sku, imageURL string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"variants.sku": sku},
		bson.M{"$push": bson.M{"variants.$.images": imageURL}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock retire quantity unités du stock du variant. Pas de garde
// conditionnelle : l'appelant borne la quantité au stock courant au préalable
// (deux checkouts simultanés peuvent toujours s'entrelacer, assumé).
func (s *ProductStore) DecrementStock(ctx context.Context, sku string, quantity int) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"variants.sku": sku},
		bson.M{"$inc": bson.M{"variants.$.stock": -quantity}})
	return err
}

// CountVariants agrège le nombre total de variants du catalogue.
func (s *ProductStore) CountVariants(ctx context.Context) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": bson.M{"$size": "$variants"}},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}

	var rows []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
