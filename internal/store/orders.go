package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"game_market_back_end/internal/models"
)

type OrderStore struct {
	col *mongo.Collection
}

// FormatInvoiceNumber construit le numéro de facture FR-<YYYYMMDDHHMM>-<seq
// sur 6 chiffres>. La séquence est dérivée du nombre de commandes existantes
// au moment de la création — non atomique, deux checkouts simultanés peuvent
// entrer en collision (limitation connue, pas une garantie).
func FormatInvoiceNumber(at time.Time, sequence int64) string {
	return fmt.Sprintf("FR-%s-%06d", at.UTC().Format("200601021504"), sequence)
}

// Create enregistre une commande PENDING/PENDING avec un numéro de facture
// fraîchement généré.
func (s *OrderStore) Create(ctx context.Context, buyer string, amount float64, items []models.CartItem, shipping, billing models.Address) (*models.Order, error) {
	count, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		ID:              primitive.NewObjectID(),
		Buyer:           buyer,
		Total:           amount,
		Products:        make([]models.OrderItem, 0, len(items)),
		ShippingAddress: shipping,
		BillingAddress:  billing,
		OrderAt:         now,
		OrderStatus:     models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		InvoiceNumber:   FormatInvoiceNumber(now, count+1),
	}

	for _, item := range items {
		order.Products = append(order.Products, models.OrderItem{
			ProductName:  item.Title,
			ProductSKU:   item.SKU,
			Quantity:     item.Quantity,
			ProductImage: item.ImageSrc,
			Price:        item.Price,
		})
	}

	if len(order.Products) == 0 {
		return nil, fmt.Errorf("une commande doit contenir au moins un produit")
	}

	if _, err := s.col.InsertOne(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderStore) SetPaymentStatus(ctx context.Context, orderID primitive.ObjectID, status string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": bson.M{"paymentStatus": status}})
	return err
}

// SetLineQuantity ajuste la quantité d'une ligne après la borne au stock réel.
func (s *OrderStore) SetLineQuantity(ctx context.Context, orderID primitive.ObjectID, sku string, quantity int) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": orderID, "products.productSku": sku},
		bson.M{"$set": bson.M{"products.$.quantity": quantity}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullLine retire une ligne dont le variant n'a plus de stock du tout.
func (s *OrderStore) PullLine(ctx context.Context, orderID primitive.ObjectID, sku string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": orderID},
		bson.M{"$pull": bson.M{"products": bson.M{"productSku": sku}}})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *OrderStore) FindByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.col.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"orderAt": -1})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderStore) ListByBuyer(ctx context.Context, buyer string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.M{"orderAt": -1})
	cursor, err := s.col.Find(ctx, bson.M{"buyer": buyer}, opts)
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderStore) Update(ctx context.Context, orderID primitive.ObjectID, fields bson.M) (*models.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := s.col.FindOneAndUpdate(ctx, bson.M{"_id": orderID}, bson.M{"$set": fields}, opts)
	var order models.Order
	if err := res.Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) Delete(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	res := s.col.FindOneAndDelete(ctx, bson.M{"_id": orderID})
	var order models.Order
	if err := res.Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) TotalRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$total"},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// RevenueByMonth groupe le chiffre d'affaires par mois calendaire (1–12).
func (s *OrderStore) RevenueByMonth(ctx context.Context) (map[int]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$orderAt"},
			"total": bson.M{"$sum": "$total"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Month int     `bson:"_id"`
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	totals := make(map[int]float64, len(rows))
	for _, row := range rows {
		totals[row.Month] = row.Total
	}
	return totals, nil
}

// CountByMonth groupe le nombre de commandes par mois calendaire (1–12).
func (s *OrderStore) CountByMonth(ctx context.Context) (map[int]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": "$orderAt"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Month int `bson:"_id"`
		Count int `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.Month] = row.Count
	}
	return counts, nil
}
