package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"

	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
)

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	// Buyer porte l'id utilisateur (hex), pas l'email : un changement
	// d'adresse ne doit pas détacher l'historique de commandes.
	Buyer           string             `bson:"buyer" json:"buyer"`
	Total           float64            `bson:"total" json:"total"`
	Products        []OrderItem        `bson:"products" json:"products"`
	ShippingAddress Address            `bson:"shippingAddress" json:"shippingAddress"`
	BillingAddress  Address            `bson:"billingAddress" json:"billingAddress"`
	OrderAt         time.Time          `bson:"orderAt" json:"orderAt"`
	OrderStatus     string             `bson:"orderStatus" json:"orderStatus"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	InvoiceNumber   string             `bson:"invoiceNumber" json:"invoiceNumber"`
}

type OrderItem struct {
	ProductName  string  `bson:"productName" json:"productName"`
	ProductSKU   string  `bson:"productSku" json:"productSku"`
	Quantity     int     `bson:"quantity" json:"quantity"`
	ProductImage string  `bson:"productImage" json:"productImage"`
	Price        float64 `bson:"price" json:"price"`
}
