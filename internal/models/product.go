package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Genres      []string           `bson:"genres" json:"genres"`
	MinAge      int                `bson:"minAge" json:"minAge"`
	Editor      string             `bson:"editor" json:"editor"`
	Variants    []ProductVariant   `bson:"variants" json:"variants"`
}

// ProductVariant est une déclinaison vendable d'un jeu (plateforme + édition).
// Le SKU est généré côté serveur et unique sur tout le catalogue.
type ProductVariant struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SKU          string             `bson:"sku" json:"sku"`
	Platform     primitive.ObjectID `bson:"platform" json:"platform"`
	PlatformName string             `bson:"-" json:"platformName,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Edition      string             `bson:"edition" json:"edition"`
	Price        float64            `bson:"price" json:"price"`
	Stock        int                `bson:"stock" json:"stock"`
	ReleaseDate  time.Time          `bson:"releaseDate" json:"releaseDate"`
	Images       []string           `bson:"images" json:"images"`
	Barcode      string             `bson:"barcode" json:"barcode"`
}
