package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Cart est unique par utilisateur, créé à la volée au premier ajout.
// Il est vidé (pas supprimé) après un checkout réussi.
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// CartItem garde une copie dénormalisée du produit (titre, prix, stock) pour
// l'affichage panier côté front sans recharger le catalogue.
type CartItem struct {
	SKU      string  `bson:"sku" json:"sku"`
	Title    string  `bson:"title" json:"title"`
	ImageSrc string  `bson:"imageSrc" json:"imageSrc"`
	Price    float64 `bson:"price" json:"price"`
	Quantity int     `bson:"quantity" json:"quantity"`
	Stock    int     `bson:"stock" json:"stock"`
	Edition  string  `bson:"edition" json:"edition"`
	Platform string  `bson:"platform" json:"platform"`
}
