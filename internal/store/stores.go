package store

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// Stores regroupe l'accès aux collections MongoDB. Construit dans main et
// injecté dans chaque handler (pas de connexion globale).
type Stores struct {
	Users          *UserStore
	Products       *ProductStore
	Carts          *CartStore
	Orders         *OrderStore
	Platforms      *PlatformStore
	ResetPasswords *ResetPasswordStore
}

func New(db *mongo.Database) *Stores {
	return &Stores{
		Users:          &UserStore{col: db.Collection("users")},
		Products:       &ProductStore{col: db.Collection("products")},
		Carts:          &CartStore{col: db.Collection("carts")},
		Orders:         &OrderStore{col: db.Collection("orders")},
		Platforms:      &PlatformStore{col: db.Collection("platforms")},
		ResetPasswords: &ResetPasswordStore{col: db.Collection("resetpasswords")},
	}
}
