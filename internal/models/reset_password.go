package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResetPassword vit dans sa propre collection et est supprimé dès que le
// nouveau mot de passe est enregistré.
type ResetPassword struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User                 primitive.ObjectID `bson:"user" json:"user"`
	ResetPasswordToken   string             `bson:"resetPasswordToken" json:"-"`
	ResetPasswordExpires time.Time          `bson:"resetPasswordExpires" json:"-"`
}
