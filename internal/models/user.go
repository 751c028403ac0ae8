package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FirstName                string             `bson:"firstName" json:"firstName"`
	LastName                 string             `bson:"lastName" json:"lastName"`
	Email                    string             `bson:"email" json:"email"`
	Address                  *Address           `bson:"address,omitempty" json:"address,omitempty"`
	Role                     string             `bson:"role" json:"role"`
	BirthDate                time.Time          `bson:"birthDate" json:"birthDate"`
	Token                    string             `bson:"token" json:"-"`
	Hash                     string             `bson:"hash" json:"-"`
	Salt                     string             `bson:"salt" json:"-"`
	IsVerified               bool               `bson:"isVerified" json:"isVerified"`
	ConfirmationToken        string             `bson:"confirmationToken,omitempty" json:"-"`
	ConfirmationTokenExpires *time.Time         `bson:"confirmationTokenExpires,omitempty" json:"-"`
	CreatedAt                time.Time          `bson:"createdAt" json:"createdAt"`
}
