package models

type Address struct {
	Street     string `bson:"street" json:"street"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	City       string `bson:"city" json:"city"`
	Country    string `bson:"country" json:"country"`
}
