package payment

import (
	"log"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/charge"
)

// Result est ce que le checkout a besoin de savoir d'un paiement.
type Result struct {
	ID        string
	Status    string
	Succeeded bool
}

// Charger capture les fonds d'une carte. Interface pour pouvoir substituer
// la passerelle dans les tests.
type Charger interface {
	Charge(amountMinor int64, currency, source, description string) (*Result, error)
}

// StripeCharger débite la carte via l'API Charges de Stripe. Le montant est
// en unités mineures (centimes).
type StripeCharger struct{}

func (StripeCharger) Charge(amountMinor int64, currency, source, description string) (*Result, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amountMinor),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}
	if err := params.SetSource(source); err != nil {
		return nil, err
	}

	ch, err := charge.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		return nil, err
	}

	log.Printf("💳 Charge Stripe %s : %d %s (%s)", ch.ID, amountMinor, currency, ch.Status)

	return &Result{
		ID:        ch.ID,
		Status:    string(ch.Status),
		Succeeded: ch.Status == stripe.ChargeStatusSucceeded,
	}, nil
}
