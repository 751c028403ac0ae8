package order

import (
	"context"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"game_market_back_end/internal/models"
	"game_market_back_end/internal/utils"
)

// Checkout transforme le panier courant en commande payée.
//
// Ordre des opérations, volontairement sans rollback :
//  1. création de la commande PENDING/PENDING (numéro de facture posé)
//  2. persistance éventuelle de l'adresse sur le profil
//  3. débit de la carte
//  4. vidage du panier
//  5. ajustement du stock, borné au stock réel ligne par ligne
//
// Un débit refusé laisse donc une commande PENDING en base, panier vidé et
// stock décrémenté. C'est l'état assumé, corrigeable via le back-office.
func (h *Handler) Checkout(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		Token           string         `json:"token"`
		Currency        string         `json:"currency"`
		ShippingAddress models.Address `json:"shippingAddress"`
		BillingAddress  models.Address `json:"billingAddress"`
		AddressAccount  bool           `json:"addressAccount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données manquante"})
		return
	}
	if input.Currency == "" {
		input.Currency = "eur"
	}

	ctx := c.Request.Context()

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return
	}

	cart, err := h.Carts.FindByUserID(ctx, userID)
	if err != nil || len(cart.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Votre panier est vide"})
		return
	}

	total := 0.0
	for _, item := range cart.Items {
		total += item.Price * float64(item.Quantity)
	}

	order, err := h.Orders.Create(ctx, userID.Hex(), total, cart.Items, input.ShippingAddress, input.BillingAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la création de la commande"})
		return
	}

	if input.AddressAccount {
		if err := h.Users.UpdateAddress(ctx, userID, input.BillingAddress); err != nil {
			log.Println("⚠️ Sauvegarde de l'adresse échouée:", err)
		}
	}

	amountMinor := int64(math.Round(total * 100))
	result, err := h.Charger.Charge(amountMinor, input.Currency, input.Token, "Commande "+order.InvoiceNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors du paiement"})
		return
	}

	if err := h.Carts.Empty(ctx, userID); err != nil {
		log.Println("⚠️ Vidage du panier échoué:", err)
	}

	h.handleStock(ctx, order.ID, cart.Items)

	if !result.Succeeded {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment failed"})
		return
	}

	if err := h.Orders.SetPaymentStatus(ctx, order.ID, models.PaymentStatusPaid); err != nil {
		log.Println("⚠️ Passage de la commande en PAID échoué:", err)
	}
	order.PaymentStatus = models.PaymentStatusPaid

	err = h.Mailer.SendEmail(
		[]string{user.Email},
		"Confirmation de votre commande "+order.InvoiceNumber,
		utils.OrderConfirmationHTML(*order),
		nil, "")
	if err != nil {
		log.Println("❌ Envoi de l'email de confirmation de commande échoué:", err)
	}

	log.Printf("✅ Commande %s payée (%s)", order.InvoiceNumber, result.ID)
	c.JSON(http.StatusOK, gin.H{"invoiceNumber": order.InvoiceNumber})
}

// handleStock ajuste le stock catalogue et les lignes de commande article par
// article. La quantité servie est bornée au stock restant au moment du
// passage ; un variant à sec fait sauter sa ligne.
func (h *Handler) handleStock(ctx context.Context, orderID primitive.ObjectID, items []models.CartItem) {
	for _, item := range items {
		_, variant, err := h.Catalog.FindBySKU(ctx, item.SKU)
		if err != nil {
			log.Printf("⚠️ Variant %s introuvable pendant l'ajustement de stock", item.SKU)
			continue
		}

		if variant.Stock <= 0 {
			if err := h.Orders.PullLine(ctx, orderID, item.SKU); err != nil {
				log.Printf("⚠️ Retrait de la ligne %s échoué: %v", item.SKU, err)
			}
			continue
		}

		quantity := item.Quantity
		if variant.Stock < quantity {
			quantity = variant.Stock
		}

		if err := h.Catalog.DecrementStock(ctx, item.SKU, quantity); err != nil {
			log.Printf("⚠️ Décrément du stock de %s échoué: %v", item.SKU, err)
			continue
		}

		if quantity != item.Quantity {
			if err := h.Orders.SetLineQuantity(ctx, orderID, item.SKU, quantity); err != nil {
				log.Printf("⚠️ Ajustement de la ligne %s échoué: %v", item.SKU, err)
			}
		}
	}
}
