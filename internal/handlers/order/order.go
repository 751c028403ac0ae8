package order

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"game_market_back_end/internal/models"
	"game_market_back_end/internal/payment"
)

// OrderStore est implémenté par store.OrderStore.
type OrderStore interface {
	Create(ctx context.Context, buyer string, amount float64, items []models.CartItem, shipping, billing models.Address) (*models.Order, error)
	SetPaymentStatus(ctx context.Context, orderID primitive.ObjectID, status string) error
	SetLineQuantity(ctx context.Context, orderID primitive.ObjectID, sku string, quantity int) error
	PullLine(ctx context.Context, orderID primitive.ObjectID, sku string) error
	FindByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByBuyer(ctx context.Context, buyer string) ([]models.Order, error)
	Update(ctx context.Context, orderID primitive.ObjectID, fields bson.M) (*models.Order, error)
	Delete(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error)
}

// CartStore est implémenté par store.CartStore.
type CartStore interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Empty(ctx context.Context, userID primitive.ObjectID) error
}

// Catalog est implémenté par store.ProductStore.
type Catalog interface {
	FindBySKU(ctx context.Context, sku string) (*models.Product, *models.ProductVariant, error)
	DecrementStock(ctx context.Context, sku string, quantity int) error
}

// UserStore est implémenté par store.UserStore.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateAddress(ctx context.Context, userID primitive.ObjectID, address models.Address) error
}

// Mailer est implémenté par utils.Mailer.
type Mailer interface {
	SendEmail(to []string, subject, htmlBody string, pdfAttachment []byte, attachmentName string) error
}

type Handler struct {
	Orders  OrderStore
	Carts   CartStore
	Catalog Catalog
	Users   UserStore
	Charger payment.Charger
	Mailer  Mailer
}

func NewHandler(orders OrderStore, carts CartStore, catalog Catalog, users UserStore, charger payment.Charger, mailer Mailer) *Handler {
	return &Handler{Orders: orders, Carts: carts, Catalog: catalog, Users: users, Charger: charger, Mailer: mailer}
}

// canAccess vérifie que la commande appartient au demandeur, sauf pour un
// admin. La propriété se juge sur l'id utilisateur, jamais sur l'email.
func canAccess(c *gin.Context, order *models.Order) bool {
	if c.GetString("role") == models.RoleAdmin {
		return true
	}
	return order.Buyer == c.GetString("userId")
}

// ListAll renvoie toutes les commandes (routes admin), les plus récentes en tête.
func (h *Handler) ListAll(c *gin.Context) {
	orders, err := h.Orders.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la récupération des commandes"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"message": orders})
}

// ListMine renvoie les commandes de l'utilisateur authentifié.
func (h *Handler) ListMine(c *gin.Context) {
	orders, err := h.Orders.ListByBuyer(c.Request.Context(), c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la récupération des commandes"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"message": orders})
}

func (h *Handler) Get(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	order, err := h.Orders.FindByID(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Commande introuvable."})
		return
	}
	if !canAccess(c, order) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Accès interdit."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": order})
}

// Update modifie le statut d'une commande (routes admin).
func (h *Handler) Update(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	var input struct {
		OrderStatus   *string `json:"orderStatus"`
		PaymentStatus *string `json:"paymentStatus"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	fields := bson.M{}
	if input.OrderStatus != nil {
		switch *input.OrderStatus {
		case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusShipped,
			models.OrderStatusDelivered, models.OrderStatusCancelled:
			fields["orderStatus"] = *input.OrderStatus
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Statut de commande invalide"})
			return
		}
	}
	if input.PaymentStatus != nil {
		switch *input.PaymentStatus {
		case models.PaymentStatusPending, models.PaymentStatusPaid:
			fields["paymentStatus"] = *input.PaymentStatus
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "Statut de paiement invalide"})
			return
		}
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Aucun champ à mettre à jour"})
		return
	}

	order, err := h.Orders.Update(c.Request.Context(), orderID, fields)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Commande introuvable."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": order})
}

// Delete supprime une commande (routes admin).
func (h *Handler) Delete(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	if _, err := h.Orders.Delete(c.Request.Context(), orderID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Commande introuvable."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Commande supprimée avec succès"})
}

// UpdateLineItem corrige la quantité d'une ligne puis recalcule le total
// (routes admin).
func (h *Handler) UpdateLineItem(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantité invalide"})
		return
	}

	ctx := c.Request.Context()
	if err := h.Orders.SetLineQuantity(ctx, orderID, c.Param("sku"), input.Quantity); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Ligne de commande introuvable"})
		return
	}

	order, err := h.recomputeTotal(ctx, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la mise à jour du total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": order})
}

// DeleteLineItem retire une ligne de la commande. La dernière ligne ne peut
// pas être retirée, une commande sans produit passe par Delete.
func (h *Handler) DeleteLineItem(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	ctx := c.Request.Context()

	order, err := h.Orders.FindByID(ctx, orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Commande introuvable."})
		return
	}
	if len(order.Products) <= 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Impossible de retirer la dernière ligne d'une commande"})
		return
	}

	if err := h.Orders.PullLine(ctx, orderID, c.Param("sku")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Ligne de commande introuvable"})
		return
	}

	updated, err := h.recomputeTotal(ctx, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la mise à jour du total"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": updated})
}

// recomputeTotal recharge la commande et réaligne le total sur ses lignes.
func (h *Handler) recomputeTotal(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := h.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, line := range order.Products {
		total += line.Price * float64(line.Quantity)
	}
	if total == order.Total {
		return order, nil
	}
	return h.Orders.Update(ctx, orderID, bson.M{"total": total})
}
