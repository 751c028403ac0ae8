package cart

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"game_market_back_end/internal/models"
)

// CartStore est implémenté par store.CartStore.
type CartStore interface {
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Empty(ctx context.Context, userID primitive.ObjectID) error
}

// Catalog sert à revalider le stock courant d'un variant au moment où la
// quantité change dans le panier.
type Catalog interface {
	FindBySKU(ctx context.Context, sku string) (*models.Product, *models.ProductVariant, error)
}

type Handler struct {
	Carts   CartStore
	Catalog Catalog
}

func NewHandler(carts CartStore, catalog Catalog) *Handler {
	return &Handler{Carts: carts, Catalog: catalog}
}

func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return primitive.NilObjectID, false
	}
	return userID, true
}

// loadOrCreate retourne le panier de l'utilisateur, vide s'il n'en a pas
// encore (un panier par utilisateur, créé à la volée).
func (h *Handler) loadOrCreate(ctx context.Context, userID primitive.ObjectID) *models.Cart {
	cart, err := h.Carts.FindByUserID(ctx, userID)
	if err != nil {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}
	return cart
}

// Get renvoie le panier courant, éventuellement vide.
func (h *Handler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	cart := h.loadOrCreate(c.Request.Context(), userID)
	c.JSON(http.StatusOK, cart)
}

// Add ajoute un article au panier. Si le SKU y figure déjà, les quantités
// s'additionnent.
func (h *Handler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input models.CartItem
	if err := c.ShouldBindJSON(&input); err != nil || input.SKU == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données manquante"})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	ctx := c.Request.Context()
	cart := h.loadOrCreate(ctx, userID)
	mergeItem(cart, input)

	if err := h.Carts.Save(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la sauvegarde du panier"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// Sync fusionne un panier local (invité) dans le panier serveur au moment de
// la connexion. Les quantités des SKU communs s'additionnent.
func (h *Handler) Sync(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Items []models.CartItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données manquante"})
		return
	}

	ctx := c.Request.Context()
	cart := h.loadOrCreate(ctx, userID)
	for _, item := range input.Items {
		if item.SKU == "" || item.Quantity <= 0 {
			continue
		}
		mergeItem(cart, item)
	}

	if err := h.Carts.Save(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la sauvegarde du panier"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// Remove retire entièrement une ligne du panier.
func (h *Handler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sku := c.Param("sku")
	ctx := c.Request.Context()

	cart, err := h.Carts.FindByUserID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Panier introuvable"})
		return
	}

	found := false
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.SKU == sku {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Article introuvable dans le panier"})
		return
	}
	cart.Items = items

	if err := h.Carts.Save(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la sauvegarde du panier"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// Increase fixe la quantité d'une ligne, en la refusant si elle dépasse le
// stock catalogue au moment de la requête.
func (h *Handler) Increase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sku := c.Param("sku")
	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données manquante"})
		return
	}

	ctx := c.Request.Context()

	_, variant, err := h.Catalog.FindBySKU(ctx, sku)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}
	if input.Quantity > variant.Stock {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Stock insuffisant"})
		return
	}

	h.setQuantity(c, userID, sku, input.Quantity, variant.Stock)
}

// Decrease fixe la quantité d'une ligne à la baisse. Descendre à zéro ou
// moins est refusé, la suppression passe par Remove.
func (h *Handler) Decrease(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données manquante"})
		return
	}

	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantité invalide"})
		return
	}

	h.setQuantity(c, userID, c.Param("sku"), input.Quantity, -1)
}

// setQuantity applique la nouvelle quantité sur la ligne et rafraîchit la
// copie de stock dénormalisée si stock >= 0.
func (h *Handler) setQuantity(c *gin.Context, userID primitive.ObjectID, sku string, quantity, stock int) {
	ctx := c.Request.Context()

	cart, err := h.Carts.FindByUserID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Panier introuvable"})
		return
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].SKU == sku {
			cart.Items[i].Quantity = quantity
			if stock >= 0 {
				cart.Items[i].Stock = stock
			}
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Article introuvable dans le panier"})
		return
	}

	if err := h.Carts.Save(ctx, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la sauvegarde du panier"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// mergeItem additionne les quantités quand le SKU existe déjà dans le panier.
func mergeItem(cart *models.Cart, item models.CartItem) {
	for i := range cart.Items {
		if cart.Items[i].SKU == item.SKU {
			cart.Items[i].Quantity += item.Quantity
			return
		}
	}
	cart.Items = append(cart.Items, item)
}
