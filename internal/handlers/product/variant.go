package product

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"game_market_back_end/internal/models"
	"game_market_back_end/internal/utils"
)

// generateUniqueSKU tire des SKU jusqu'à en trouver un libre sur tout le
// catalogue.
func (h *Handler) generateUniqueSKU(ctx context.Context) (string, error) {
	for {
		sku := utils.GenerateSKU()
		exists, err := h.Products.SKUExists(ctx, sku)
		if err != nil {
			return "", err
		}
		if !exists {
			return sku, nil
		}
	}
}

// AddVariant attache une déclinaison vendable au produit, SKU généré côté
// serveur.
func (h *Handler) AddVariant(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	var input struct {
		Platform    string    `json:"platform"`
		Name        string    `json:"name"`
		Edition     string    `json:"edition"`
		Price       float64   `json:"price"`
		Stock       int       `json:"stock"`
		ReleaseDate time.Time `json:"releaseDate"`
		Barcode     string    `json:"barcode"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Platform == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données manquante"})
		return
	}
	if input.Price < 0 || input.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Prix ou stock invalide"})
		return
	}

	platformID, err := primitive.ObjectIDFromHex(input.Platform)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Plateforme invalide"})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.Platforms.FindByID(ctx, platformID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Plateforme invalide"})
		return
	}

	sku, err := h.generateUniqueSKU(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la génération du SKU"})
		return
	}

	variant := models.ProductVariant{
		ID:          primitive.NewObjectID(),
		SKU:         sku,
		Platform:    platformID,
		Name:        input.Name,
		Edition:     input.Edition,
		Price:       input.Price,
		Stock:       input.Stock,
		ReleaseDate: input.ReleaseDate,
		Images:      []string{},
		Barcode:     input.Barcode,
	}

	if err := h.Products.AddVariant(ctx, productID, variant); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	h.reindex(ctx, productID)
	c.JSON(http.StatusCreated, gin.H{"message": variant})
}

// UpdateVariant modifie les champs d'un variant existant.
func (h *Handler) UpdateVariant(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}
	variantID, err := primitive.ObjectIDFromHex(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant de variant invalide"})
		return
	}

	var input struct {
		Platform    *string    `json:"platform"`
		Name        *string    `json:"name"`
		Edition     *string    `json:"edition"`
		Price       *float64   `json:"price"`
		Stock       *int       `json:"stock"`
		ReleaseDate *time.Time `json:"releaseDate"`
		Barcode     *string    `json:"barcode"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	ctx := c.Request.Context()

	fields := bson.M{}
	if input.Platform != nil {
		platformID, err := primitive.ObjectIDFromHex(*input.Platform)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Plateforme invalide"})
			return
		}
		if _, err := h.Platforms.FindByID(ctx, platformID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Plateforme invalide"})
			return
		}
		fields["platform"] = platformID
	}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Edition != nil {
		fields["edition"] = *input.Edition
	}
	if input.Price != nil {
		if *input.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Prix ou stock invalide"})
			return
		}
		fields["price"] = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Prix ou stock invalide"})
			return
		}
		fields["stock"] = *input.Stock
	}
	if input.ReleaseDate != nil {
		fields["releaseDate"] = *input.ReleaseDate
	}
	if input.Barcode != nil {
		fields["barcode"] = *input.Barcode
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Aucun champ à mettre à jour"})
		return
	}

	if err := h.Products.UpdateVariant(ctx, productID, variantID, fields); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Variant introuvable"})
		return
	}

	h.reindex(ctx, productID)
	c.JSON(http.StatusOK, gin.H{"message": "Variant mis à jour avec succès"})
}

// RemoveVariant retire un seul variant, le produit reste.
func (h *Handler) RemoveVariant(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}
	variantID, err := primitive.ObjectIDFromHex(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant de variant invalide"})
		return
	}

	ctx := c.Request.Context()
	if err := h.Products.RemoveVariant(ctx, productID, variantID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Variant introuvable"})
		return
	}

	h.reindex(ctx, productID)
	c.JSON(http.StatusOK, gin.H{"message": "Variant supprimé avec succès"})
}

// UploadVariantImage pousse l'image dans MinIO et ajoute son URL au variant.
func (h *Handler) UploadVariantImage(c *gin.Context) {
	sku := c.Param("sku")

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Fichier image manquant"})
		return
	}

	ctx := c.Request.Context()

	product, _, err := h.Products.FindBySKU(ctx, sku)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	url, err := h.Uploader.UploadImage(ctx, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de l'envoi de l'image"})
		return
	}

	if err := h.Products.AddVariantImage(ctx, sku, url); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	h.reindex(ctx, product.ID)
	c.JSON(http.StatusOK, gin.H{"message": url})
}
