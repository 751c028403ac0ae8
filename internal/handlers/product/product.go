package product

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"game_market_back_end/internal/models"
)

// ProductStore est implémenté par store.ProductStore.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, *models.ProductVariant, error)
	SKUExists(ctx context.Context, sku string) (bool, error)
	Insert(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddVariant(ctx context.Context, productID primitive.ObjectID, variant models.ProductVariant) error
	UpdateVariant(ctx context.Context, productID, variantID primitive.ObjectID, fields bson.M) error
	RemoveVariant(ctx context.Context, productID, variantID primitive.ObjectID) error
	AddVariantImage(ctx context.Context, sku, imageURL string) error
}

// PlatformStore est implémenté par store.PlatformStore.
type PlatformStore interface {
	List(ctx context.Context) ([]models.Platform, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Platform, error)
	NamesByID(ctx context.Context) (map[primitive.ObjectID]string, error)
}

// Indexer est implémenté par services.ProductIndexer.
type Indexer interface {
	IndexProduct(p models.Product)
	RemoveProduct(productID string)
	SearchProducts(query string) ([]map[string]interface{}, error)
}

// Uploader est implémenté par services.ImageUploader.
type Uploader interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error)
}

type Handler struct {
	Products  ProductStore
	Platforms PlatformStore
	Indexer   Indexer
	Uploader  Uploader
}

func NewHandler(products ProductStore, platforms PlatformStore, indexer Indexer, uploader Uploader) *Handler {
	return &Handler{Products: products, Platforms: platforms, Indexer: indexer, Uploader: uploader}
}

// resolvePlatformNames remplit PlatformName sur chaque variant à partir de la
// table des plateformes.
func (h *Handler) resolvePlatformNames(ctx context.Context, products []models.Product) {
	names, err := h.Platforms.NamesByID(ctx)
	if err != nil {
		return
	}
	for i := range products {
		for j := range products[i].Variants {
			products[i].Variants[j].PlatformName = names[products[i].Variants[j].Platform]
		}
	}
}

// List renvoie tout le catalogue, plateformes résolues.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.Products.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la récupération des produits"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	h.resolvePlatformNames(ctx, products)
	c.JSON(http.StatusOK, gin.H{"message": products})
}

// GetBySKU renvoie le produit porteur du variant demandé.
func (h *Handler) GetBySKU(c *gin.Context) {
	ctx := c.Request.Context()

	product, _, err := h.Products.FindBySKU(ctx, c.Param("sku"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	products := []models.Product{*product}
	h.resolvePlatformNames(ctx, products)
	c.JSON(http.StatusOK, gin.H{"message": products[0]})
}

// Search interroge l'index Elasticsearch du catalogue.
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Paramètre de recherche manquant"})
		return
	}

	results, err := h.Indexer.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la recherche"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": results})
}

// ListPlatforms renvoie la table de référence des plateformes.
func (h *Handler) ListPlatforms(c *gin.Context) {
	platforms, err := h.Platforms.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la récupération des plateformes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": platforms})
}

// Create enregistre un nouveau produit parent (routes admin). Les variants
// s'ajoutent ensuite un par un.
func (h *Handler) Create(c *gin.Context) {
	var input struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Genres      []string `json:"genres"`
		MinAge      int      `json:"minAge"`
		Editor      string   `json:"editor"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données manquante"})
		return
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Genres:      input.Genres,
		MinAge:      input.MinAge,
		Editor:      input.Editor,
		Variants:    []models.ProductVariant{},
	}
	if product.Genres == nil {
		product.Genres = []string{}
	}

	if err := h.Products.Insert(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la création du produit"})
		return
	}

	h.Indexer.IndexProduct(*product)
	c.JSON(http.StatusCreated, gin.H{"message": product})
}

// Update modifie les champs du produit parent, jamais les variants.
func (h *Handler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	var input struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Genres      *[]string `json:"genres"`
		MinAge      *int      `json:"minAge"`
		Editor      *string   `json:"editor"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	fields := bson.M{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Genres != nil {
		fields["genres"] = *input.Genres
	}
	if input.MinAge != nil {
		fields["minAge"] = *input.MinAge
	}
	if input.Editor != nil {
		fields["editor"] = *input.Editor
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Aucun champ à mettre à jour"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Products.Update(ctx, id, fields); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	h.reindex(ctx, id)
	c.JSON(http.StatusOK, gin.H{"message": "Produit mis à jour avec succès"})
}

// Delete supprime le produit et tous ses variants embarqués.
func (h *Handler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	if err := h.Products.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Produit introuvable"})
		return
	}

	h.Indexer.RemoveProduct(id.Hex())
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé avec succès"})
}

// reindex recharge le produit et le repousse dans Elasticsearch (best-effort).
func (h *Handler) reindex(ctx context.Context, productID primitive.ObjectID) {
	product, err := h.Products.FindByID(ctx, productID)
	if err != nil {
		return
	}
	h.Indexer.IndexProduct(*product)
}
