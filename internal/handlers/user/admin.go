package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"game_market_back_end/internal/models"
)

// Gestion des comptes côté back-office (routes admin).

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la récupération des utilisateurs"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	var input struct {
		FirstName *string         `json:"firstName"`
		LastName  *string         `json:"lastName"`
		Email     *string         `json:"email"`
		Role      *string         `json:"role"`
		Address   *models.Address `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données invalides"})
		return
	}

	fields := bson.M{}
	if input.FirstName != nil {
		fields["firstName"] = *input.FirstName
	}
	if input.LastName != nil {
		fields["lastName"] = *input.LastName
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}
	if input.Role != nil {
		if *input.Role != models.RoleUser && *input.Role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Rôle invalide"})
			return
		}
		fields["role"] = *input.Role
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Aucun champ à mettre à jour"})
		return
	}

	if _, err := h.Users.Update(c.Request.Context(), id, fields); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur mis à jour avec succès"})
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identifiant invalide"})
		return
	}

	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur supprimé avec succès"})
}
