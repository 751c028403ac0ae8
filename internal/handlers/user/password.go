package user

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"game_market_back_end/internal/utils"
)

// RequestResetPassword pose un token de réinitialisation valable 1h et
// l'envoie par email. Répond toujours 200 pour ne pas révéler l'existence
// d'un compte.
func (h *Handler) RequestResetPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	ctx := c.Request.Context()

	user, err := h.Users.FindByEmail(ctx, input.Email)
	if err != nil {
		log.Printf("⚠️ Réinitialisation demandée pour un compte inexistant: %s", input.Email)
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	token := utils.GenerateToken()
	expiresAt := time.Now().Add(time.Hour)

	if err := h.Resets.Upsert(ctx, user.ID, token, expiresAt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}
	resetLink := frontendURL + "/reinitialiser-mot-de-passe/" + token

	err = h.Mailer.SendEmail(
		[]string{input.Email},
		"Demande de réinitialisation de mot de passe",
		utils.ResetPasswordEmailHTML(resetLink),
		nil, "")
	if err != nil {
		log.Println("❌ Envoi d'email de réinitialisation échoué:", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckResetToken vérifie qu'un token de réinitialisation est connu et
// encore valable, et renvoie l'email du compte concerné.
func (h *Handler) CheckResetToken(c *gin.Context) {
	token := c.Param("token")
	ctx := c.Request.Context()

	reset, err := h.Resets.FindByToken(ctx, token)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	if reset.ResetPasswordExpires.Before(time.Now()) {
		c.Status(http.StatusNotFound)
		return
	}

	user, err := h.Users.FindByID(ctx, reset.User)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"email": user.Email})
}

// EditPassword enregistre le nouveau mot de passe si la demande de
// réinitialisation existe et n'a pas expiré, puis supprime la demande.
func (h *Handler) EditPassword(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données manquante"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.Users.FindByEmail(ctx, input.Email)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	reset, err := h.Resets.FindByUser(ctx, user.ID)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}

	if reset.ResetPasswordExpires.Before(time.Now()) {
		c.Status(http.StatusNotFound)
		return
	}

	newHash := utils.HashPassword(input.Password, user.Salt)
	if err := h.Users.UpdateHash(ctx, user.ID, newHash); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	// l'entrée de cache porte encore l'ancien hash
	h.Tokens.InvalidateToken(ctx, user.Token)

	if err := h.Resets.Delete(ctx, reset.ID); err != nil {
		log.Println("⚠️ Suppression de la demande de réinitialisation échouée:", err)
	}

	c.Status(http.StatusOK)
}
