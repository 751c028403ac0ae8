package user

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"game_market_back_end/internal/models"
	"game_market_back_end/internal/utils"
)

// UserStore est la partie du store dont les handlers de compte ont besoin.
// Implémenté par store.UserStore.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByConfirmationToken(ctx context.Context, token string) (*models.User, error)
	SetConfirmation(ctx context.Context, userID primitive.ObjectID, token string, expires time.Time) error
	MarkVerified(ctx context.Context, userID primitive.ObjectID) error
	UpdateHash(ctx context.Context, userID primitive.ObjectID, hash string) error
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, userID primitive.ObjectID, fields bson.M) (*models.User, error)
	Delete(ctx context.Context, userID primitive.ObjectID) error
}

// ResetStore est implémenté par store.ResetPasswordStore.
type ResetStore interface {
	Upsert(ctx context.Context, userID primitive.ObjectID, token string, expires time.Time) error
	FindByToken(ctx context.Context, token string) (*models.ResetPassword, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.ResetPassword, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Mailer est implémenté par utils.Mailer.
type Mailer interface {
	SendEmail(to []string, subject, htmlBody string, pdfAttachment []byte, attachmentName string) error
}

// TokenCache est implémenté par cache.AuthCache.
type TokenCache interface {
	InvalidateToken(ctx context.Context, token string)
}

type Handler struct {
	Users  UserStore
	Resets ResetStore
	Mailer Mailer
	Tokens TokenCache
}

func NewHandler(users UserStore, resets ResetStore, mailer Mailer, tokens TokenCache) *Handler {
	return &Handler{Users: users, Resets: resets, Mailer: mailer, Tokens: tokens}
}

// sendConfirmationEmail pose un token de confirmation (24h) sur le compte et
// envoie le lien. L'échec d'envoi est signalé à l'appelant mais jamais au
// point de bloquer la création de compte.
func (h *Handler) sendConfirmationEmail(ctx context.Context, user *models.User) bool {
	confirmationToken := utils.GenerateToken()
	expires := time.Now().Add(24 * time.Hour)

	if err := h.Users.SetConfirmation(ctx, user.ID, confirmationToken, expires); err != nil {
		log.Println("❌ Erreur enregistrement token de confirmation:", err)
		return false
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}
	confirmationLink := frontendURL + "/confirmer-votre-compte/" + confirmationToken

	err := h.Mailer.SendEmail(
		[]string{user.Email},
		"Confirmez votre compte",
		utils.ConfirmationEmailHTML(confirmationLink),
		nil, "")
	if err != nil {
		log.Println("❌ Envoi d'email de confirmation échoué:", err)
		return false
	}
	return true
}

// Signup crée un compte non vérifié et envoie l'email de confirmation.
func (h *Handler) Signup(c *gin.Context) {
	var input struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Données manquante"})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.Users.FindByEmail(ctx, input.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Cet email est déja pris"})
		return
	}

	salt := utils.GenerateSalt()
	now := time.Now()
	user := &models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Role:      models.RoleUser,
		BirthDate: now,
		Token:     utils.GenerateToken(),
		Hash:      utils.HashPassword(input.Password, salt),
		Salt:      salt,
		CreatedAt: now,
	}

	if err := h.Users.Insert(ctx, user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Erreur veuillez réessayer"})
		return
	}

	h.sendConfirmationEmail(ctx, user)

	c.Status(http.StatusCreated)
}

// Login accepte le mot de passe (re-hashé et comparé) ou le token opaque
// brut. Un compte non vérifié relance l'email de confirmation.
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Token    string `json:"token"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "error lors de la connexion veuillez réessayer"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.Users.FindByEmail(ctx, input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "email et/ou mot de passe incorrect(s)"})
		return
	}

	if !user.IsVerified {
		sent := h.sendConfirmationEmail(ctx, user)
		status := "un email a été envoyé"
		if !sent {
			status = "envoie d'émail echoué"
		}
		c.JSON(http.StatusPaymentRequired, gin.H{"message": "compte non vérifié, " + status})
		return
	}

	passwordOK := input.Password != "" && utils.VerifyPassword(input.Password, user.Salt, user.Hash)
	tokenOK := input.Token != "" && input.Token == user.Token

	if !passwordOK && !tokenOK {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "email et/ou mot de passe incorrect(s)"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"_id":   user.ID.Hex(),
		"email": user.Email,
		"token": user.Token,
	})
}

// ConfirmEmail valide le compte porté par le token de confirmation.
func (h *Handler) ConfirmEmail(c *gin.Context) {
	token := c.Param("token")
	ctx := c.Request.Context()

	user, err := h.Users.FindByConfirmationToken(ctx, token)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if user.IsVerified {
		c.JSON(http.StatusOK, gin.H{"message": gin.H{"token": user.Token}})
		return
	}

	if user.ConfirmationTokenExpires != nil && user.ConfirmationTokenExpires.Before(time.Now()) {
		// token périmé : on relance un email avec un token frais
		h.sendConfirmationEmail(ctx, user)
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.Users.MarkVerified(ctx, user.ID); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": gin.H{"token": user.Token}})
}

// SendConfirmation renvoie un email de confirmation sur demande explicite.
func (h *Handler) SendConfirmation(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()

	user, err := h.Users.FindByEmail(ctx, input.Email)
	if err != nil || user.IsVerified {
		c.Status(http.StatusBadRequest)
		return
	}

	h.sendConfirmationEmail(ctx, user)
	c.Status(http.StatusOK)
}

// Me retourne le profil de l'utilisateur authentifié.
func (h *Handler) Me(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Utilisateur non authentifié"})
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, user)
}
