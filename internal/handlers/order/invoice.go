package order

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"game_market_back_end/internal/utils"
)

// SendInvoice relaie par email la facture PDF générée côté front. Le PDF
// arrive en multipart avec l'adresse du destinataire et le nom du fichier.
func (h *Handler) SendInvoice(c *gin.Context) {
	email := c.PostForm("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Adresse email manquante"})
		return
	}

	fileName := c.PostForm("fileName")
	if fileName == "" {
		fileName = "facture.pdf"
	}

	file, err := c.FormFile("invoice")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Fichier de facture manquant"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Fichier de facture illisible"})
		return
	}
	defer f.Close()

	pdf, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Fichier de facture illisible"})
		return
	}

	err = h.Mailer.SendEmail(
		[]string{email},
		"Votre facture Game Market",
		utils.InvoiceEmailHTML(),
		pdf,
		fileName)
	if err != nil {
		log.Println("❌ Envoi de la facture échoué:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de l'envoi de la facture"})
		return
	}

	log.Println("📤 Facture envoyée à", email)
	c.JSON(http.StatusOK, gin.H{"message": "Facture envoyée avec succès"})
}

// InvoicePDF rend la facture en PDF côté serveur : page facture de la SPA
// imprimée en headless, avec un QR SEPA pour régler par virement.
func (h *Handler) InvoicePDF(c *gin.Context) {
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

	qr, err := utils.GenerateSepaQR(
		os.Getenv("SEPA_IBAN"),
		os.Getenv("SEPA_BIC"),
		os.Getenv("SEPA_BENEFICIARY"),
		order.InvoiceNumber,
		order.Total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la génération du QR SEPA"})
		return
	}

	pdf, err := utils.RenderInvoicePDF(utils.GetFrontendInvoiceBaseURL(), order.InvoiceNumber, qr)
	if err != nil {
		log.Println("❌ Génération du PDF de facture échouée:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur lors de la génération du PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="facture-`+order.InvoiceNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
