package utils

import (
	"fmt"

	"game_market_back_end/internal/models"
)

// ConfirmationEmailHTML génère le mail de confirmation de compte (lien valable 24h).
func ConfirmationEmailHTML(confirmationLink string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmez votre compte</h2>
		<p>Bonjour,</p>
		<p>Vous avez 24 heures pour confirmer votre compte en cliquant sur le lien suivant :</p>
		<p><a href="%s">%s</a></p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Game Market</strong>
		</p>
	</div>
</body>
</html>`, confirmationLink, confirmationLink)
}

// ResetPasswordEmailHTML génère le mail de réinitialisation (lien valable 1h).
func ResetPasswordEmailHTML(resetLink string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Réinitialisation de mot de passe</h2>
		<p>Bonjour,</p>
		<p>Cliquez sur le lien suivant pour réinitialiser votre mot de passe :</p>
		<p><a href="%s">%s</a></p>
		<p>Ce lien expire dans une heure. Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Game Market</strong>
		</p>
	</div>
</body>
</html>`, resetLink, resetLink)
}

// InvoiceEmailHTML accompagne la facture PDF jointe.
func InvoiceEmailHTML() string {
	return `
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Votre facture</h2>
		<p>Bonjour,</p>
		<p>Vous trouverez votre facture en pièce jointe de ce message.</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Game Market</strong>
		</p>
	</div>
</body>
</html>`
}

// OrderConfirmationHTML génère le récapitulatif de commande envoyé après paiement.
func OrderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Products {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td style="padding: 10px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f€</td>
				<td style="padding: 10px; border: 1px solid #ddd;">%.2f€</td>
			</tr>`, item.ProductName, item.Quantity, item.Price, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Confirmation de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Confirmation de votre commande %s</h2>
		<p>Bonjour,</p>
		<p>Votre commande a été confirmée avec succès.</p>

		<h3>Détails de la commande</h3>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Produit</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Quantité</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Prix unitaire</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
				%s
			</tbody>
			<tfoot>
				<tr>
					<td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td>
					<td style="padding: 10px; font-weight: bold;">%.2f€</td>
				</tr>
			</tfoot>
		</table>

		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Game Market</strong>
		</p>
	</div>
</body>
</html>`, order.InvoiceNumber, itemsHTML, order.Total)
}
