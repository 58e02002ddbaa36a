package utils

import (
	"fmt"
	"log"
)

// SendOrderStatusEmail envoie un email de notification de changement de
// statut. Best-effort : appelé en goroutine, les erreurs restent dans les logs.
func SendOrderStatusEmail(userEmail, orderID, newStatus, reason string) {
	if !SMTPConfigured() {
		return
	}

	subject := getStatusEmailSubject(newStatus)
	html := generateStatusEmailHTML(orderID, newStatus, reason)

	if err := SendEmail(userEmail, subject, html); err != nil {
		log.Printf("❌ Erreur envoi email statut: %v", err)
		return
	}
	log.Printf("📧 Email de statut envoyé: %s → %s", newStatus, userEmail)
}

func getStatusEmailSubject(status string) string {
	switch status {
	case "shipped":
		return "📦 Votre commande a été expédiée - Kiddo-Store"
	case "delivered":
		return "🎉 Votre commande a été livrée - Kiddo-Store"
	case "cancelled":
		return "❌ Commande annulée - Kiddo-Store"
	default:
		return "📋 Mise à jour de votre commande - Kiddo-Store"
	}
}

func getStatusMessage(status string) string {
	switch status {
	case "shipped":
		return "Bonne nouvelle ! Votre commande a été expédiée et est en route vers vous."
	case "delivered":
		return "Votre commande a été livrée avec succès. Nous espérons que vous en êtes satisfait !"
	case "cancelled":
		return "Votre commande a été annulée. Si vous avez des questions, n'hésitez pas à nous contacter."
	default:
		return "Le statut de votre commande a été mis à jour."
	}
}

func generateStatusEmailHTML(orderID, status, reason string) string {
	reasonHTML := ""
	if reason != "" {
		reasonHTML = fmt.Sprintf(`<p style="margin: 10px 0 0 0; color: #666666;"><strong>Raison :</strong> %s</p>`, reason)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>Mise à jour de commande</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Mise à jour de votre commande</h2>
		<p>%s</p>
		<div style="background: #f0f0f0; padding: 15px; border-radius: 8px;">
			<p style="margin: 0;"><strong>Commande :</strong> #%s</p>
			<p style="margin: 10px 0 0 0;"><strong>Statut :</strong> %s</p>
			%s
		</div>
		<p style="color: #999; font-size: 12px; margin-top: 20px;">
			Cet email a été envoyé automatiquement, merci de ne pas y répondre.
		</p>
	</div>
</body>
</html>
`, getStatusMessage(status), orderID, status, reasonHTML)
}
