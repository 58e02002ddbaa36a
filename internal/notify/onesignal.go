package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.onesignal.com"

// Client envoie des notifications push via l'API OneSignal. Tous les envois
// sont best-effort : un échec est loggé, jamais remonté à l'appelant, et
// n'affecte jamais l'état de la commande.
type Client struct {
	AppID      string
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClientFromEnv construit le client depuis l'environnement. Sans clé API,
// le client est désactivé (no-op loggé).
func NewClientFromEnv() *Client {
	appID := os.Getenv("ONESIGNAL_APP_ID")
	if appID == "" {
		appID = "2a61ca63-57b7-480b-a6e9-1b11c6ac7375"
	}
	return &Client{
		AppID:      appID,
		APIKey:     os.Getenv("ONESIGNAL_API_KEY"),
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.APIKey != ""
}

type notificationPayload struct {
	AppID                  string            `json:"app_id"`
	IncludeExternalUserIDs []string          `json:"include_external_user_ids"`
	Contents               map[string]string `json:"contents"`
	Headings               map[string]string `json:"headings"`
	ExternalID             string            `json:"external_id,omitempty"`
}

// OrderStatusMessage construit le texte de la notification de commande
func OrderStatusMessage(orderID, status, reason string) string {
	msg := fmt.Sprintf("Your order #%s has been %s", orderID, status)
	if reason != "" {
		msg += ". Reason: " + reason
	}
	return msg + "."
}

// SendOrderStatus pousse une notification de statut de commande vers
// l'utilisateur identifié par son email
func (c *Client) SendOrderStatus(ctx context.Context, email, orderID, status, reason string) error {
	payload := notificationPayload{
		AppID:                  c.AppID,
		IncludeExternalUserIDs: []string{email},
		Contents:               map[string]string{"en": OrderStatusMessage(orderID, status, reason)},
		Headings:               map[string]string{"en": "Order Status Update"},
		ExternalID:             uuid.NewString(), // clé d'idempotence côté OneSignal
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("OneSignal API error: %d", resp.StatusCode)
	}
	return nil
}

// NotifyOrderStatus est la variante fire-and-forget appelée en goroutine
// après le commit de l'écriture en base
func (c *Client) NotifyOrderStatus(email, orderID, status, reason string) {
	if !c.Enabled() {
		log.Println("⚠️ OneSignal non configuré, notification ignorée")
		return
	}
	if email == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.SendOrderStatus(ctx, email, orderID, status, reason); err != nil {
		log.Printf("❌ Erreur envoi notification OneSignal: %v", err)
		return
	}
	log.Printf("📨 Notification envoyée à %s pour la commande %s", email, orderID)
}
