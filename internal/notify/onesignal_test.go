package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusMessage(t *testing.T) {
	assert.Equal(t,
		"Your order #abc123 has been shipped.",
		OrderStatusMessage("abc123", "shipped", ""))

	assert.Equal(t,
		"Your order #abc123 has been cancelled. Reason: out of stock.",
		OrderStatusMessage("abc123", "cancelled", "out of stock"))
}

func TestSendOrderStatus(t *testing.T) {
	var got notificationPayload
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notifications", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &Client{
		AppID:      "app-123",
		APIKey:     "key-456",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	}

	err := client.SendOrderStatus(context.Background(), "alice@example.com", "order-1", "delivered", "")
	require.NoError(t, err)

	assert.Equal(t, "Basic key-456", gotAuth)
	assert.Equal(t, "app-123", got.AppID)
	assert.Equal(t, []string{"alice@example.com"}, got.IncludeExternalUserIDs)
	assert.Equal(t, "Your order #order-1 has been delivered.", got.Contents["en"])
	assert.Equal(t, "Order Status Update", got.Headings["en"])
	assert.NotEmpty(t, got.ExternalID)
}

func TestSendOrderStatusWithReason(t *testing.T) {
	var got notificationPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &Client{AppID: "app", APIKey: "key", BaseURL: server.URL, HTTPClient: server.Client()}
	require.NoError(t, client.SendOrderStatus(context.Background(), "bob@example.com", "o2", "cancelled", "rupture de stock"))

	assert.Equal(t, "Your order #o2 has been cancelled. Reason: rupture de stock.", got.Contents["en"])
}

func TestSendOrderStatusAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := &Client{AppID: "app", APIKey: "key", BaseURL: server.URL, HTTPClient: server.Client()}
	err := client.SendOrderStatus(context.Background(), "x@example.com", "o3", "shipped", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestNotifyOrderStatusDisabled(t *testing.T) {
	// Sans clé API le client est désactivé et l'envoi est un no-op
	client := &Client{AppID: "app", APIKey: ""}
	assert.False(t, client.Enabled())
	client.NotifyOrderStatus("x@example.com", "o4", "shipped", "")
}

func TestEnabled(t *testing.T) {
	var nilClient *Client
	assert.False(t, nilClient.Enabled())
	assert.True(t, (&Client{APIKey: "k"}).Enabled())
}
