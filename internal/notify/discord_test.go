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

func captureWebhook(t *testing.T, status int) (*httptest.Server, *[]discordWebhookPayload) {
	t.Helper()

	var payloads []discordWebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p discordWebhookPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		payloads = append(payloads, p)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &payloads
}

func TestDiscordNotifier_SendDeal(t *testing.T) {
	srv, payloads := captureWebhook(t, http.StatusNoContent)
	n := NewDiscordNotifier(srv.URL)

	prev := 19.99
	err := n.SendDeal(context.Background(), DealPayload{
		GameTitle:     "Hollow Knight",
		BoxartURL:     "https://img/boxart.jpg",
		SalePrice:     7.49,
		RegularPrice:  14.99,
		CutPercent:    50,
		ShopName:      "Steam",
		DealURL:       "https://shop/deal",
		PreviousBest:  &prev,
		HistoricalLow: true,
	})
	require.NoError(t, err)

	require.Len(t, *payloads, 1)
	require.Len(t, (*payloads)[0].Embeds, 1)

	embed := (*payloads)[0].Embeds[0]
	assert.Equal(t, "Hollow Knight is 50% off!", embed.Title)
	assert.Equal(t, "https://shop/deal", embed.URL)
	assert.Equal(t, colorHistoricalLow, embed.Color)
	assert.Equal(t, "Historical low price!", embed.Description)
	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, "https://img/boxart.jpg", embed.Thumbnail.URL)

	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "$7.49", embed.Fields[0].Value)
	assert.Equal(t, "$14.99", embed.Fields[1].Value)
	assert.Equal(t, "Steam", embed.Fields[2].Value)
	assert.Equal(t, "Previous Best", embed.Fields[3].Name)
	assert.Equal(t, "$19.99", embed.Fields[3].Value)
}

func TestDiscordNotifier_SendDeal_RegularColor(t *testing.T) {
	srv, payloads := captureWebhook(t, http.StatusNoContent)
	n := NewDiscordNotifier(srv.URL)

	err := n.SendDeal(context.Background(), DealPayload{
		GameTitle:  "Celeste",
		SalePrice:  9.99,
		CutPercent: 50,
		ShopName:   "GOG",
	})
	require.NoError(t, err)

	embed := (*payloads)[0].Embeds[0]
	assert.Equal(t, colorRegular, embed.Color)
	assert.Empty(t, embed.Description)
	assert.Nil(t, embed.Thumbnail)
	assert.Len(t, embed.Fields, 3)
}

func TestDiscordNotifier_SendBatch_Chunks(t *testing.T) {
	srv, payloads := captureWebhook(t, http.StatusNoContent)
	n := NewDiscordNotifier(srv.URL)

	deals := make([]DealPayload, 23)
	for i := range deals {
		deals[i] = DealPayload{GameTitle: "Game", CutPercent: 10 + i}
	}

	require.NoError(t, n.SendBatch(context.Background(), deals))

	require.Len(t, *payloads, 3)
	assert.Len(t, (*payloads)[0].Embeds, 10)
	assert.Len(t, (*payloads)[1].Embeds, 10)
	assert.Len(t, (*payloads)[2].Embeds, 3)
}

func TestDiscordNotifier_SendBatch_Empty(t *testing.T) {
	srv, payloads := captureWebhook(t, http.StatusNoContent)
	n := NewDiscordNotifier(srv.URL)

	require.NoError(t, n.SendBatch(context.Background(), nil))
	assert.Empty(t, *payloads)
}

func TestDiscordNotifier_ErrorStatuses(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		srv, _ := captureWebhook(t, http.StatusTooManyRequests)
		n := NewDiscordNotifier(srv.URL)

		err := n.SendDeal(context.Background(), DealPayload{GameTitle: "X"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("server error", func(t *testing.T) {
		srv, _ := captureWebhook(t, http.StatusInternalServerError)
		n := NewDiscordNotifier(srv.URL)

		err := n.SendDeal(context.Background(), DealPayload{GameTitle: "X"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})
}
