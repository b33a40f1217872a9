package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	colorHistoricalLow = 0xFF4500 // orange-red, all-time low
	colorRegular       = 0x00B894 // green, ordinary discount
)

// maxEmbedsPerMessage is Discord's hard limit on embeds in one webhook post.
const maxEmbedsPerMessage = 10

// DiscordNotifier implements Notifier via a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Thumbnail   *discordThumbnail   `json:"thumbnail,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordThumbnail struct {
	URL string `json:"url"`
}

// SendDeal sends a single deal as a Discord embed.
func (d *DiscordNotifier) SendDeal(ctx context.Context, deal DealPayload) error {
	payload := discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(&deal)},
	}
	return d.post(ctx, payload)
}

// SendBatch sends multiple deals, chunked to respect Discord's embed limit.
// Each chunk is a separate webhook post.
func (d *DiscordNotifier) SendBatch(ctx context.Context, deals []DealPayload) error {
	for start := 0; start < len(deals); start += maxEmbedsPerMessage {
		end := min(start+maxEmbedsPerMessage, len(deals))

		embeds := make([]discordEmbed, 0, end-start)
		for i := start; i < end; i++ {
			embeds = append(embeds, buildEmbed(&deals[i]))
		}

		if err := d.post(ctx, discordWebhookPayload{Embeds: embeds}); err != nil {
			return fmt.Errorf("sending batch chunk %d: %w", start/maxEmbedsPerMessage, err)
		}
	}
	return nil
}

func buildEmbed(deal *DealPayload) discordEmbed {
	color := colorRegular
	if deal.HistoricalLow {
		color = colorHistoricalLow
	}

	fields := []discordEmbedField{
		{Name: "Price", Value: fmt.Sprintf("$%.2f", deal.SalePrice), Inline: true},
		{Name: "Regular", Value: fmt.Sprintf("$%.2f", deal.RegularPrice), Inline: true},
		{Name: "Store", Value: deal.ShopName, Inline: true},
	}
	if deal.PreviousBest != nil {
		fields = append(fields, discordEmbedField{
			Name:   "Previous Best",
			Value:  fmt.Sprintf("$%.2f", *deal.PreviousBest),
			Inline: true,
		})
	}

	embed := discordEmbed{
		Title:  fmt.Sprintf("%s is %d%% off!", deal.GameTitle, deal.CutPercent),
		URL:    deal.DealURL,
		Color:  color,
		Fields: fields,
	}
	if deal.HistoricalLow {
		embed.Description = "Historical low price!"
	}
	if deal.BoxartURL != "" {
		embed.Thumbnail = &discordThumbnail{URL: deal.BoxartURL}
	}
	return embed
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
