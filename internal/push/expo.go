package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultExpoURL = "https://exp.host/--/api/v2/push/send"

// ExpoGateway speaks the Expo push HTTP API directly; there is no official Go
// SDK and the surface this service needs is one endpoint.
type ExpoGateway struct {
	url         string
	accessToken string
	client      *http.Client
}

type ExpoOption func(*ExpoGateway)

func WithExpoURL(url string) ExpoOption {
	return func(g *ExpoGateway) { g.url = url }
}

func WithHTTPClient(client *http.Client) ExpoOption {
	return func(g *ExpoGateway) { g.client = client }
}

func NewExpoGateway(accessToken string, opts ...ExpoOption) *ExpoGateway {
	g := &ExpoGateway{
		url:         defaultExpoURL,
		accessToken: accessToken,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type expoTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

func (g *ExpoGateway) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal([]Message{msg})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.accessToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("expo request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("expo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo status %d: %s", resp.StatusCode, raw)
	}

	var parsed expoResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("expo response decode: %w", err)
	}
	if len(parsed.Data) == 0 {
		return fmt.Errorf("expo returned no ticket")
	}

	ticket := parsed.Data[0]
	if ticket.Status == "error" {
		if ticket.Details.Error == "DeviceNotRegistered" {
			return ErrDeviceNotRegistered
		}
		return fmt.Errorf("expo ticket error: %s", ticket.Message)
	}
	return nil
}
