// Package resend sends email through the Resend REST API.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	httpclient "notification-relay/internal/common/http"
	"notification-relay/internal/common/providers"
)

const Name = "resend"

type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
}

func New(hc *httpclient.Client, baseURL, apiKey string) *Client {
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (c *Client) Name() string { return Name }

func (c *Client) SendEmail(ctx context.Context, msg providers.EmailMessage) (string, error) {
	payload, err := json.Marshal(sendRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("encode resend request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend request: %w", err)
	}

	var out sendResponse
	_ = json.Unmarshal(resp.Body, &out)

	if !resp.OK() {
		message := out.Message
		if message == "" {
			message = strings.TrimSpace(string(resp.Body))
		}
		return "", &providers.Error{
			Provider:   Name,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	return out.ID, nil
}
