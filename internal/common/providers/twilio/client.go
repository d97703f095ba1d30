// Package twilio sends SMS through the Twilio Messages API.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	httpclient "notification-relay/internal/common/http"
	"notification-relay/internal/common/providers"
)

const Name = "twilio"

type Client struct {
	http       *httpclient.Client
	baseURL    string
	accountSID string
	authToken  string
	from       string
}

func New(hc *httpclient.Client, baseURL, accountSID, authToken, from string) *Client {
	return &Client{
		http:       hc,
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
	}
}

type messageResponse struct {
	SID     string `json:"sid"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) Name() string { return Name }

func (c *Client) messagesURL() string {
	return fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, url.PathEscape(c.accountSID))
}

func (c *Client) SendSMS(ctx context.Context, msg providers.SMSMessage) (string, error) {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", msg.To)
	form.Set("Body", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.messagesURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build twilio request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("twilio request: %w", err)
	}

	var out messageResponse
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

	return out.SID, nil
}
