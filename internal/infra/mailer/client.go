package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ticket-gate/internal/pkg/config"
	"ticket-gate/internal/pkg/errs"
	"ticket-gate/internal/usecase/commands"
)

// Client delivers ticket notifications through the transactional mail API.
type Client struct {
	baseURL string
	from    string
	token   string
	httpc   *http.Client
}

func NewClient(cfg config.MailerConfig, token string) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		from:    cfg.From,
		token:   token,
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (c *Client) Send(ctx context.Context, mail commands.Mail) error {
	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      mail.To,
		Subject: mail.Subject,
		HTML:    mail.HTML,
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode mail payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mail/send", bytes.NewReader(payload))
	if err != nil {
		return errs.Wrap(err, "failed to build mail request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return errs.Wrap(err, "mail request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errs.New(fmt.Sprintf("mail API returned %d: %s", resp.StatusCode, string(body)))
	}
	return nil
}
