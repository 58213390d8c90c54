package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTelegramAPI = "https://api.telegram.org"

var (
	ErrTelegramNotConfigured = errors.New("TELEGRAM_BOT_TOKEN not configured")
	ErrTelegramMissingFields = errors.New("missing chatId or text")
)

// TelegramError is an ok=false answer from the Bot API.
type TelegramError struct {
	Code        int
	Description string
}

func (e *TelegramError) Error() string {
	return fmt.Sprintf("telegram: %s (code %d)", e.Description, e.Code)
}

// TelegramSender posts plain text messages through the Telegram Bot API. It
// has nothing to do with the boards.
type TelegramSender struct {
	apiURL string
	token  string
	client *http.Client
}

func NewTelegramSender(apiURL, token string, timeout time.Duration) *TelegramSender {
	apiURL = strings.TrimRight(apiURL, "/")
	if apiURL == "" {
		apiURL = DefaultTelegramAPI
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &TelegramSender{apiURL: apiURL, token: token, client: &http.Client{Timeout: timeout}}
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// Send delivers text to chatID and returns the message id.
func (s *TelegramSender) Send(ctx context.Context, chatID, text string) (int64, error) {
	if s.token == "" {
		return 0, ErrTelegramNotConfigured
	}
	if strings.TrimSpace(chatID) == "" || strings.TrimSpace(text) == "" {
		return 0, ErrTelegramMissingFields
	}

	body, err := json.Marshal(map[string]string{"chat_id": chatID, "text": text})
	if err != nil {
		return 0, fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build telegram request: %w", redactURL(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send telegram message: %w", redactURL(err))
	}
	defer resp.Body.Close()

	var out telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode telegram response: %w", err)
	}
	if !out.OK {
		return 0, &TelegramError{Code: out.ErrorCode, Description: out.Description}
	}
	return out.Result.MessageID, nil
}

// redactURL drops the request URL, which carries the bot token, from err.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
