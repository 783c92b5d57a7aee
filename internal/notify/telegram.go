package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	telegramAPIBase = "https://api.telegram.org/bot"
	telegramTimeout = 10 * time.Second
)

// TelegramNotifier posts schedule updates to a chat via the Bot API.
type TelegramNotifier struct {
	botToken   string
	chatID     string
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewTelegramNotifier returns a notifier for the given bot and chat.
func NewTelegramNotifier(botToken, chatID string, log *zap.Logger) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if chatID == "" {
		return nil, errors.New("telegram chat id is required")
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  telegramAPIBase,
		httpClient: &http.Client{
			Timeout: telegramTimeout,
		},
		log: log,
	}, nil
}

// NotifyUpdate sends one HTML-formatted message describing the change.
func (n *TelegramNotifier) NotifyUpdate(ctx context.Context, update Update) error {
	if err := n.sendMessage(ctx, UpdateHTML(update)); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	n.log.Debug("sent telegram notification", zap.String("chat_id", n.chatID))
	return nil
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s%s/sendMessage", n.baseURL, n.botToken)

	payload := map[string]interface{}{
		"chat_id":                  n.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}
