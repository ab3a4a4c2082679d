package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gamma-omg/trend-bot/internal/config"
)

const defaultApiBase = "https://api.telegram.org"

// TelegramNotifier posts Markdown messages to a fixed chat through the
// Bot API.
type TelegramNotifier struct {
	log     *slog.Logger
	client  *http.Client
	apiBase string
	token   string
	chatId  string
}

func NewTelegramNotifier(creds config.Credentials, log *slog.Logger) (*TelegramNotifier, error) {
	if creds.TelegramToken == "" || creds.TelegramChatId == "" {
		return nil, errors.New("telegram notifier requires TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
	}

	return &TelegramNotifier{
		log:     log,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiBase: defaultApiBase,
		token:   creds.TelegramToken,
		chatId:  creds.TelegramChatId,
	}, nil
}

func (n *TelegramNotifier) Signal(ctx context.Context, s Signal) error {
	return n.send(ctx, formatSignal(s))
}

func (n *TelegramNotifier) Announce(ctx context.Context, text string) error {
	return n.send(ctx, text)
}

func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id":    n.chatId,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to encode telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram api returned %d: %s", resp.StatusCode, body)
	}

	n.log.Debug("telegram message sent", "chars", len(text))
	return nil
}

func formatSignal(s Signal) string {
	return fmt.Sprintf("📢 *%s Signal Triggered*\n*Symbol:* %s\n*Price:* $%s\n*Shares:* %d\n*Portfolio Value:* $%s\n*Reason:* %s",
		s.Action,
		s.Symbol,
		s.Price.StringFixed(2),
		s.Shares,
		s.PortfolioValue.StringFixed(2),
		s.Reason)
}
