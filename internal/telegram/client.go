// Package telegram shares saved drawings through the Telegram Bot API.
// A snapshot is sent as a PNG photo with a MarkdownV2 caption listing its
// metrics and emotional reading, retrying on failure.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/neurodraw/internal/canvas"
	"github.com/rewired-gh/neurodraw/internal/feedback"
	"github.com/rewired-gh/neurodraw/internal/logger"
	"github.com/rewired-gh/neurodraw/internal/models"
)

// Sender is the part of tgbotapi.BotAPI the client needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram sharing
type Client struct {
	bot            Sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
	sleep          func(time.Duration)
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newClient(bot, chatID, maxRetries, retryDelayBase)
}

func newClient(bot Sender, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
		sleep:          time.Sleep,
	}, nil
}

// SendSnapshot posts the snapshot raster as a photo with a metrics caption.
func (c *Client) SendSnapshot(s *models.Snapshot) error {
	data, err := canvas.DecodeDataURI(s.Raster)
	if err != nil {
		return fmt.Errorf("failed to decode snapshot %s: %w", s.ID, err)
	}

	photo := tgbotapi.NewPhoto(c.chatID, tgbotapi.FileBytes{
		Name:  s.ID + ".png",
		Bytes: data,
	})
	photo.Caption = formatCaption(s)
	photo.ParseMode = tgbotapi.ModeMarkdownV2

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(photo)
		if err == nil {
			logger.Info("Shared snapshot %s to chat %d", s.ID, c.chatID)
			return nil
		}
		lastErr = err
		logger.Warn("Telegram send attempt %d/%d failed: %v", i+1, c.maxRetries, err)
		if i < c.maxRetries-1 {
			c.sleep(c.retryDelayBase * time.Duration(i+1))
		}
	}

	return fmt.Errorf("failed to send snapshot after %d retries: %w", c.maxRetries, lastErr)
}

// formatCaption formats a snapshot into a MarkdownV2 caption
func formatCaption(s *models.Snapshot) string {
	var b strings.Builder
	b.WriteString("🎨 *NeuroDraw*\n")
	fmt.Fprintf(&b, "📅 %s\n\n", escapeMarkdownV2(s.Timestamp.Format("2006-01-02 15:04:05")))

	m := s.Metrics
	fmt.Fprintf(&b, "Speed: *%d*\n", m.LineSpeed)
	fmt.Fprintf(&b, "Sharpness: *%d*\n", m.LineSharpness)
	fmt.Fprintf(&b, "Color intensity: *%d*\n", m.ColorIntensity)
	fmt.Fprintf(&b, "Repetition: *%d*\n\n", m.PatternRepetition)

	reading := feedback.Classify(m)
	fmt.Fprintf(&b, "_%s_\n%s", escapeMarkdownV2(string(reading.State)), escapeMarkdownV2(reading.Description))
	return b.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
