// Package notify announces catalog changes through a Telegram bot.
package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Button is an inline keyboard button opening URL.
type Button struct {
	Text string
	URL  string
}

// sender is the subset of *tgbotapi.BotAPI used here.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts photos and HTML messages to a single chat.
type Telegram struct {
	bot    sender
	chatID int64
}

// NewTelegram logs in with token. An empty token yields a Telegram that only
// logs what it would have sent.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" {
		log.Warn("telegram token not configured, announcements will be skipped")
		return &Telegram{chatID: chatID}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to log in to telegram")
	}
	log.WithField("bot", bot.Self.UserName).Info("telegram bot ready")
	return &Telegram{bot: bot, chatID: chatID}, nil
}

// SendPhoto posts the image at url.
func (t *Telegram) SendPhoto(ctx context.Context, url string) error {
	if t.bot == nil {
		log.WithField("photo", url).Info("telegram disabled, skipping photo")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(tgbotapi.NewPhoto(t.chatID, tgbotapi.FileURL(url))); err != nil {
		return errors.Wrap(err, "failed to send telegram photo")
	}
	return nil
}

// SendMessage posts an HTML formatted text with one row of URL buttons.
func (t *Telegram) SendMessage(ctx context.Context, text string, buttons ...Button) error {
	if t.bot == nil {
		log.WithField("text", text).Info("telegram disabled, skipping message")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if len(buttons) > 0 {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(buttons))
		for _, b := range buttons {
			row = append(row, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(row)
	}
	if _, err := t.bot.Send(msg); err != nil {
		return errors.Wrap(err, "failed to send telegram message")
	}
	return nil
}
