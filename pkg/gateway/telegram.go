package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram wraps the Bot API client. Besides the Gateway surface it exposes
// the messaging helpers the conversation layer needs (keyboards, MarkdownV2
// replies, placeholder edit/delete).
type Telegram struct {
	bot *tgbotapi.BotAPI
}

func NewTelegram(token string, timeout time.Duration) (*Telegram, error) {
	client := &http.Client{Timeout: timeout}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("initializing telegram bot: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

// Username returns the bot account name, useful for startup logging.
func (t *Telegram) Username() string {
	return t.bot.Self.UserName
}

// Updates starts long polling and returns the update channel.
func (t *Telegram) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return t.bot.GetUpdatesChan(u)
}

func (t *Telegram) DeliverDocument(_ context.Context, chatID int64, fileName string, data []byte) (string, error) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: fileName, Bytes: data})
	msg, err := t.bot.Send(doc)
	if err != nil {
		return "", fmt.Errorf("sending document: %w", err)
	}
	if msg.Document == nil {
		return "", fmt.Errorf("sending document: no document in response")
	}
	return msg.Document.FileID, nil
}

func (t *Telegram) RedeliverByHandle(_ context.Context, chatID int64, handle string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileID(handle))
	if _, err := t.bot.Send(doc); err != nil {
		// Telegram gives no structured "unknown file_id" error; any send
		// failure on a cached handle is treated as stale.
		return fmt.Errorf("%w: %v", ErrStaleHandle, err)
	}
	return nil
}

// SendText sends a plain text message.
func (t *Telegram) SendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = t.bot.Send(msg)
}

// SendMarkdown sends a MarkdownV2-formatted message. The text must already
// be escaped.
func (t *Telegram) SendMarkdown(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	sent, err := t.bot.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// SendKeyboard sends a MarkdownV2 message with a one-time reply keyboard.
func (t *Telegram) SendKeyboard(chatID int64, text string, rows [][]string) {
	buttonRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		buttonRows = append(buttonRows, buttons)
	}

	keyboard := tgbotapi.NewOneTimeReplyKeyboard(buttonRows...)
	keyboard.ResizeKeyboard = true

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyMarkup = keyboard
	_, _ = t.bot.Send(msg)
}

// SendMarkdownRemoveKeyboard sends a MarkdownV2 message and removes any
// active reply keyboard.
func (t *Telegram) SendMarkdownRemoveKeyboard(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	_, _ = t.bot.Send(msg)
}

// EditMarkdown replaces the text of an earlier message.
func (t *Telegram) EditMarkdown(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	_, _ = t.bot.Send(edit)
}

// DeleteMessage removes an earlier message, e.g. the fetch placeholder.
func (t *Telegram) DeleteMessage(chatID int64, messageID int) {
	del := tgbotapi.NewDeleteMessage(chatID, messageID)
	_, _ = t.bot.Request(del)
}
