package imposterbot

import (
	"context"
	"fmt"

	"github.com/bloops-games/imposter/internal/imposterbot/match"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// botAPI is the part of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	AnswerCallbackQuery(config tgbotapi.CallbackConfig) (tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.ChatConfigWithUser) (tgbotapi.ChatMember, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error)
}

func newTransport(tg botAPI) *transport {
	return &transport{tg: tg}
}

// transport delivers session cards to telegram chats.
type transport struct {
	tg botAPI
}

func (t *transport) Send(_ context.Context, chatID int64, text string, buttons [][]match.Button) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = inlineKeyboard(buttons)
	}

	sent, err := t.tg.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send msg: %w", err)
	}

	return sent.MessageID, nil
}

func (t *transport) Edit(_ context.Context, chatID int64, messageID int, text string, buttons [][]match.Button) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if len(buttons) > 0 {
		keyboard := inlineKeyboard(buttons)
		edit.ReplyMarkup = &keyboard
	}

	if _, err := t.tg.Send(edit); err != nil {
		return fmt.Errorf("edit msg: %w", err)
	}

	return nil
}

// Notify writes to the private chat with the user, which only works after the user started the bot.
func (t *transport) Notify(_ context.Context, userID int64, text string) error {
	if _, err := t.tg.Send(tgbotapi.NewMessage(userID, text)); err != nil {
		return fmt.Errorf("send private msg: %w", err)
	}

	return nil
}

func (t *transport) NotifyRole(ctx context.Context, player match.Player, text string) error {
	return t.Notify(ctx, player.UserID, text)
}

func inlineKeyboard(buttons [][]match.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		tgRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			tgRow = append(tgRow, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}

		rows = append(rows, tgRow)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
