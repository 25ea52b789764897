package imposterbot

import (
	"fmt"
	"strings"

	userModel "github.com/bloops-games/imposter/internal/database/user/model"
	"github.com/bloops-games/imposter/internal/imposterbot/resource"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

func (m *manager) isBotAdmin(username string) bool {
	username = strings.TrimPrefix(username, "@")
	if username == "" {
		return false
	}

	for _, admin := range m.config.AdminUsernames {
		if strings.EqualFold(strings.TrimPrefix(strings.TrimSpace(admin), "@"), username) {
			return true
		}
	}

	return false
}

// isAdmin accepts bot admins and the chat's creator and administrators, everybody else gets a notice.
func (m *manager) isAdmin(u userModel.User, chatID int64) (bool, error) {
	if u.Admin {
		return true, nil
	}

	member, err := m.tg.GetChatMember(tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: int(u.ID)})
	if err != nil {
		return false, fmt.Errorf("get chat member: %w", err)
	}

	if member.IsCreator() || member.IsAdministrator() {
		return true, nil
	}

	if err := m.send(chatID, resource.TextAdminRequired, false); err != nil {
		return false, err
	}

	return false, nil
}

func (m *manager) isAllowedChat(chatID int64) (bool, error) {
	if len(m.config.AllowedChats) == 0 {
		return true, nil
	}

	for _, id := range m.config.AllowedChats {
		if id == chatID {
			return true, nil
		}
	}

	if err := m.send(chatID, resource.TextWrongChat, false); err != nil {
		return false, err
	}

	return false, nil
}
