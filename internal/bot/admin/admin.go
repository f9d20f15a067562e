package admin

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/karaokedesk/internal/bot"
	"github.com/sukalov/karaokedesk/internal/catalog"
	"github.com/sukalov/karaokedesk/internal/redirect"
)

const requestTimeout = 15 * time.Second

type Songs interface {
	List(ctx context.Context) ([]catalog.Song, error)
	Get(ctx context.Context, id string) (catalog.Song, error)
	LRC(ctx context.Context, id string) (string, error)
}

type Redirects interface {
	List(ctx context.Context) ([]redirect.Redirect, error)
}

type AdminHandlers struct {
	songs     Songs
	redirects Redirects
	admins    map[string]bool
}

func NewAdminHandlers(songs Songs, redirects Redirects, adminUsernames []string) *AdminHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		admins[username] = true
	}

	return &AdminHandlers{
		songs:     songs,
		redirects: redirects,
		admins:    admins,
	}
}

func (h *AdminHandlers) CommandHandlers() map[string]bot.Handler {
	return map[string]bot.Handler{
		"start":     h.startHandler,
		"songs":     h.songsHandler,
		"lrc":       h.lrcHandler,
		"redirects": h.redirectsHandler,
	}
}

func (h *AdminHandlers) CallbackHandlers() map[string]bot.Handler {
	return map[string]bot.Handler{
		lrcCallback: h.lrcCallbackHandler,
	}
}

func (h *AdminHandlers) isAdmin(user *tgbotapi.User) bool {
	return user != nil && h.admins[user.UserName]
}

func (h *AdminHandlers) startHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return b.SendMessage(message.Chat.ID, "вы не админ")
	}

	return b.SendMessage(message.Chat.ID,
		"команды:\n"+
			"/songs - все песни\n"+
			"/songs <запрос> - поиск по названию или артисту\n"+
			"/lrc <id> - текст песни в формате LRC\n"+
			"/redirects - редиректы и переходы по ним")
}

func SetupHandlers(adminBot *bot.Bot, songs Songs, redirects Redirects, adminUsernames []string) {
	handlers := NewAdminHandlers(songs, redirects, adminUsernames)
	go adminBot.Start(handlers.CommandHandlers(), nil, handlers.CallbackHandlers())
}
