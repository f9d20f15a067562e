package admin

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/karaokedesk/internal/bot"
	"github.com/sukalov/karaokedesk/internal/redirect"
)

func (h *AdminHandlers) redirectsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return b.SendMessage(message.Chat.ID, "вы не админ")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	redirects, err := h.redirects.List(ctx)
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("не удалось загрузить редиректы: %v", err))
	}

	return b.SendLongMessage(message.Chat.ID, formatRedirects(redirects))
}

func formatRedirects(redirects []redirect.Redirect) string {
	if len(redirects) == 0 {
		return "редиректов нет"
	}

	var sb strings.Builder
	sb.WriteString("редиректы:\n\n")
	for _, r := range redirects {
		fmt.Fprintf(&sb, "%s → %s\n   переходов: %d\n", r.Slug, r.URL, r.Hits)
	}
	return strings.TrimRight(sb.String(), "\n")
}
