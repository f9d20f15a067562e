package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/karaokedesk/internal/bot"
	"github.com/sukalov/karaokedesk/internal/catalog"
)

const (
	lrcCallback   = "lrc"
	maxButtonRows = 10
)

func (h *AdminHandlers) songsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return b.SendMessage(message.Chat.ID, "вы не админ")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	songs, err := h.songs.List(ctx)
	if err != nil {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("не удалось загрузить песни: %v", err))
	}

	query := strings.TrimSpace(message.CommandArguments())
	if query == "" {
		return b.SendLongMessage(message.Chat.ID, formatSongList(songs))
	}

	results := searchSongs(songs, query)
	if len(results) == 0 {
		return b.SendMessage(message.Chat.ID, "ничего не найдено")
	}

	text := "найденные песни:"
	if len(results) > maxButtonRows {
		text += fmt.Sprintf("\n(показаны первые %d из %d)", maxButtonRows, len(results))
	}
	return b.SendMessageWithButtons(message.Chat.ID, text, songButtons(results))
}

func (h *AdminHandlers) lrcHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return b.SendMessage(message.Chat.ID, "вы не админ")
	}

	id := strings.TrimSpace(message.CommandArguments())
	if id == "" {
		return b.SendMessage(message.Chat.ID, "укажите id песни: /lrc <id>")
	}
	return h.sendLRC(b, message.Chat.ID, id)
}

func (h *AdminHandlers) lrcCallbackHandler(b *bot.Bot, update tgbotapi.Update) error {
	query := update.CallbackQuery
	if query.Message == nil {
		return nil
	}
	if !h.isAdmin(query.From) {
		return b.SendMessage(query.Message.Chat.ID, "вы не админ")
	}

	id := strings.TrimPrefix(query.Data, lrcCallback+":")
	return h.sendLRC(b, query.Message.Chat.ID, id)
}

func (h *AdminHandlers) sendLRC(b *bot.Bot, chatID int64, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	song, err := h.songs.Get(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return b.SendMessage(chatID, "песня не найдена")
	}
	if err != nil {
		return b.SendMessage(chatID, fmt.Sprintf("не удалось загрузить песню: %v", err))
	}

	text, err := h.songs.LRC(ctx, id)
	if err != nil {
		return b.SendMessage(chatID, fmt.Sprintf("не удалось собрать LRC: %v", err))
	}
	if text == "" {
		return b.SendMessage(chatID, fmt.Sprintf("%s\n\nтекста пока нет", catalog.FormatSongName(song)))
	}

	return b.SendLongMessage(chatID, fmt.Sprintf("%s\n\n%s", catalog.FormatSongName(song), text))
}

func formatSongList(songs []catalog.Song) string {
	if len(songs) == 0 {
		return "песен пока нет"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "песни (%d):\n\n", len(songs))
	for idx, song := range songs {
		fmt.Fprintf(&sb, "%d. %s\n   /lrc %s\n", idx+1, catalog.FormatSongName(song), song.ID)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// searchSongs matches query against title and artists, case-insensitive
func searchSongs(songs []catalog.Song, query string) []catalog.Song {
	query = strings.ToLower(query)

	var results []catalog.Song
	for _, song := range songs {
		if strings.Contains(strings.ToLower(song.Title), query) ||
			strings.Contains(strings.ToLower(song.Artists), query) {
			results = append(results, song)
		}
	}
	return results
}

func songButtons(songs []catalog.Song) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, song := range songs {
		if len(rows) >= maxButtonRows {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(catalog.FormatSongName(song), lrcCallback+":"+song.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
