package bot

import (
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram rejects longer messages
const MaxMessageLength = 4096

type Handler func(b *Bot, update tgbotapi.Update) error

// Sender is the part of the Telegram client the bot writes through
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot represents a configurable Telegram bot
type Bot struct {
	Client     *tgbotapi.BotAPI
	sender     Sender
	updateChan tgbotapi.UpdatesChannel
	stopChan   chan struct{}
	stopOnce   sync.Once
	name       string
}

// New creates a new bot instance and starts long polling
func New(name, token string) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	return &Bot{
		Client:     botClient,
		sender:     botClient,
		updateChan: updateChan,
		stopChan:   make(chan struct{}),
		name:       name,
	}, nil
}

// NewWithSender creates a bot that only sends, it never receives updates
func NewWithSender(name string, sender Sender) *Bot {
	return &Bot{
		sender:   sender,
		stopChan: make(chan struct{}),
		name:     name,
	}
}

// Start processes updates until Stop is called.
// Callback data of the form "prefix:payload" is routed by prefix.
func (b *Bot) Start(
	commandHandlers map[string]Handler,
	messageHandlers []Handler,
	callbackHandlers map[string]Handler,
) {
	if b.Client != nil {
		log.Printf("[%s] authorized on account %s", b.name, b.Client.Self.UserName)
	}

	for {
		select {
		case update, ok := <-b.updateChan:
			if !ok {
				return
			}
			go b.ProcessUpdate(update, commandHandlers, messageHandlers, callbackHandlers)
		case <-b.stopChan:
			return
		}
	}
}

// ProcessUpdate dispatches one update to the matching handler
func (b *Bot) ProcessUpdate(
	update tgbotapi.Update,
	commandHandlers map[string]Handler,
	messageHandlers []Handler,
	callbackHandlers map[string]Handler,
) {
	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := commandHandlers[update.Message.Command()]; exists {
			if err := handler(b, update); err != nil {
				log.Printf("[%s] command handler error: %v", b.name, err)
			}
			return
		}
	}

	if update.CallbackQuery != nil {
		key, _, _ := strings.Cut(update.CallbackQuery.Data, ":")
		if handler, exists := callbackHandlers[key]; exists {
			if err := handler(b, update); err != nil {
				log.Printf("[%s] callback handler error: %v", b.name, err)
			}
		}
		return
	}

	for _, handler := range messageHandlers {
		if err := handler(b, update); err != nil {
			log.Printf("[%s] message handler error: %v", b.name, err)
		}
	}
}

// Stop halts the bot. Safe to call more than once.
func (b *Bot) Stop() {
	b.stopOnce.Do(func() {
		if b.Client != nil {
			b.Client.StopReceivingUpdates()
		}
		close(b.stopChan)
	})
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.sender.Send(msg)
	return err
}

func (b *Bot) SendMessageWithMarkdown(chatID int64, text string, disableLinks bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.DisableWebPagePreview = disableLinks
	_, err := b.sender.Send(msg)
	return err
}

func (b *Bot) SendMessageWithButtons(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := b.sender.Send(msg)
	return err
}

// SendLongMessage splits text on line boundaries so every part fits
// into a single Telegram message
func (b *Bot) SendLongMessage(chatID int64, text string) error {
	for _, part := range SplitMessage(text, MaxMessageLength) {
		if err := b.SendMessage(chatID, part); err != nil {
			return err
		}
	}
	return nil
}

// SplitMessage cuts text into parts of at most limit bytes, breaking at
// newlines where possible
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			cut := runeBoundary(line, limit)
			if cut == 0 {
				// limit is smaller than the first rune, send it whole
				_, cut = utf8.DecodeRuneInString(line)
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if current.Len()+len(line) > limit {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// runeBoundary returns the largest index <= limit that does not split a rune
func runeBoundary(s string, limit int) int {
	for limit > 0 && limit < len(s) && !isRuneStart(s[limit]) {
		limit--
	}
	return limit
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
