package logger

import (
	"fmt"
	"log"
	"sync"
	"time"
)

var (
	ChannelID int64
	mu        sync.RWMutex
	botClient BotClient
)

type BotClient interface {
	SendMessage(chatID int64, text string) error
}

// Init registers the bot that mirrors every log line to the log channel.
// Passing a nil client turns the channel off again.
func Init(client BotClient, channelID int64) {
	mu.Lock()
	defer mu.Unlock()

	botClient = client
	ChannelID = channelID
}

func Info(message string) {
	sendLog("ℹ️ INFO", message)
}

func Error(message string) {
	sendLog("❌ ERROR", message)
}

func Debug(message string) {
	sendLog("🔍 DEBUG", message)
}

func Success(message string) {
	sendLog("✅ SUCCESS", message)
}

func sendLog(prefix, message string) {
	log.Printf("%s %s", prefix, message)

	mu.RLock()
	client, channelID := botClient, ChannelID
	mu.RUnlock()

	if client == nil || channelID == 0 {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	go func() {
		if err := client.SendMessage(channelID, logMessage); err != nil {
			fmt.Printf("Failed to send log to channel: %v\nLog was: %s\n", err, logMessage)
		}
	}()
}

// LogWithErr logs message as info when err is nil, as an error otherwise,
// and returns err wrapped with message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	Error(fmt.Sprintf("%s\nError: %v", message, err))
	return fmt.Errorf("%s: %w", message, err)
}
