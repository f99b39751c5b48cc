package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/bus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// Channel represents the Telegram integration
type Channel struct {
	bot        *tgbotapi.BotAPI
	bus        *bus.MessageBus
	token      string
	mediaDir   string
	allowFrom  map[string]bool // Set of allowed user IDs
	httpClient *http.Client
}

// NewChannel creates a new Telegram channel. Downloaded media lands in
// mediaDir.
func NewChannel(token string, allowedUsers []string, mediaDir string, messageBus *bus.MessageBus) *Channel {
	allowMap := make(map[string]bool)
	for _, u := range allowedUsers {
		allowMap[u] = true
	}
	return &Channel{
		token:      token,
		mediaDir:   mediaDir,
		allowFrom:  allowMap,
		bus:        messageBus,
		httpClient: &http.Client{},
	}
}

// Start connects to Telegram and begins listening for updates
func (t *Channel) Start(ctx context.Context) error {
	bot, err := tgbotapi.NewBotAPI(t.token)
	if err != nil {
		return fmt.Errorf("failed to init bot: %w", err)
	}
	t.bot = bot

	if err := os.MkdirAll(t.mediaDir, 0755); err != nil {
		return fmt.Errorf("failed to create media dir: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				t.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				t.handleUpdate(update)
			}
		}
	}()

	return nil
}

func (t *Channel) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		t.handleCallback(update.CallbackQuery)
		return
	}
	if update.Message != nil {
		t.handleMessage(update.Message)
	}
}

func (t *Channel) handleCallback(query *tgbotapi.CallbackQuery) {
	if !t.allowed(query.From) {
		return
	}
	if query.Message == nil {
		return
	}

	// Acknowledge the tap so the client stops showing the spinner.
	if _, err := t.bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("⚠️ Failed to answer callback query: %v", err)
	}

	t.bus.SendInbound(bus.InboundEvent{
		Kind:     bus.EventCallback,
		UserKey:  strconv.FormatInt(query.Message.Chat.ID, 10),
		Callback: query.Data,
	})
}

func (t *Channel) handleMessage(msg *tgbotapi.Message) {
	if !t.allowed(msg.From) {
		return
	}

	userKey := strconv.FormatInt(msg.Chat.ID, 10)

	if msg.IsCommand() {
		t.bus.SendInbound(bus.InboundEvent{
			Kind:    bus.EventCommand,
			UserKey: userKey,
			Command: msg.Command(),
		})
		return
	}

	t.bus.SendInbound(bus.InboundEvent{
		Kind:    bus.EventMedia,
		UserKey: userKey,
		Media:   ClassifyMedia(msg),
	})
}

func (t *Channel) allowed(from *tgbotapi.User) bool {
	if len(t.allowFrom) == 0 {
		return true
	}
	if from == nil {
		return false
	}
	return t.allowFrom[strconv.FormatInt(from.ID, 10)]
}

// ClassifyMedia maps a Telegram message onto a media attachment, or nil when
// the message carries nothing transcribable-looking. Documents keep their
// declared mime type so intake can decide whether they hold audio or video.
func ClassifyMedia(msg *tgbotapi.Message) *bus.MediaAttachment {
	switch {
	case msg.Voice != nil:
		return &bus.MediaAttachment{
			FileID:   msg.Voice.FileID,
			Kind:     bus.MediaVoice,
			MimeType: msg.Voice.MimeType,
		}
	case msg.Audio != nil:
		return &bus.MediaAttachment{
			FileID:   msg.Audio.FileID,
			Kind:     bus.MediaAudio,
			MimeType: msg.Audio.MimeType,
			FileName: msg.Audio.FileName,
		}
	case msg.Video != nil:
		return &bus.MediaAttachment{
			FileID:   msg.Video.FileID,
			Kind:     bus.MediaVideo,
			MimeType: msg.Video.MimeType,
			FileName: msg.Video.FileName,
		}
	case msg.Document != nil:
		return &bus.MediaAttachment{
			FileID:   msg.Document.FileID,
			Kind:     bus.MediaDocument,
			MimeType: msg.Document.MimeType,
			FileName: msg.Document.FileName,
		}
	default:
		return nil
	}
}

// SendText sends a plain response back to the Telegram chat
func (t *Channel) SendText(chatID, content string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	msg := tgbotapi.NewMessage(id, content)
	_, err = t.bot.Send(msg)
	return err
}

// SendButtons sends a prompt with an inline keyboard, three buttons per row.
func (t *Channel) SendButtons(chatID, prompt string, buttons []bus.Button) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat ID: %w", err)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, b := range buttons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	msg := tgbotapi.NewMessage(id, prompt)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err = t.bot.Send(msg)
	return err
}

// Fetch downloads a Telegram file to the media directory and returns its
// local path.
func (t *Channel) Fetch(ctx context.Context, fileID string) (string, error) {
	fileURL, err := t.bot.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	ext := path.Ext(fileURL)
	localPath := filepath.Join(t.mediaDir, uuid.NewString()+ext)

	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create local file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("failed to write local file: %w", err)
	}

	log.Printf("📦 Downloaded media to %s", localPath)
	return localPath, nil
}
