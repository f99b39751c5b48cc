package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/bus"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/channels/telegram"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/config"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/dispatch"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/flow"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/intake"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/languages"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/pipeline"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/providers"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/session"

	"github.com/joho/godotenv"
)

func runConfigure() {
	fmt.Println("🎙️ Rift Configuration Wizard")
	fmt.Println("----------------------------")

	cfg := &config.AppConfig{}

	fmt.Print("Enter Telegram Bot Token: ")
	fmt.Scanln(&cfg.TelegramToken)

	fmt.Print("Enter Restricted Telegram User ID (Optional, press Enter for none): ")
	fmt.Scanln(&cfg.TelegramAllowedUser)

	fmt.Print("Choose Transcription Backend (openai, groq, whisper-cli) [openai]: ")
	fmt.Scanln(&cfg.STTBackend)
	if cfg.STTBackend == "" {
		cfg.STTBackend = "openai"
	}

	if cfg.STTBackend == "whisper-cli" {
		fmt.Print("Enter Whisper Model (e.g. small) [small]: ")
		fmt.Scanln(&cfg.STTModel)
	} else {
		fmt.Printf("Enter %s API Key: ", cfg.STTBackend)
		fmt.Scanln(&cfg.STTAPIKey)
	}

	fmt.Print("Choose Translation Backend (google, openai, anthropic) [google]: ")
	fmt.Scanln(&cfg.TranslatorBackend)
	if cfg.TranslatorBackend == "" {
		cfg.TranslatorBackend = "google"
	}

	if cfg.TranslatorBackend != "google" {
		fmt.Printf("Enter %s API Key: ", cfg.TranslatorBackend)
		fmt.Scanln(&cfg.TranslatorAPIKey)

		fmt.Print("Enter Model Name (press Enter for default): ")
		fmt.Scanln(&cfg.TranslatorModel)
	}

	if err := cfg.Save(); err != nil {
		log.Fatalf("❌ Failed to save config: %v", err)
	}

	fmt.Println("✅ Configuration saved successfully to ~/.rift/config.json!")
	fmt.Println("You can now run 'go run cmd/rift/main.go' to start the bot.")
}

func runReset() {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Cannot get home dir: %v", err)
	}
	workspaceDir := filepath.Join(home, ".rift", "workspace")

	fmt.Printf("🗑️ Are you sure you want to reset Rift's workspace? This will delete all downloaded media files in %s. (y/N): ", workspaceDir)
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "y" && confirm != "Y" {
		fmt.Println("Reset cancelled.")
		return
	}

	if err := os.RemoveAll(workspaceDir); err != nil {
		log.Fatalf("❌ Failed to reset workspace: %v", err)
	}

	fmt.Println("✅ Rift workspace has been successfully reset!")
}

func buildTranscriber(cfg *config.AppConfig) providers.Transcriber {
	switch cfg.STTBackend {
	case "groq":
		log.Printf("🎙️ Initializing Groq transcription (model: %s)", cfg.STTModel)
		return providers.NewGroqTranscriber(cfg.STTAPIKey, cfg.STTModel)
	case "whisper-cli":
		log.Printf("🎙️ Initializing local Whisper CLI transcription (model: %s)", cfg.STTModel)
		return providers.NewWhisperCLITranscriber(cfg.STTModel)
	default:
		log.Printf("🎙️ Initializing OpenAI transcription (model: %s)", cfg.STTModel)
		return providers.NewOpenAITranscriber(cfg.STTAPIKey, cfg.STTBaseURL, cfg.STTModel)
	}
}

func buildTranslator(cfg *config.AppConfig) providers.Translator {
	switch cfg.TranslatorBackend {
	case "openai":
		log.Printf("🌐 Initializing OpenAI translation (model: %s)", cfg.TranslatorModel)
		return providers.NewOpenAITranslator(cfg.TranslatorAPIKey, "", cfg.TranslatorModel)
	case "anthropic":
		log.Printf("🌐 Initializing Anthropic translation (model: %s)", cfg.TranslatorModel)
		return providers.NewAnthropicTranslator(cfg.TranslatorAPIKey, cfg.TranslatorModel)
	default:
		log.Println("🌐 Initializing Google web translation")
		return providers.NewGoogleTranslator()
	}
}

// configFromEnv builds a config from environment variables, the legacy setup
// path for deployments without a config.json.
func configFromEnv() *config.AppConfig {
	ttl := 0
	if raw := os.Getenv("SESSION_TTL_MINUTES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			ttl = n
		}
	}
	return &config.AppConfig{
		TelegramToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAllowedUser: os.Getenv("TELEGRAM_ALLOWED_USER_ID"),
		STTBackend:          os.Getenv("STT_BACKEND"),
		STTAPIKey:           os.Getenv("STT_API_KEY"),
		STTBaseURL:          os.Getenv("STT_BASE_URL"),
		STTModel:            os.Getenv("STT_MODEL"),
		TranslatorBackend:   os.Getenv("TRANSLATOR_BACKEND"),
		TranslatorAPIKey:    os.Getenv("TRANSLATOR_API_KEY"),
		TranslatorModel:     os.Getenv("TRANSLATOR_MODEL"),
		SessionPolicy:       os.Getenv("SESSION_POLICY"),
		SessionTTLMinutes:   ttl,
	}
}

func main() {
	if len(os.Args) > 1 {
		if os.Args[1] == "configure" {
			runConfigure()
			return
		} else if os.Args[1] == "reset" {
			runReset()
			return
		}
	}

	fmt.Println("🎙️ Starting Rift Voice-to-Text Bot...")

	// 0. Try loading from Config File first
	cfg, err := config.Load()
	if err != nil {
		// Fall back to env variables so .env deployments keep working
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Could not load config.json or .env file.")
			log.Println("Please run: 'go run cmd/rift/main.go configure'")
			log.Fatal(err)
		}
		log.Println("⚠️ Using .env configuration. Consider running 'rift configure'.")
		cfg = configFromEnv()
	}

	if cfg.TelegramToken == "" {
		log.Println("⚠️ Missing Telegram Token! Please run 'go run cmd/rift/main.go configure'")
		log.Fatal("Exiting due to missing configuration.")
	}

	// 1. Setup Data Paths
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Cannot get home dir: %v", err)
	}
	mediaDir := filepath.Join(home, ".rift", "workspace", "media")

	allowedUsers := []string{}
	if cfg.TelegramAllowedUser != "" {
		allowedUsers = append(allowedUsers, cfg.TelegramAllowedUser)
	}

	// 2. Initialize Core Infrastructure
	msgBus := bus.NewMessageBus()
	langs := languages.Default()
	store := session.NewStore(session.CreatePolicy(cfg.SessionPolicy))

	transcriber := buildTranscriber(cfg)
	translator := buildTranslator(cfg)

	pipe := pipeline.New(transcriber, translator, langs, store, 0, 0)

	tgChannel := telegram.NewChannel(cfg.TelegramToken, allowedUsers, mediaDir, msgBus)
	mediaIntake := intake.New(store, langs, tgChannel, msgBus)
	selectionFlow := flow.New(store, langs, msgBus, pipe)
	dispatcher := dispatch.New(msgBus, tgChannel, mediaIntake, selectionFlow)

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	janitor := session.NewJanitor(store, sessionTTL, time.Minute, func(userKey, text string) {
		msgBus.SendOutbound(bus.OutboundMessage{UserKey: userKey, Text: text})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Start Background Janitor
	go janitor.Start(ctx)
	log.Println("✅ Session janitor started.")

	// 4. Start Telegram Listener
	if err := tgChannel.Start(ctx); err != nil {
		log.Fatalf("Failed to start Telegram channel: %v", err)
	}
	log.Println("✅ Telegram channel started successfully. Listening for messages...")

	// 5. Start Event Dispatch Loop
	go dispatcher.Run(ctx)

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down Rift...")
	cancel()
}
