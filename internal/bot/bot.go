package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-cognito/internal/config"
	"tg-cognito/internal/logger"
	"tg-cognito/internal/models"
)

// BotService represents the Telegram bot service
type BotService struct {
	Bot     *telego.Bot
	Handler *th.BotHandler
}

// Start blocks processing updates until Stop
func (b *BotService) Start() {
	b.Handler.Start()
}

// Stop stops the bot handler
func (b *BotService) Stop() {
	b.Handler.Stop()
}

// Initialize creates the bot and wires the configured update source
func Initialize(ctx context.Context, cfg *config.Config) (*BotService, *WebhookServer, error) {
	if cfg.Bot.Token == "" {
		return nil, nil, fmt.Errorf("bot token is required")
	}

	debug := logger.GetLevel() == logger.LevelDebug
	bot, err := telego.NewBot(cfg.Bot.Token, telego.WithDefaultLogger(debug, true))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	botUser, err := bot.GetMe(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	logger.Infof("Authorized on account %s", botUser.Username)
	if cfg.Bot.Username != "" && cfg.Bot.Username != botUser.Username {
		logger.Warningf("Configured username %s does not match the token's account %s", cfg.Bot.Username, botUser.Username)
	}

	setLocalizedCommands(ctx, bot, cfg.Relay.Language)

	// Drop any previous webhook so polling works and the new one is set cleanly
	err = bot.DeleteWebhook(ctx, &telego.DeleteWebhookParams{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to delete existing webhook: %w", err)
	}

	var (
		bh     *th.BotHandler
		server *WebhookServer
	)
	switch cfg.Bot.Mode {
	case config.ModePolling:
		bh, server, err = SetupPolling(ctx, bot, cfg.Bot.Webhook)
	default:
		secretToken := "cognito_webhook_token_" + cfg.Bot.Token[len(cfg.Bot.Token)-6:]
		bh, server, err = SetupWebhook(ctx, bot, cfg.Bot.Webhook, secretToken)
	}
	if err != nil {
		return nil, nil, err
	}

	return &BotService{
		Bot:     bot,
		Handler: bh,
	}, server, nil
}

var commandKeys = []struct {
	Command string
	DescKey string
}{
	{Command: "start", DescKey: "cmd_desc_start"},
	{Command: "help", DescKey: "cmd_desc_help"},
	{Command: "register", DescKey: "cmd_desc_register"},
	{Command: "unregister", DescKey: "cmd_desc_unregister"},
}

func localizedCommands(lang string) []telego.BotCommand {
	commands := make([]telego.BotCommand, 0, len(commandKeys))
	for _, cmd := range commandKeys {
		commands = append(commands, telego.BotCommand{
			Command:     cmd.Command,
			Description: models.GetTranslation(lang, cmd.DescKey),
		})
	}
	return commands
}

// setLocalizedCommands sets the command menu for every translation and a
// default menu in the configured language
func setLocalizedCommands(ctx context.Context, bot *telego.Bot, defaultLang string) {
	for lang := range models.Translations {
		err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
			Commands:     localizedCommands(lang),
			LanguageCode: lang,
		})
		if err != nil {
			logger.Warningf("Failed to set bot commands for %s: %v", lang, err)
		}
	}

	err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: localizedCommands(defaultLang),
	})
	if err != nil {
		logger.Warningf("Failed to set default bot commands: %v", err)
		return
	}
	logger.Infof("Default command menu set in %s", models.GetLanguageName(defaultLang))
}
