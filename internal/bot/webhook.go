package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tg-cognito/internal/config"
	"tg-cognito/internal/logger"
	"tg-cognito/internal/metrics"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

var allowedUpdates = []string{"message", "callback_query"}

// WebhookServer is the HTTP listener for webhook updates, debug and metrics
type WebhookServer struct {
	server   *http.Server
	certFile string
	keyFile  string
}

// Start blocks serving HTTP until Shutdown
func (ws *WebhookServer) Start() error {
	logger.Infof("Starting HTTP server on %s", ws.server.Addr)

	if ws.certFile != "" && ws.keyFile != "" {
		logger.Infof("Using TLS with cert: %s, key: %s", ws.certFile, ws.keyFile)
		return ws.server.ListenAndServeTLS(ws.certFile, ws.keyFile)
	}

	logger.Infof("Running without TLS. Make sure you have a HTTPS proxy in front of this server")
	return ws.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (ws *WebhookServer) Shutdown(ctx context.Context) error {
	return ws.server.Shutdown(ctx)
}

func newWebhookServer(mux *http.ServeMux, cfg config.WebhookConfig) *WebhookServer {
	listenPort := cfg.ListenPort
	if listenPort == "" {
		listenPort = "8443"
		logger.Infof("Using default listen port: %s", listenPort)
	}

	return &WebhookServer{
		server: &http.Server{
			Addr:              "0.0.0.0:" + listenPort,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		certFile: cfg.CertFile,
		keyFile:  cfg.KeyFile,
	}
}

// newServeMux mounts the debug and metrics endpoints.
func newServeMux(ctx context.Context, bot *telego.Bot, cfg config.WebhookConfig, mode string) *http.ServeMux {
	mux := http.NewServeMux()

	if cfg.MetricsPath != "" {
		mux.Handle(cfg.MetricsPath, metrics.Handler())
	}

	if cfg.DebugPath != "" {
		mux.HandleFunc(cfg.DebugPath, func(w http.ResponseWriter, r *http.Request) {
			logger.Infof("Debug endpoint accessed: %s %s", r.Method, r.URL.Path)

			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(debugReport(ctx, bot, mode)))
		})
	}

	return mux
}

func debugReport(ctx context.Context, bot *telego.Bot, mode string) string {
	var b strings.Builder
	b.WriteString("Bot server is running\n\n")

	if botUser, err := bot.GetMe(ctx); err == nil {
		fmt.Fprintf(&b, "Bot username: %s\n", botUser.Username)
	}
	fmt.Fprintf(&b, "Update mode: %s\n", mode)

	webhookInfo, err := bot.GetWebhookInfo(ctx)
	if err != nil {
		fmt.Fprintf(&b, "\nError getting webhook info: %v\n", err)
		return b.String()
	}

	b.WriteString("\nWebhook Info:\n")
	fmt.Fprintf(&b, "URL: %s\n", webhookInfo.URL)
	fmt.Fprintf(&b, "Custom Certificate: %v\n", webhookInfo.HasCustomCertificate)
	fmt.Fprintf(&b, "Pending Updates: %d\n", webhookInfo.PendingUpdateCount)
	if webhookInfo.LastErrorDate > 0 {
		errorTime := time.Unix(int64(webhookInfo.LastErrorDate), 0)
		fmt.Fprintf(&b, "Last Error: [%s] %s\n", errorTime.Format("2006-01-02 15:04:05"), webhookInfo.LastErrorMessage)
	}
	return b.String()
}

// webhookPath extracts the path Telegram will post updates to.
func webhookPath(endpoint string) (string, error) {
	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid webhook endpoint: %w", err)
	}
	if parsedURL.Path == "" || parsedURL.Path == "/" {
		logger.Infof("No path specified in webhook endpoint, using default path: /webhook")
		return "/webhook", nil
	}
	return parsedURL.Path, nil
}

// SetupWebhook registers the webhook with Telegram and builds the update handler
func SetupWebhook(ctx context.Context, bot *telego.Bot, cfg config.WebhookConfig, secretToken string) (*th.BotHandler, *WebhookServer, error) {
	if cfg.Endpoint == "" {
		return nil, nil, fmt.Errorf("webhook endpoint is required")
	}

	if (cfg.CertFile == "" || cfg.KeyFile == "") && !strings.HasPrefix(cfg.Endpoint, "https://") {
		return nil, nil, fmt.Errorf("HTTPS configuration required: set cert_file and key_file in config or use a HTTPS proxy")
	}

	path, err := webhookPath(cfg.Endpoint)
	if err != nil {
		return nil, nil, err
	}

	logger.Infof("Setting webhook to: %s", cfg.Endpoint)
	err = bot.SetWebhook(ctx, &telego.SetWebhookParams{
		URL:            cfg.Endpoint,
		AllowedUpdates: allowedUpdates,
		SecretToken:    secretToken,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set webhook: %w", err)
	}

	webhookInfo, err := bot.GetWebhookInfo(ctx)
	if err != nil {
		logger.Warningf("Failed to get webhook info: %v", err)
	} else {
		logger.Infof("Webhook info: URL=%s, HasCustomCert=%v, PendingUpdateCount=%d",
			webhookInfo.URL, webhookInfo.HasCustomCertificate, webhookInfo.PendingUpdateCount)
		if webhookInfo.LastErrorDate > 0 {
			logger.Infof("Webhook last error: [%d] %s", webhookInfo.LastErrorDate, webhookInfo.LastErrorMessage)
		}
	}

	mux := newServeMux(ctx, bot, cfg, config.ModeWebhook)

	updates, err := bot.UpdatesViaWebhook(ctx,
		telego.WebhookHTTPServeMux(mux, path, secretToken),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get updates channel: %w", err)
	}

	bh, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	return bh, newWebhookServer(mux, cfg), nil
}

// SetupPolling builds the update handler on long polling. The HTTP server
// still serves the debug and metrics endpoints.
func SetupPolling(ctx context.Context, bot *telego.Bot, cfg config.WebhookConfig) (*th.BotHandler, *WebhookServer, error) {
	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		AllowedUpdates: allowedUpdates,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start long polling: %w", err)
	}

	bh, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	mux := newServeMux(ctx, bot, cfg, config.ModePolling)
	return bh, newWebhookServer(mux, cfg), nil
}
