package upgradelistsdk

import (
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	tgbotapiK "gopkg.in/telegram-bot-api.v4"
)

// Client carries what every upstream call needs: configuration, logger and the shared
// HTTP client.
type Client struct {
	Cfg        *Config
	Logger     *Logger
	HTTPClient *http.Client
}

func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		Cfg:        cfg,
		Logger:     NewLogger(cfg.AppName, cfg.LogLevel),
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// NewWithLogger is New with a caller-supplied logger, used by tests and front ends that
// redirect log output.
func NewWithLogger(cfg *Config, logger *Logger) *Client {
	client := New(cfg)
	client.Logger = logger
	return client
}

func (c *Client) Config() *Config {
	return c.Cfg
}

// SendTelegram posts text to every configured account. It is a no-op without a bot token.
func (c *Client) SendTelegram(text string) error {
	if !c.Cfg.TelegramEnabled() {
		return nil
	}

	bot, err := tgbotapiK.NewBotAPIWithClient(c.Cfg.BotToken, c.HTTPClient)
	if err != nil {
		return errors.Wrap(err, "telegram bot")
	}

	text = c.Cfg.AppName + " >>> " + time.Now().Format(time.RFC3339) + " >>>>> " + text
	for _, e := range c.Cfg.AccountIds {
		if _, err := bot.Send(tgbotapiK.NewMessage(cast.ToInt64(e), text)); err != nil {
			return errors.Wrapf(err, "telegram send to %s", e)
		}
	}

	return nil
}

// SendTelegramFile uploads data as a document named filename to every configured account.
func (c *Client) SendTelegramFile(data []byte, filename string) error {
	if !c.Cfg.TelegramEnabled() {
		return nil
	}

	bot, err := tgbotapiK.NewBotAPIWithClient(c.Cfg.BotToken, c.HTTPClient)
	if err != nil {
		return errors.Wrap(err, "telegram bot")
	}

	for _, e := range c.Cfg.AccountIds {
		message := tgbotapiK.NewDocumentUpload(cast.ToInt64(e), tgbotapiK.FileBytes{Name: filename, Bytes: data})
		if _, err := bot.Send(message); err != nil {
			return errors.Wrapf(err, "telegram upload to %s", e)
		}
	}

	return nil
}
