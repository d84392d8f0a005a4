package upgradelistsdk

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DefaultBaseURL        = "https://www.united.com"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"
	DefaultAcceptLanguage = "en-US"
	DefaultTimeout        = 10 * time.Second
	DefaultListenAddr     = ":8080"
	DefaultAppName        = "upgradelist"
	DefaultLogLevel       = "info"
)

type Config struct {
	AppName        string
	BaseURL        string
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
	LogLevel       string
	ListenAddr     string
	BotToken       string
	AccountIds     []string
	Auth0Domain    string
	Auth0Audience  string

	// Client credentials used by the token subcommand only.
	Auth0ClientId     string
	Auth0ClientSecret string
}

// DefaultConfig returns a config pointing at the public airline site.
func DefaultConfig() *Config {
	return &Config{
		AppName:        DefaultAppName,
		BaseURL:        DefaultBaseURL,
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: DefaultAcceptLanguage,
		Timeout:        DefaultTimeout,
		LogLevel:       DefaultLogLevel,
		ListenAddr:     DefaultListenAddr,
	}
}

// LoadConfig reads an optional .env file and UPGRADELIST_* variables on top of DefaultConfig.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	cfg := DefaultConfig()
	if v := os.Getenv("UPGRADELIST_APP_NAME"); v != "" {
		cfg.SetAppName(v)
	}
	if v := os.Getenv("UPGRADELIST_BASE_URL"); v != "" {
		cfg.SetBaseUrl(v)
	}
	if v := os.Getenv("UPGRADELIST_USER_AGENT"); v != "" {
		cfg.SetUserAgent(v)
	}
	if v := os.Getenv("UPGRADELIST_ACCEPT_LANGUAGE"); v != "" {
		cfg.AcceptLanguage = v
	}
	if v := os.Getenv("UPGRADELIST_TIMEOUT"); v != "" {
		timeout, err := cast.ToDurationE(v)
		if err != nil {
			return nil, err
		}
		cfg.SetTimeout(timeout)
	}
	if v := os.Getenv("UPGRADELIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("UPGRADELIST_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("UPGRADELIST_BOT_TOKEN"); v != "" {
		cfg.SetBotToken(v)
	}
	if v := os.Getenv("UPGRADELIST_ACCOUNT_IDS"); v != "" {
		cfg.SetAccountIds(splitList(v))
	}
	cfg.Auth0Domain = os.Getenv("UPGRADELIST_AUTH0_DOMAIN")
	cfg.Auth0Audience = os.Getenv("UPGRADELIST_AUTH0_AUDIENCE")
	cfg.Auth0ClientId = os.Getenv("UPGRADELIST_AUTH0_CLIENT_ID")
	cfg.Auth0ClientSecret = os.Getenv("UPGRADELIST_AUTH0_CLIENT_SECRET")

	return cfg, nil
}

func (cfg *Config) SetAppName(name string) {
	cfg.AppName = name
}

func (cfg *Config) SetBaseUrl(url string) {
	cfg.BaseURL = strings.TrimRight(url, "/")
}

func (cfg *Config) SetUserAgent(userAgent string) {
	cfg.UserAgent = userAgent
}

func (cfg *Config) SetTimeout(timeout time.Duration) {
	cfg.Timeout = timeout
}

func (cfg *Config) SetBotToken(token string) {
	cfg.BotToken = token
}

func (cfg *Config) SetAccountIds(accountIds []string) {
	cfg.AccountIds = accountIds
}

func (cfg *Config) SetAuth0(domain, audience string) {
	cfg.Auth0Domain = domain
	cfg.Auth0Audience = audience
}

// TelegramEnabled reports whether operator alerts can be delivered.
func (cfg *Config) TelegramEnabled() bool {
	return cfg.BotToken != "" && len(cfg.AccountIds) > 0
}

// Auth0Enabled reports whether the web dashboard must validate bearer tokens.
func (cfg *Config) Auth0Enabled() bool {
	return cfg.Auth0Domain != "" && cfg.Auth0Audience != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
