package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Supported completion providers.
const (
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	Reddit  RedditConfig  `mapstructure:"reddit"`
	Storage StorageConfig `mapstructure:"storage"`
	LLM     LLMConfig     `mapstructure:"llm"`
}

type RedditConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	UserAgent  string `mapstructure:"user_agent"`
	FetchLimit int    `mapstructure:"fetch_limit"`
}

type StorageConfig struct {
	Backend    string         `mapstructure:"backend"`
	CacheDir   string         `mapstructure:"cache_dir"`
	HistoryDir string         `mapstructure:"history_dir"`
	Database   DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

// defaultModels maps each provider to the model used when the config file
// does not name one.
var defaultModels = map[string]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderGroq:   "llama-3.3-70b-versatile",
	ProviderGemini: "gemini-1.5-flash",
}

// LoadConfig reads the config file (optional), applies environment
// overrides, and validates the result. providerOverride, when non-empty,
// wins over the file's llm.provider before credentials are resolved.
func LoadConfig(path, providerOverride string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("reddit.base_url", "https://www.reddit.com")
	v.SetDefault("reddit.user_agent", "persona-analyser/1.0")
	v.SetDefault("reddit.fetch_limit", 100)
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.cache_dir", "reddit_cache")
	v.SetDefault("storage.history_dir", "chat_history")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.user", "postgres")
	v.SetDefault("storage.database.sslmode", "disable")
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.temperature", 0.7)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file; running on env vars alone is fine
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if providerOverride != "" {
		config.LLM.Provider = providerOverride
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Storage.Database = dbConfig
		config.Storage.Backend = BackendPostgres
	}

	// Get other environment variables
	if ua := v.GetString("REDDIT_USER_AGENT"); ua != "" {
		config.Reddit.UserAgent = ua
	}

	if key := providerAPIKey(v, config.LLM.Provider); key != "" {
		config.LLM.APIKey = key
	}

	if config.LLM.Model == "" {
		config.LLM.Model = defaultModels[config.LLM.Provider]
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func providerAPIKey(v *viper.Viper, provider string) string {
	switch provider {
	case ProviderOpenAI:
		return v.GetString("OPENAI_API_KEY")
	case ProviderGroq:
		return v.GetString("GROQ_API_KEY")
	case ProviderGemini:
		return v.GetString("GEMINI_API_KEY")
	}
	return ""
}

// Validate catches fatal misconfiguration once, at startup.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGroq, ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("missing API key for llm provider %q", c.LLM.Provider)
	}
	switch c.Storage.Backend {
	case BackendFile, BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Reddit.UserAgent == "" {
		return fmt.Errorf("reddit user agent must not be empty")
	}
	return nil
}
