package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Model providers.
const (
	ProviderOpenAI = "openai"
	ProviderQwen   = "qwen"
)

// Config is the root configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"  yaml:"logger"`
	Model   ModelConfig   `mapstructure:"model"   yaml:"model"`
	Agent   AgentConfig   `mapstructure:"agent"   yaml:"agent"`
	Android AndroidConfig `mapstructure:"android" yaml:"android"`
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
}

// LoggerConfig controls the structured logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level"        yaml:"level"`
	Format      string      `mapstructure:"format"       yaml:"format"`
	AddSource   bool        `mapstructure:"add_source"   yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file"     yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size"     yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups"  yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age"      yaml:"max_age"`
	Compress    bool        `mapstructure:"compress"     yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors"       yaml:"colors"`
}

// ColorConfig names the console color of each log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info"  yaml:"info"`
	Warn  string `mapstructure:"warn"  yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// ModelConfig selects and configures the inference backend.
type ModelConfig struct {
	Provider    string        `mapstructure:"provider"    yaml:"provider"`
	APIKey      string        `mapstructure:"api_key"     yaml:"api_key"`
	BaseURL     string        `mapstructure:"base_url"    yaml:"base_url"`
	Name        string        `mapstructure:"name"        yaml:"name"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"  yaml:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"     yaml:"timeout"`
	// RequestsPerMinute caps inference calls; 0 disables the cap.
	RequestsPerMinute float64 `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	// MaxImageSide downscales uploaded screenshots; 0 sends them as captured.
	MaxImageSide int        `mapstructure:"max_image_side" yaml:"max_image_side"`
	Qwen         QwenConfig `mapstructure:"qwen"           yaml:"qwen"`
}

// QwenConfig holds the DashScope credentials used when Provider is "qwen".
type QwenConfig struct {
	APIKey  string `mapstructure:"api_key"  yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Name    string `mapstructure:"name"     yaml:"name"`
}

// AgentConfig controls the round loop.
type AgentConfig struct {
	MaxRounds       int           `mapstructure:"max_rounds"       yaml:"max_rounds"`
	MinDist         float64       `mapstructure:"min_dist"         yaml:"min_dist"`
	RequestInterval time.Duration `mapstructure:"request_interval" yaml:"request_interval"`
	DarkMode        bool          `mapstructure:"dark_mode"        yaml:"dark_mode"`
	RootDir         string        `mapstructure:"root_dir"         yaml:"root_dir"`
	Lang            string        `mapstructure:"lang"             yaml:"lang"`
}

// AndroidConfig configures the adb backend.
type AndroidConfig struct {
	Serial        string `mapstructure:"serial"         yaml:"serial"`
	ADB           string `mapstructure:"adb"            yaml:"adb"`
	ScreenshotDir string `mapstructure:"screenshot_dir" yaml:"screenshot_dir"`
	XMLDir        string `mapstructure:"xml_dir"        yaml:"xml_dir"`
	Width         int    `mapstructure:"width"          yaml:"width"`
	Height        int    `mapstructure:"height"         yaml:"height"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name    string        `mapstructure:"name"     yaml:"name"`
	RunWait time.Duration `mapstructure:"run_wait" yaml:"run_wait"`
}

// SetDefaults initializes default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "appagent")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Model --
	v.SetDefault("model.provider", ProviderOpenAI)
	v.SetDefault("model.base_url", "https://api.openai.com/v1")
	v.SetDefault("model.name", "gpt-4o")
	v.SetDefault("model.temperature", 0.0)
	v.SetDefault("model.max_tokens", 300)
	v.SetDefault("model.timeout", "2m")
	v.SetDefault("model.requests_per_minute", 0)
	v.SetDefault("model.max_image_side", 0)
	v.SetDefault("model.qwen.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	v.SetDefault("model.qwen.name", "qwen-vl-max")

	// -- Agent --
	v.SetDefault("agent.max_rounds", 20)
	v.SetDefault("agent.min_dist", 30)
	v.SetDefault("agent.request_interval", "3s")
	v.SetDefault("agent.dark_mode", false)
	v.SetDefault("agent.root_dir", "./")
	v.SetDefault("agent.lang", "ENG")

	// -- Android --
	v.SetDefault("android.adb", "adb")
	v.SetDefault("android.screenshot_dir", "/sdcard")
	v.SetDefault("android.xml_dir", "/sdcard")

	// -- Server --
	v.SetDefault("server.name", "appagent")
}

// legacyEnv maps configuration keys to the bare environment names older
// deployments export.
var legacyEnv = map[string]string{
	"model.api_key":          "OPENAI_API_KEY",
	"model.base_url":         "OPENAI_BASE_URL",
	"model.name":             "OPENAI_API_MODEL",
	"model.temperature":      "TEMPERATURE",
	"model.max_tokens":       "MAX_TOKENS",
	"model.qwen.api_key":     "DASHSCOPE_API_KEY",
	"model.qwen.name":        "QWEN_MODEL",
	"agent.max_rounds":       "MAX_ROUNDS",
	"agent.min_dist":         "MIN_DIST",
	"agent.request_interval": "REQUEST_INTERVAL",
	"agent.dark_mode":        "DARK_MODE",
	"android.screenshot_dir": "ANDROID_SCREENSHOT_DIR",
	"android.xml_dir":        "ANDROID_XML_DIR",
}

// BindEnv enables APPAGENT_* overrides (e.g. APPAGENT_AGENT_MAX_ROUNDS) and
// the legacy bare names. The prefixed form wins when both are set.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("APPAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := "APPAGENT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, legacy)
	}
	_ = v.BindEnv("model.provider", "APPAGENT_MODEL_PROVIDER", "MODEL")
}

// NewDefaultConfig returns a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper unmarshals and validates a configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	normalizeSeconds(v, "agent.request_interval")
	normalizeSeconds(v, "model.timeout")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	for _, path := range []*string{&cfg.Agent.RootDir, &cfg.Logger.LogFile} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return nil, fmt.Errorf("expand path %q: %w", *path, err)
		}
		*path = expanded
	}
	cfg.Model.Provider = strings.ToLower(strings.TrimSpace(cfg.Model.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// normalizeSeconds accepts a bare number of seconds for a duration key, the
// form the legacy environment variables use.
func normalizeSeconds(v *viper.Viper, key string) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		v.Set(key, time.Duration(secs*float64(time.Second)))
	}
}

// Load reads path (or ./config.yaml when path is empty and the file exists),
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Agent.MaxRounds <= 0 {
		return fmt.Errorf("agent.max_rounds must be a positive integer")
	}
	if c.Agent.MinDist < 0 {
		return fmt.Errorf("agent.min_dist must not be negative")
	}
	if c.Agent.RequestInterval < 0 {
		return fmt.Errorf("agent.request_interval must not be negative")
	}
	switch strings.ToUpper(c.Agent.Lang) {
	case "ENG", "CHN":
	default:
		return fmt.Errorf("agent.lang must be ENG or CHN, got %q", c.Agent.Lang)
	}
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("model configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the model settings. Credentials are checked when a client
// is built, so commands that never call the model work without them.
func (m *ModelConfig) Validate() error {
	switch m.Provider {
	case ProviderOpenAI, ProviderQwen:
	default:
		return fmt.Errorf("unsupported model provider %q (expected %s or %s)", m.Provider, ProviderOpenAI, ProviderQwen)
	}
	if m.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be a positive integer")
	}
	if m.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must not be negative")
	}
	return nil
}
