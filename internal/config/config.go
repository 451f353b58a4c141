package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/okonenko/ncm-grabber/internal/constants"
	"github.com/okonenko/ncm-grabber/internal/logger"
	"github.com/okonenko/ncm-grabber/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// OutputDir is the directory path where downloaded files will be saved.
	OutputDir string `mapstructure:"output_dir"`
	// Quality specifies the preferred audio quality (standard, exhigh, lossless, hires).
	Quality string `mapstructure:"quality"`
	// PreferredFormat specifies the preferred container format (auto, mp3, flac).
	PreferredFormat string `mapstructure:"preferred_format"`
	// NamingTemplate is the template for naming downloaded track files.
	NamingTemplate string `mapstructure:"template"`
	// DownloadLyrics indicates whether to save lyrics alongside tracks.
	DownloadLyrics bool `mapstructure:"download_lyrics"`
	// UseDownloadAPI indicates whether to resolve audio through the standard download endpoint
	// before falling back to the player endpoints.
	UseDownloadAPI bool `mapstructure:"use_download_api"`
	// Overwrite indicates whether to replace existing track files.
	Overwrite bool `mapstructure:"overwrite"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// RetryAttemptsCount is the number of attempts for failed requests.
	RetryAttemptsCount int64 `mapstructure:"retry_attempts_count"`
	// MinRetryPause is the minimum pause duration before retrying.
	MinRetryPause string `mapstructure:"min_retry_pause"`
	// MaxRetryPause is the maximum pause duration before retrying.
	MaxRetryPause string `mapstructure:"max_retry_pause"`
	// DownloadSpeedLimit sets the maximum download speed (e.g., "1MB", "500KB").
	DownloadSpeedLimit string `mapstructure:"download_speed_limit"`
	// DownloadTimeout bounds a single track transfer.
	DownloadTimeout string `mapstructure:"download_timeout"`
	// MaxConcurrentDownloads is the maximum number of tracks to download simultaneously.
	MaxConcurrentDownloads int64 `mapstructure:"max_concurrent_downloads"`
	// SessionFile is the path where the authenticated session is persisted.
	SessionFile string `mapstructure:"session_file"`
	// NCMBaseURL is the base URL for the NetEase Cloud Music API (set automatically).
	NCMBaseURL string
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedDownloadSpeedLimit is the parsed download speed limit in bytes.
	ParsedDownloadSpeedLimit int64
	// ParsedMinRetryPause is the parsed minimum retry pause duration.
	ParsedMinRetryPause time.Duration
	// ParsedMaxRetryPause is the parsed maximum retry pause duration.
	ParsedMaxRetryPause time.Duration
	// ParsedDownloadTimeout is the parsed single track transfer timeout.
	ParsedDownloadTimeout time.Duration
}

const (
	// NCMBaseURL is the base URL for the NetEase Cloud Music service.
	NCMBaseURL = "https://music.163.com"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".ncm-grabber.yaml"

	// DefaultNamingTemplate is the default template for naming downloaded track files.
	DefaultNamingTemplate = "{title} - {artist}"

	// DefaultMaxLogLength is the default maximum size (in bytes) for logged request dumps.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB
)

// Default values applied when a key is absent from the configuration file.
const (
	defaultOutputDir              = "downloads"
	defaultQuality                = "exhigh"
	defaultPreferredFormat        = "auto"
	defaultLogLevel               = "info"
	defaultRetryAttemptsCount     = 5
	defaultMinRetryPause          = "1s"
	defaultMaxRetryPause          = "8s"
	defaultDownloadTimeout        = "10m"
	defaultMaxConcurrentDownloads = 1
	defaultSessionFile            = "session.ncm"
)

// knownQualities enumerates valid values for the quality setting.
var knownQualities = map[string]struct{}{
	"standard": {},
	"exhigh":   {},
	"lossless": {},
	"hires":    {},
}

// knownFormats enumerates valid values for the preferred_format setting.
var knownFormats = map[string]struct{}{
	"auto": {},
	"mp3":  {},
	"flac": {},
}

// Static error definitions for better error handling.
var (
	// ErrInvalidQuality indicates that the quality setting is invalid.
	ErrInvalidQuality = errors.New("invalid quality")
	// ErrInvalidFormat indicates that the preferred format setting is invalid.
	ErrInvalidFormat = errors.New("invalid preferred_format")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidRetryAttempts indicates that the retry attempts count is invalid.
	ErrInvalidRetryAttempts = errors.New("retry attempts count must be a positive integer")
	// ErrInvalidMinRetryPause indicates that the min retry pause duration is invalid.
	ErrInvalidMinRetryPause = errors.New("min_retry_pause must be positive")
	// ErrInvalidMaxRetryPause indicates that the max retry pause duration is invalid.
	ErrInvalidMaxRetryPause = errors.New("max_retry_pause must be positive")
	// ErrInvalidDownloadTimeout indicates that the download timeout duration is invalid.
	ErrInvalidDownloadTimeout = errors.New("download_timeout must be positive")
	// ErrInvalidConcurrentDownloads indicates that the concurrent downloads count is invalid.
	ErrInvalidConcurrentDownloads = errors.New("max concurrent downloads must be a positive integer")
	// ErrEmptySessionFile indicates that the session file path is missing.
	ErrEmptySessionFile = errors.New("session_file cannot be empty")
	// ErrUnknownConfigKey indicates that a configuration key is not recognized.
	ErrUnknownConfigKey = errors.New("unknown configuration key")
)

// setDefaults registers the default value for every configuration key
// so a partial or missing configuration file still yields a usable config.
func setDefaults() {
	viper.SetDefault("output_dir", defaultOutputDir)
	viper.SetDefault("quality", defaultQuality)
	viper.SetDefault("preferred_format", defaultPreferredFormat)
	viper.SetDefault("template", DefaultNamingTemplate)
	viper.SetDefault("download_lyrics", false)
	viper.SetDefault("use_download_api", false)
	viper.SetDefault("overwrite", false)
	viper.SetDefault("log_level", defaultLogLevel)
	viper.SetDefault("retry_attempts_count", defaultRetryAttemptsCount)
	viper.SetDefault("min_retry_pause", defaultMinRetryPause)
	viper.SetDefault("max_retry_pause", defaultMaxRetryPause)
	viper.SetDefault("download_speed_limit", "")
	viper.SetDefault("download_timeout", defaultDownloadTimeout)
	viper.SetDefault("max_concurrent_downloads", defaultMaxConcurrentDownloads)
	viper.SetDefault("session_file", defaultSessionFile)
}

// LoadConfig loads configuration settings from a YAML file.
// A missing configuration file is not an error: defaults apply.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The base URL is not a file key: every loaded config must carry it,
	// whether or not validation runs afterwards.
	cfg.NCMBaseURL = NCMBaseURL

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:funlen,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var (
		downloadSpeedLimit       = strings.TrimSpace(cfg.DownloadSpeedLimit)
		parsedDownloadSpeedLimit uint64
		err                      error
	)

	cfg.NCMBaseURL = NCMBaseURL

	cfg.Quality = strings.ToLower(strings.TrimSpace(cfg.Quality))
	if _, ok := knownQualities[cfg.Quality]; !ok {
		return fmt.Errorf("%w: '%s', must be one of standard, exhigh, lossless, hires",
			ErrInvalidQuality, cfg.Quality)
	}

	cfg.PreferredFormat = strings.ToLower(strings.TrimSpace(cfg.PreferredFormat))
	if _, ok := knownFormats[cfg.PreferredFormat]; !ok {
		return fmt.Errorf("%w: '%s', must be one of auto, mp3, flac",
			ErrInvalidFormat, cfg.PreferredFormat)
	}

	if cfg.NamingTemplate == "" {
		cfg.NamingTemplate = DefaultNamingTemplate
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if downloadSpeedLimit != "" && downloadSpeedLimit != "0" {
		parsedDownloadSpeedLimit, err = humanize.ParseBytes(downloadSpeedLimit)
		if err != nil {
			return fmt.Errorf("failed to parse download speed limit: %w", err)
		}
	}

	// io.CopyN accepts only int64 so we transform it safely in order to use it later.
	cfg.ParsedDownloadSpeedLimit = utils.SafeUint64ToInt64(parsedDownloadSpeedLimit)

	if cfg.RetryAttemptsCount <= 0 {
		return ErrInvalidRetryAttempts
	}

	cfg.ParsedMinRetryPause, err = time.ParseDuration(cfg.MinRetryPause)
	if err != nil {
		return fmt.Errorf("failed to parse min retry pause: %w", err)
	}

	if cfg.ParsedMinRetryPause <= 0 {
		return ErrInvalidMinRetryPause
	}

	cfg.ParsedMaxRetryPause, err = time.ParseDuration(cfg.MaxRetryPause)
	if err != nil {
		return fmt.Errorf("failed to parse max retry pause: %w", err)
	}

	if cfg.ParsedMaxRetryPause <= 0 {
		return ErrInvalidMaxRetryPause
	}

	cfg.ParsedDownloadTimeout, err = time.ParseDuration(cfg.DownloadTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse download timeout: %w", err)
	}

	if cfg.ParsedDownloadTimeout <= 0 {
		return ErrInvalidDownloadTimeout
	}

	if cfg.MaxConcurrentDownloads <= 0 {
		return ErrInvalidConcurrentDownloads
	}

	if strings.TrimSpace(cfg.SessionFile) == "" {
		return ErrEmptySessionFile
	}

	return nil
}

// SaveConfigValue updates a single key in the configuration file
// while preserving the original format and order.
func SaveConfigValue(key, value string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("%w: '%s'", ErrUnknownConfigKey, key)
	}

	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, key, value, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Update the value in the node tree, appending the key if absent.
	upsertValueInNode(&node, key, value)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	// Write the file back with preserved order.
	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigValue returns the effective value of a configuration key.
func GetConfigValue(key string) (string, error) {
	if !isKnownKey(key) {
		return "", fmt.Errorf("%w: '%s'", ErrUnknownConfigKey, key)
	}

	return viper.GetString(key), nil
}

// isKnownKey reports whether the key maps to a persisted configuration field.
func isKnownKey(key string) bool {
	switch key {
	case "output_dir", "quality", "preferred_format", "template",
		"download_lyrics", "use_download_api", "overwrite", "log_level",
		"retry_attempts_count", "min_retry_pause", "max_retry_pause",
		"download_speed_limit", "download_timeout", "max_concurrent_downloads",
		"session_file":
		return true
	}

	return false
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile, key, value string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// File doesn't exist, create it with viper.
	viper.Set(key, value)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// upsertValueInNode updates a key in the YAML node tree, appending it when missing.
func upsertValueInNode(node *yaml.Node, key, value string) {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value == key {
			// Update the value while preserving style.
			valueNode.Value = value
			valueNode.Tag = "!!str"

			// Ensure it's quoted if it contains special characters.
			if valueNode.Style == 0 {
				valueNode.Style = yaml.DoubleQuotedStyle
			}

			return
		}
	}

	// The key is absent, append it at the end of the mapping.
	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle},
	)
}
