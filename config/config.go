package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"learnbase/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProfileDevelopment = "development"
	ProfileTesting     = "testing"
	ProfileProduction  = "production"

	envPrefix = "LEARNBASE"

	defaultSecretKey     = "a-very-secret-key-that-you-should-change"
	defaultAdminPassword = "admin1234"
)

type DefaultPaths struct {
	ConfigDir     string
	DataDir       string
	LogPathApp    string
	LogPathAccess string
	DBPath        string
	ImageDir      string
	LogLevel      string
}

type Configuration struct {
	Profile       string `mapstructure:"profile"`
	SecretKey     string `mapstructure:"secret_key"`
	AdminPassword string `mapstructure:"admin_password"`
	Server        struct {
		Host    string `mapstructure:"host"`
		Port    string `mapstructure:"port"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"server"`
	Notes struct {
		PerPage int `mapstructure:"per_page"`
	} `mapstructure:"notes"`
	Images struct {
		Dir               string   `mapstructure:"dir"`
		URLPrefix         string   `mapstructure:"url_prefix"`
		AllowedExtensions []string `mapstructure:"allowed_extensions"`
		MaxWidth          int      `mapstructure:"max_width"`
		Quality           int      `mapstructure:"quality"`
	} `mapstructure:"images"`
	Database struct {
		Path       string `mapstructure:"path"`
		SeedSample bool   `mapstructure:"seed_sample"`
	} `mapstructure:"database"`
	Auth struct {
		RequireAdmin bool `mapstructure:"require_admin"`
	} `mapstructure:"auth"`
	Logging struct {
		Level         string `mapstructure:"level"`
		AppLogPath    string `mapstructure:"app_log_path"`
		AccessLogPath string `mapstructure:"access_log_path"`
	} `mapstructure:"logging"`
}

// Addr is the listen address of the HTTP server.
func (c Configuration) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

var AppConfig Configuration

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// ExpandTilde resolves a leading ~ to the user's home directory, leaving path
// untouched when that fails.
func ExpandTilde(path string) string {
	expanded, err := expandTilde(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not expand tilde in '%s': %v. Using original path.\n", path, err)
		return path
	}
	return expanded
}

func GetDefaultConfigPaths() DefaultPaths {
	var paths DefaultPaths
	userConfigDirBase, err := os.UserConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not get user config dir: %v. Using current directory.\n", err)
		userConfigDirBase = "."
	}

	paths.ConfigDir = filepath.Join(ExpandTilde(userConfigDirBase), "learnbase")
	paths.DataDir = paths.ConfigDir
	logDir := filepath.Join(paths.ConfigDir, "logs")
	paths.LogPathApp = filepath.Join(logDir, "app.log")
	paths.LogPathAccess = filepath.Join(logDir, "access.log")
	paths.DBPath = filepath.Join(paths.DataDir, "learnbase.db")
	paths.ImageDir = filepath.Join(paths.DataDir, "images")
	paths.LogLevel = "INFO"
	return paths
}

// profileDatabase returns the default database location and the legacy
// environment variable that overrides it for a profile.
func profileDatabase(profile string, defaults DefaultPaths) (string, string) {
	switch profile {
	case ProfileTesting:
		return ":memory:", "TEST_DATABASE_URL"
	case ProfileProduction:
		return filepath.Join(".", "instance", "learnbase.db"), "DATABASE_URL"
	default:
		return defaults.DBPath, "DEV_DATABASE_URL"
	}
}

// DatabasePath accepts a plain file path or a sqlite:/// URL.
func DatabasePath(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "sqlite://", dsn == "sqlite:///:memory:":
		return ":memory:"
	case strings.HasPrefix(dsn, "sqlite:///"):
		return strings.TrimPrefix(dsn, "sqlite:///")
	}
	return dsn
}

func normalizeProfile(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case ProfileTesting:
		return ProfileTesting
	case ProfileProduction:
		return ProfileProduction
	default:
		return ProfileDevelopment
	}
}

func newViper(cfgFile string, defaults DefaultPaths) *viper.Viper {
	v := viper.New()

	v.SetDefault("profile", ProfileDevelopment)
	v.SetDefault("secret_key", defaultSecretKey)
	v.SetDefault("admin_password", defaultAdminPassword)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.base_url", "")
	v.SetDefault("notes.per_page", 9)
	v.SetDefault("images.dir", defaults.ImageDir)
	v.SetDefault("images.url_prefix", "/static/images")
	v.SetDefault("images.allowed_extensions", []string{"png", "jpg", "jpeg", "gif", "webp"})
	v.SetDefault("images.max_width", 800)
	v.SetDefault("images.quality", 85)
	v.SetDefault("database.path", "")
	v.SetDefault("database.seed_sample", false)
	v.SetDefault("auth.require_admin", true)
	v.SetDefault("logging.level", defaults.LogLevel)
	v.SetDefault("logging.app_log_path", defaults.LogPathApp)
	v.SetDefault("logging.access_log_path", defaults.LogPathAccess)

	if cfgFile != "" {
		v.SetConfigFile(ExpandTilde(cfgFile))
		v.SetConfigType("yaml")
	} else {
		v.AddConfigPath(defaults.ConfigDir)
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Unprefixed names kept for deployments configured for the earlier app.
	_ = v.BindEnv("secret_key", envPrefix+"_SECRET_KEY", "SECRET_KEY")
	_ = v.BindEnv("admin_password", envPrefix+"_ADMIN_PASSWORD", "ADMIN_PASSWORD")
	_ = v.BindEnv("profile", envPrefix+"_PROFILE", "FLASK_CONFIG")
	return v
}

// Load reads defaults, the config file and the environment into a
// Configuration without touching AppConfig or the loggers. The returned
// message says where configuration came from.
func Load(cfgFile string) (Configuration, string, error) {
	var cfg Configuration
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Could not load .env file: %v\n", err)
	}

	defaults := GetDefaultConfigPaths()
	v := newViper(cfgFile, defaults)

	configUsedMsg := "Using default/environment configuration."
	readErr := v.ReadInConfig()
	if readErr == nil {
		configUsedMsg = fmt.Sprintf("Using config file: %s", v.ConfigFileUsed())
	} else if _, ok := readErr.(viper.ConfigFileNotFoundError); ok {
		if cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Warning: Config file specified by flag (%s) not found: %v\n", cfgFile, readErr)
		}
	} else if cfgFile != "" {
		return cfg, "", fmt.Errorf("reading config file %s: %w", cfgFile, readErr)
	} else {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", v.ConfigFileUsed(), readErr)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}

	cfg.Profile = normalizeProfile(cfg.Profile)
	if cfg.Database.Path == "" {
		dbDefault, legacyEnv := profileDatabase(cfg.Profile, defaults)
		cfg.Database.Path = dbDefault
		if fromEnv := os.Getenv(legacyEnv); fromEnv != "" {
			cfg.Database.Path = fromEnv
		}
	}
	cfg.Database.Path = ExpandTilde(DatabasePath(cfg.Database.Path))
	cfg.Images.Dir = ExpandTilde(cfg.Images.Dir)
	cfg.Logging.AppLogPath = ExpandTilde(cfg.Logging.AppLogPath)
	cfg.Logging.AccessLogPath = ExpandTilde(cfg.Logging.AccessLogPath)
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Notes.PerPage <= 0 {
		cfg.Notes.PerPage = 9
	}
	return cfg, configUsedMsg, nil
}

// Init loads configuration into AppConfig, applies flag overrides and
// re-initializes the loggers with the final paths.
func Init(cfgFile string, flagAppLogPath, flagAccessLogPath, flagLogLevel string) error {
	cfg, configUsedMsg, err := Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Error loading configuration: %v\n", err)
		return err
	}

	if flagAppLogPath != "" {
		cfg.Logging.AppLogPath = ExpandTilde(flagAppLogPath)
	}
	if flagAccessLogPath != "" {
		cfg.Logging.AccessLogPath = ExpandTilde(flagAccessLogPath)
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = strings.ToUpper(flagLogLevel)
	}
	AppConfig = cfg

	if err := logger.InitGlobalLoggers(AppConfig.Logging.AppLogPath, AppConfig.Logging.AccessLogPath, AppConfig.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to initialize global loggers with final config: %v\n", err)
		return fmt.Errorf("failed to initialize global loggers with final config: %w", err)
	}

	logger.Info(configUsedMsg)
	logger.Info("Profile: %s. Database: %s. Images: %s", AppConfig.Profile, AppConfig.Database.Path, AppConfig.Images.Dir)
	if AppConfig.SecretKey == defaultSecretKey {
		logger.Warn("secret_key is the built-in default; set %s_SECRET_KEY or SECRET_KEY.", envPrefix)
	}
	if AppConfig.AdminPassword == defaultAdminPassword {
		logger.Warn("admin_password is the built-in default; set %s_ADMIN_PASSWORD or ADMIN_PASSWORD.", envPrefix)
	}
	if !AppConfig.Auth.RequireAdmin {
		logger.Warn("auth.require_admin is off: every visitor may add, edit and delete notes.")
	}
	logger.Debug("Final AppConfig Initialized: profile=%s port=%s per_page=%d", AppConfig.Profile, AppConfig.Server.Port, AppConfig.Notes.PerPage)
	return nil
}
