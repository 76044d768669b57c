// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Uploads  UploadConfig   `mapstructure:"uploads"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
	AllowOrigin  string `mapstructure:"allow_origin"`
	// SessionIdleTimeout tears down pages left untouched this long. milliseconds
	SessionIdleTimeout int `mapstructure:"session_idle_timeout"`
}

// BackendConfig points at the ATS REST backend every page talks to.
type BackendConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	Timeout         int    `mapstructure:"timeout"` // milliseconds
	WithCredentials bool   `mapstructure:"with_credentials"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	JobListTTL int    `mapstructure:"job_list_ttl"` // milliseconds
	KeyPrefix  string `mapstructure:"key_prefix"`
}

type UploadConfig struct {
	MaxFileBytes       int64  `mapstructure:"max_file_bytes"`
	AllowedContentType string `mapstructure:"allowed_content_type"`
	FormField          string `mapstructure:"form_field"`
	MaxDisplay         int    `mapstructure:"max_display"`
}

// ScheduleConfig holds the defaults prefilled into the interview dialog.
type ScheduleConfig struct {
	DefaultDescription string `mapstructure:"default_description"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
