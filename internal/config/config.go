package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig selects and tunes the snapshot cache.
type CacheConfig struct {
	Backend string `mapstructure:"backend"` // "memory" or "redis"
	TTL     string `mapstructure:"ttl"`     // duration string, e.g., "15m"
}

// SourceConfig controls access to the remote discussion site.
type SourceConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	UserAgent          string `mapstructure:"user_agent"`
	Timeout            string `mapstructure:"timeout"`              // per-fetch, e.g., "15s"
	MinRequestInterval string `mapstructure:"min_request_interval"` // global gate, e.g., "2s"
	MaxPages           int    `mapstructure:"max_pages"`            // search pagination bound
}

// SubscriptionsConfig controls the subscription store and merged feed.
type SubscriptionsConfig struct {
	File        string `mapstructure:"file"`
	MergedLimit int    `mapstructure:"merged_limit"`
}

// Config is the top-level configuration structure.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Source        SourceConfig        `mapstructure:"source"`
	Subscriptions SubscriptionsConfig `mapstructure:"subscriptions"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "15m"
	}
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = "https://eksisozluk.com"
	}
	if c.Source.Timeout == "" {
		c.Source.Timeout = "15s"
	}
	if c.Source.MinRequestInterval == "" {
		c.Source.MinRequestInterval = "2s"
	}
	if c.Source.MaxPages == 0 {
		c.Source.MaxPages = 3
	}
	if c.Subscriptions.File == "" {
		c.Subscriptions.File = "./subscriptions.yaml"
	}
	if c.Subscriptions.MergedLimit == 0 {
		c.Subscriptions.MergedLimit = 10
	}
}
