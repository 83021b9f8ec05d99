package config

import (
	"strings"
	"time"

	"github.com/heartmarshall/wordfetch/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Lookup  LookupConfig  `yaml:"lookup"`
	HTTP    HTTPConfig    `yaml:"http"`
	Typo    TypoConfig    `yaml:"typo"`
	Media   MediaConfig   `yaml:"media"`
	CORS    CORSConfig    `yaml:"cors"`
	Log     LogConfig     `yaml:"log"`
	FieldMap FieldMapConfig `yaml:"field_map"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// RatePerMinute limits inbound requests per client IP. Zero disables
	// the limiter.
	RatePerMinute int `yaml:"rate_per_minute" env:"SERVER_RATE_PER_MINUTE" env-default:"120"`
}

// CORSConfig holds Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET, OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type, X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"300"`
}

// LookupConfig holds multi-source lookup settings.
type LookupConfig struct {
	// SourcesRaw is a comma-separated list of enabled source IDs.
	SourcesRaw string `yaml:"sources" env:"LOOKUP_SOURCES" env-default:"cambridge,wiktionary,wiktionary_en"`
	// DialectPriorityRaw orders dialect keys used to pick one audio/IPA
	// value when a sense carries several.
	DialectPriorityRaw string `yaml:"dialect_priority" env:"LOOKUP_DIALECT_PRIORITY" env-default:"us,uk"`
	MaxWorkers         int    `yaml:"max_workers"      env:"LOOKUP_MAX_WORKERS"      env-default:"4"`
	MaxExamples        int    `yaml:"max_examples"     env:"LOOKUP_MAX_EXAMPLES"     env-default:"2"`
	MaxSynonyms        int    `yaml:"max_synonyms"     env:"LOOKUP_MAX_SYNONYMS"     env-default:"4"`

	// Sources and DialectPriority are parsed during validation.
	Sources         []domain.SourceID `yaml:"-" env:"-"`
	DialectPriority []string          `yaml:"-" env:"-"`
}

// HTTPConfig holds outbound HTTP settings shared by all fetchers.
type HTTPConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"HTTP_CONNECT_TIMEOUT" env-default:"5s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"15s"`
	UserAgent      string        `yaml:"user_agent"      env:"HTTP_USER_AGENT"      env-default:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	AcceptLanguage string        `yaml:"accept_language" env:"HTTP_ACCEPT_LANGUAGE" env-default:"en-US,en;q=0.9"`
	// RatePerHost throttles outbound requests per host so a burst of
	// suggestion probes does not trip a source's rate limiting.
	RatePerHost float64 `yaml:"rate_per_host" env:"HTTP_RATE_PER_HOST" env-default:"4"`
	RateBurst   int     `yaml:"rate_burst"    env:"HTTP_RATE_BURST"    env-default:"4"`
}

// TypoConfig holds typo/fuzzy-suggestion settings.
type TypoConfig struct {
	Enabled     bool `yaml:"enabled"      env:"TYPO_ENABLED"      env-default:"true"`
	MaxResults  int  `yaml:"max_results"  env:"TYPO_MAX_RESULTS"  env-default:"12"`
	MaxQueries  int  `yaml:"max_queries"  env:"TYPO_MAX_QUERIES"  env-default:"18"`
	MaxWorkers  int  `yaml:"max_workers"  env:"TYPO_MAX_WORKERS"  env-default:"8"`
	CacheSize   int  `yaml:"cache_size"   env:"TYPO_CACHE_SIZE"   env-default:"100"`
	SuggestEach int  `yaml:"suggest_each" env:"TYPO_SUGGEST_EACH" env-default:"8"`
}

// MediaConfig holds media download settings.
type MediaConfig struct {
	Dir             string        `yaml:"dir"              env:"MEDIA_DIR"              env-default:"./media"`
	DownloadTimeout time.Duration `yaml:"download_timeout" env:"MEDIA_DOWNLOAD_TIMEOUT" env-default:"20s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// FieldMapConfig maps sense fields to host-application field names.
// Consumed by the external note-population step, not by the core.
type FieldMapConfig struct {
	Word       string `yaml:"word"       env:"FIELD_WORD"       env-default:"Word,Front"`
	Definition string `yaml:"definition" env:"FIELD_DEFINITION" env-default:"Definition"`
	Examples   string `yaml:"examples"   env:"FIELD_EXAMPLES"   env-default:"Examples,Example"`
	Synonyms   string `yaml:"synonyms"   env:"FIELD_SYNONYMS"   env-default:"Synonyms"`
	Syllables  string `yaml:"syllables"  env:"FIELD_SYLLABLES"  env-default:"Syllables"`
	Audio      string `yaml:"audio"      env:"FIELD_AUDIO"      env-default:"Audio"`
	Picture    string `yaml:"picture"    env:"FIELD_PICTURE"    env-default:"Picture"`
}

// Names splits a comma-separated field mapping into trimmed, non-empty names.
func Names(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			names = append(names, p)
		}
	}
	return names
}
