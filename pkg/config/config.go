package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"GoldPulse/internal/services/engine"
	"GoldPulse/internal/services/features"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080" validate:"gt=0"`
		CORS            bool          `yaml:"cors"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logger struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logger"`
	Backend struct {
		// clickhouse: jobs write alerts directly; kafka: jobs publish and the sink consumer persists.
		Type string `yaml:"type" default:"clickhouse" validate:"oneof=clickhouse kafka"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		AlertsTopic  string   `yaml:"alerts_topic" default:"goldpulse.alerts"`
		OpsTopic     string   `yaml:"ops_topic" default:"goldpulse.ops"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchSize    int           `yaml:"batch_size" default:"50"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"producer"`
		Consumer struct {
			Enabled    bool          `yaml:"enabled"`
			GroupID    string        `yaml:"group_id" default:"goldpulse-alert-sink"`
			Workers    int           `yaml:"workers" default:"2"`
			BufferSize int           `yaml:"buffer_size" default:"64"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"3s"`
			DLQTopic   string        `yaml:"dlq_topic" default:"goldpulse.alerts.dlq"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		// Disabled runs on in-process stores; nothing survives a restart.
		Enabled      bool          `yaml:"enabled" default:"true"`
		Host         string        `yaml:"host" default:"localhost"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"goldpulse"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		UseHTTP      bool          `yaml:"use_http"`
		AsyncInsert  bool          `yaml:"async_insert"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"goldpulse"`
	} `yaml:"redis"`
	Queue struct {
		Workers    int           `yaml:"workers" default:"1"`
		RetryLimit int           `yaml:"retry_limit" default:"3"`
		RetryDelay time.Duration `yaml:"retry_delay" default:"15s"`
	} `yaml:"queue"`
	TwelveData struct {
		APIKey           string        `yaml:"api_key"`
		BaseURL          string        `yaml:"base_url" default:"https://api.twelvedata.com"`
		SymbolCandidates []string      `yaml:"symbol_candidates" default:"[\"XAU/USD\",\"XAUUSD\"]" validate:"min=1"`
		Interval         string        `yaml:"interval" default:"1min" validate:"required"`
		Lookback         int           `yaml:"lookback" default:"720" validate:"gt=0"`
		Timeout          time.Duration `yaml:"timeout" default:"25s"`
		Retries          int           `yaml:"retries" default:"2"`
		BackoffBase      time.Duration `yaml:"backoff_base" default:"600ms"`
	} `yaml:"twelvedata"`
	News struct {
		Enabled      bool          `yaml:"enabled" default:"true"`
		BaseURL      string        `yaml:"base_url" default:"https://api.gdeltproject.org"`
		MaxItems     int           `yaml:"max_items" default:"8"`
		RelevanceMin float64       `yaml:"relevance_min" default:"0.20"`
		CacheTTL     time.Duration `yaml:"cache_ttl" default:"30m"`
	} `yaml:"news"`
	Macro struct {
		Enabled  bool          `yaml:"enabled" default:"true"`
		BaseURL  string        `yaml:"base_url" default:"https://api.tradingeconomics.com"`
		APIKey   string        `yaml:"api_key"`
		MaxItems int           `yaml:"max_items" default:"20"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"1h"`
	} `yaml:"macro"`
	Binance struct {
		RESTURL    string `yaml:"rest_url" default:"https://api.binance.com"`
		StreamURL  string `yaml:"stream_url" default:"wss://stream.binance.com:9443/ws"`
		Symbol     string `yaml:"symbol" default:"PAXGUSDT"`
		DepthLimit int    `yaml:"depth_limit" default:"1000"`
		UseStream  bool   `yaml:"use_stream"`

		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"20s"`
	} `yaml:"binance"`
	Telegram struct {
		Enabled        bool    `yaml:"enabled"`
		BaseURL        string  `yaml:"base_url" default:"https://api.telegram.org"`
		BotToken       string  `yaml:"bot_token"`
		ChatID         string  `yaml:"chat_id"`
		Label          string  `yaml:"label" default:"Gold (XAU) / USD"`
		BurstPerMinute float64 `yaml:"burst_per_minute" default:"20"`
	} `yaml:"telegram"`
	Signal struct {
		MinConfidence int     `yaml:"min_confidence" default:"80" validate:"gte=0,lte=100"`
		SLATRMult     float64 `yaml:"sl_atr_mult" default:"1.0" validate:"gt=0"`
		TP1R          float64 `yaml:"tp1_r" default:"1.5" validate:"gt=0"`
		TP2R          float64 `yaml:"tp2_r" default:"2.5" validate:"gtfield=TP1R"`
		MinBars       int     `yaml:"min_bars" default:"240"`
		MacroSuppress float64 `yaml:"macro_suppress" default:"0.60"`
		CooldownSec   int     `yaml:"cooldown_sec" default:"1800"`
		NoveltyFrac   float64 `yaml:"novelty_frac" default:"0.0012"`

		Thresholds engine.Thresholds `yaml:"thresholds"`
	} `yaml:"signal"`
	Features  features.Config `yaml:"features"`
	OrderBook struct {
		Enabled         bool    `yaml:"enabled" default:"true"`
		WindowSize      int     `yaml:"window_size" default:"48" validate:"gte=10"`
		MinSamples      int     `yaml:"min_samples" default:"10"`
		DepthBand       float64 `yaml:"depth_band" default:"0.0025"`
		WallUSD         float64 `yaml:"wall_usd" default:"350000"`
		DeltaAbsUSD     float64 `yaml:"delta_abs_usd" default:"150000"`
		DeltaStdK       float64 `yaml:"delta_std_k" default:"3.0"`
		SpreadZ         float64 `yaml:"spread_z" default:"3.0"`
		ImbalanceZ      float64 `yaml:"imbalance_z" default:"3.0"`
		ImbalanceAbs    float64 `yaml:"imbalance_abs" default:"0.22"`
		VacuumZ         float64 `yaml:"vacuum_z" default:"-2.5"`
		MajorImbalanceZ float64 `yaml:"major_imbalance_z" default:"4.0"`
		ConfirmWindow   int     `yaml:"confirm_window" default:"5" validate:"gt=0"`
		ConfirmHits     int     `yaml:"confirm_hits" default:"3" validate:"gt=0,ltefield=ConfirmWindow"`
		CooldownSec     int     `yaml:"cooldown_sec" default:"300"`
	} `yaml:"orderbook"`
	Schedule struct {
		CandlesEvery   time.Duration `yaml:"candles_every" default:"60s"`
		NewsEvery      time.Duration `yaml:"news_every" default:"3m"`
		MacroEvery     time.Duration `yaml:"macro_every" default:"5m"`
		EvaluateEvery  time.Duration `yaml:"evaluate_every" default:"60s"`
		OrderBookEvery time.Duration `yaml:"orderbook_every" default:"5s"`
	} `yaml:"schedule"`
}

var validate = validator.New()

// Load reads a YAML file, applies defaults for anything left unset and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse is Load without the file read.
func Parse(b []byte) (*Config, error) {
	var c Config
	// defaults first so explicit false/zero values in the file survive
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads .env (when present), the YAML file, then applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TWELVEDATA_API_KEY"); v != "" {
		c.TwelveData.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("TRADING_ECONOMICS_KEY"); v != "" {
		c.Macro.APIKey = strings.TrimSpace(v)
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = strings.TrimSpace(v)
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = strings.TrimSpace(v)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID != "" {
		c.Telegram.Enabled = true
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Redis.Host = host
		if p, err := strconv.Atoi(port); ok && err == nil {
			c.Redis.Port = p
		}
		c.Redis.Enabled = true
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
}

// Validate checks struct tags and the cross-section rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Backend.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when backend.type is kafka")
	}
	if c.Kafka.Consumer.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka.consumer.enabled")
	}
	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id are required when telegram is enabled")
	}
	if c.OrderBook.MinSamples > c.OrderBook.WindowSize {
		return fmt.Errorf("orderbook.min_samples (%d) exceeds orderbook.window_size (%d)",
			c.OrderBook.MinSamples, c.OrderBook.WindowSize)
	}
	return nil
}
