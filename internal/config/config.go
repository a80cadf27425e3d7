package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	commoncfg "github.com/JakeSchindel1/JHOnboard-sub001/common/config"
)

// Config intake-data（HTTP API）配置
// 加载顺序：默认值 → CONFIG_FILE（YAML，可选）→ 环境变量
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
		// PublicBaseURL CLI/客户端提交时使用的服务地址
		PublicBaseURL string `yaml:"public_base_url"`
	} `yaml:"http"`
	DBEnabled   bool                     `yaml:"db_enabled"`
	ApplySchema bool                     `yaml:"apply_schema"`
	Database    commoncfg.DatabaseConfig `yaml:"database"`

	RedisEnabled bool                  `yaml:"redis_enabled"`
	Redis        commoncfg.RedisConfig `yaml:"redis"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Session SessionConfig `yaml:"session"`
	PDF     PDFConfig     `yaml:"pdf"`
	Archive ArchiveConfig `yaml:"archive"`
	Notify  NotifyConfig  `yaml:"notify"`
}

// SessionConfig 向导会话与登录会话
type SessionConfig struct {
	WizardTTL     time.Duration `yaml:"wizard_ttl"`     // 向导会话闲置过期
	SweepInterval time.Duration `yaml:"sweep_interval"` // 过期清理周期
	KeyPrefix     string        `yaml:"key_prefix"`     // KV 中登录会话的 key 前缀
	LoginTTL      time.Duration `yaml:"login_ttl"`      // 登录会话有效期
	// DevIssuer 开启 POST /api/auth/dev-session（本地联调用，生产由身份提供方写入会话）
	DevIssuer bool `yaml:"dev_issuer"`
}

// PDFConfig PDF 生成函数
type PDFConfig struct {
	FunctionURL string        `yaml:"function_url"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ArchiveConfig 生成的 PDF 归档到 S3（默认关闭）
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`
}

// NotifyConfig 提交成功后的下游通知
type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"` // 工作流触发地址

	MQTTEnabled bool                 `yaml:"mqtt_enabled"`
	MQTT        commoncfg.MQTTConfig `yaml:"mqtt"`
	MQTTTopic   string               `yaml:"mqtt_topic"`

	StreamEnabled bool   `yaml:"stream_enabled"` // Redis Stream（需要 RedisEnabled）
	Stream        string `yaml:"stream"`
	StreamMaxLen  int64  `yaml:"stream_max_len"`
}

// Defaults 默认配置
func Defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8080"
	cfg.HTTP.PublicBaseURL = "http://localhost:8080"
	cfg.DBEnabled = true
	cfg.ApplySchema = true
	cfg.Database = commoncfg.DatabaseConfig{
		Driver:   "postgres",
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "intake",
		SSLMode:  "disable",
		MaxConns: 10,
		MaxIdle:  5,
	}
	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	cfg.Session = SessionConfig{WizardTTL: 2 * time.Hour, SweepInterval: 5 * time.Minute, KeyPrefix: "intake:session:", LoginTTL: 12 * time.Hour}
	cfg.PDF.Timeout = 2 * time.Minute
	cfg.Archive.Region = "us-east-1"
	cfg.Archive.Prefix = "intake-pdfs"
	cfg.Notify.MQTT = commoncfg.MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "intake-data", QoS: 1}
	cfg.Notify.MQTTTopic = "intake/submitted"
	cfg.Notify.Stream = "intake:submitted"
	cfg.Notify.StreamMaxLen = 10000
	return cfg
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile 用 YAML 文件覆盖当前配置（未出现的键保持原值）
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	c.HTTP.PublicBaseURL = getEnv("PUBLIC_BASE_URL", c.HTTP.PublicBaseURL)

	c.DBEnabled = parseBool(getEnv("DB_ENABLED", ""), c.DBEnabled)
	c.ApplySchema = parseBool(getEnv("DB_APPLY_SCHEMA", ""), c.ApplySchema)
	c.Database.LoadFromEnv("DB")

	c.RedisEnabled = parseBool(getEnv("REDIS_ENABLED", ""), c.RedisEnabled)
	c.Redis.LoadFromEnv("REDIS")

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	c.Session.WizardTTL = parseDuration(getEnv("WIZARD_SESSION_TTL", ""), c.Session.WizardTTL)
	c.Session.SweepInterval = parseDuration(getEnv("WIZARD_SWEEP_INTERVAL", ""), c.Session.SweepInterval)
	c.Session.KeyPrefix = getEnv("SESSION_KEY_PREFIX", c.Session.KeyPrefix)
	c.Session.LoginTTL = parseDuration(getEnv("LOGIN_SESSION_TTL", ""), c.Session.LoginTTL)
	c.Session.DevIssuer = parseBool(getEnv("SESSION_DEV_ISSUER", ""), c.Session.DevIssuer)

	c.PDF.FunctionURL = getEnv("PDF_FUNCTION_URL", c.PDF.FunctionURL)
	c.PDF.Timeout = parseDuration(getEnv("PDF_TIMEOUT", ""), c.PDF.Timeout)

	c.Archive.Enabled = parseBool(getEnv("ARCHIVE_ENABLED", ""), c.Archive.Enabled)
	c.Archive.Bucket = getEnv("ARCHIVE_S3_BUCKET", c.Archive.Bucket)
	c.Archive.Region = getEnv("ARCHIVE_S3_REGION", c.Archive.Region)
	c.Archive.Endpoint = getEnv("ARCHIVE_S3_ENDPOINT", c.Archive.Endpoint)
	c.Archive.Prefix = getEnv("ARCHIVE_S3_PREFIX", c.Archive.Prefix)
	c.Archive.PathStyle = parseBool(getEnv("ARCHIVE_S3_PATH_STYLE", ""), c.Archive.PathStyle)

	c.Notify.WebhookURL = getEnv("POWER_AUTOMATE_FLOW_URL", c.Notify.WebhookURL)
	c.Notify.MQTTEnabled = parseBool(getEnv("MQTT_ENABLED", ""), c.Notify.MQTTEnabled)
	c.Notify.MQTT.LoadFromEnv("MQTT")
	c.Notify.MQTTTopic = getEnv("MQTT_TOPIC", c.Notify.MQTTTopic)
	c.Notify.StreamEnabled = parseBool(getEnv("STREAM_ENABLED", ""), c.Notify.StreamEnabled)
	c.Notify.Stream = getEnv("STREAM_NAME", c.Notify.Stream)
	c.Notify.StreamMaxLen = int64(parseInt(getEnv("STREAM_MAX_LEN", ""), int(c.Notify.StreamMaxLen)))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
