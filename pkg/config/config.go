package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Access   AccessConfig
	Password PasswordConfig
	Store    StoreConfig
	Delivery DeliveryConfig
	Pricing  PricingConfig
	ViaCEP   ViaCEPConfig
	OpenAI   OpenAIConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Outbox   OutboxConfig
	Flags    FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SKB_APP_ENV" required:"true"`
	Port         string `envconfig:"SKB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SKB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SKB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SKB_DB_DSN"`
	Driver string `envconfig:"SKB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SKB_DB_HOST"`
	Port     int    `envconfig:"SKB_DB_PORT" default:"5432"`
	User     string `envconfig:"SKB_DB_USER"`
	Password string `envconfig:"SKB_DB_PASSWORD"`
	Name     string `envconfig:"SKB_DB_NAME"`
	SSLMode  string `envconfig:"SKB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SKB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SKB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SKB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SKB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either SKB_DB_DSN or SKB_DB_HOST/USER/NAME must be set")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SKB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SKB_REDIS_ADDR"`
	Password     string        `envconfig:"SKB_REDIS_PASSWORD"`
	DB           int           `envconfig:"SKB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SKB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SKB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SKB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SKB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SKB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SKB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SKB_JWT_ISSUER" default:"skburgers"`
	ExpirationMinutes int    `envconfig:"SKB_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// AccessConfig carries the master override PIN honored by every staff gate.
type AccessConfig struct {
	MasterPIN  string        `envconfig:"SKB_ACCESS_MASTER_PIN" default:"1214"`
	SessionTTL time.Duration `envconfig:"SKB_ACCESS_SESSION_TTL" default:"12h"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SKB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SKB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SKB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SKB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SKB_ARGON_KEY_LEN" default:"32"`
}

// StoreConfig locates the physical store; pricing distances are measured
// from these coordinates.
type StoreConfig struct {
	Lat  float64 `envconfig:"SKB_STORE_LAT" default:"-3.043274"`
	Lng  float64 `envconfig:"SKB_STORE_LNG" default:"-59.963131"`
	CEP  string  `envconfig:"SKB_STORE_CEP" default:"69098-420"`
	City string  `envconfig:"SKB_STORE_CITY" default:"MANAUS"`
}

type DeliveryConfig struct {
	MaxRadiusKM   float64       `envconfig:"SKB_DELIVERY_MAX_RADIUS_KM" default:"5.5"`
	GPSGateKM     float64       `envconfig:"SKB_DELIVERY_GPS_GATE_KM" default:"0.5"`
	LateAfter     time.Duration `envconfig:"SKB_DELIVERY_LATE_AFTER" default:"20m"`
	CriticalAfter time.Duration `envconfig:"SKB_DELIVERY_CRITICAL_AFTER" default:"30m"`
}

// PricingConfig holds the fixed money rules applied at checkout.
type PricingConfig struct {
	FeeNearBRL      string `envconfig:"SKB_FEE_NEAR_BRL" default:"5.00"`
	FeeMidBRL       string `envconfig:"SKB_FEE_MID_BRL" default:"7.00"`
	FeeFarBRL       string `envconfig:"SKB_FEE_FAR_BRL" default:"9.00"`
	ComboUpgradeBRL string `envconfig:"SKB_COMBO_UPGRADE_BRL" default:"12.00"`
}

// FeeNear returns the fee charged inside the near band.
func (p PricingConfig) FeeNear() decimal.Decimal { return mustDecimal(p.FeeNearBRL, "5.00") }

// FeeMid returns the fee charged inside the mid band.
func (p PricingConfig) FeeMid() decimal.Decimal { return mustDecimal(p.FeeMidBRL, "7.00") }

// FeeFar returns the fee charged inside the far band.
func (p PricingConfig) FeeFar() decimal.Decimal { return mustDecimal(p.FeeFarBRL, "9.00") }

// ComboUpgrade returns the fixed combo surcharge.
func (p PricingConfig) ComboUpgrade() decimal.Decimal { return mustDecimal(p.ComboUpgradeBRL, "12.00") }

func mustDecimal(raw, fallback string) decimal.Decimal {
	if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil {
		return d
	}
	d, _ := decimal.NewFromString(fallback)
	return d
}

type ViaCEPConfig struct {
	BaseURL string        `envconfig:"SKB_VIACEP_BASE_URL" default:"https://viacep.com.br/ws"`
	Timeout time.Duration `envconfig:"SKB_VIACEP_TIMEOUT" default:"5s"`
}

type OpenAIConfig struct {
	APIKey  string        `envconfig:"SKB_OPENAI_API_KEY"`
	BaseURL string        `envconfig:"SKB_OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model   string        `envconfig:"SKB_OPENAI_MODEL" default:"gpt-4o-mini"`
	Timeout time.Duration `envconfig:"SKB_OPENAI_TIMEOUT" default:"10s"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"SKB_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"SKB_PUBSUB_ORDERS_TOPIC" default:"order-events"`
	OrdersSubscription string `envconfig:"SKB_PUBSUB_ORDERS_SUBSCRIPTION" default:"order-events-worker"`
}

type OutboxConfig struct {
	BatchSize    int           `envconfig:"SKB_OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval time.Duration `envconfig:"SKB_OUTBOX_POLL_INTERVAL" default:"500ms"`
	MaxAttempts  int           `envconfig:"SKB_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SKB_AUTO_MIGRATE" default:"false"`
}
