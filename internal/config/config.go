package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go-elms/internal/domain"

	"github.com/spf13/viper"
)

const (
	DayCountCalendar = "calendar"
	DayCountWorking  = "working"

	RejectionKeepHistory = "keep_history"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Leave    LeaveConfig    `mapstructure:"leave"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MaxRetries      int           `mapstructure:"max_retries"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Broker        string        `mapstructure:"broker"`
	ConsumerGroup string        `mapstructure:"consumer_group"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type EscalationConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	AfterDays int  `mapstructure:"after_days"`
}

type LeaveConfig struct {
	ApprovalChain   []string         `mapstructure:"approval_chain"`
	DayCountMode    string           `mapstructure:"day_count_mode"`
	AdminOverride   bool             `mapstructure:"admin_override"`
	RejectionPolicy string           `mapstructure:"rejection_policy"`
	Escalation      EscalationConfig `mapstructure:"escalation"`

	// Roles is ApprovalChain parsed once by Validate.
	Roles []domain.Role `mapstructure:"-"`
}

// Load reads .env-provided environment variables and an optional YAML file
// named by ELMS_CONFIG, applies defaults and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("ELMS_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit_rps", 5.0)
	v.SetDefault("server.rate_limit_burst", 20)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "elms")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.max_retries", 5)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.broker", "")
	v.SetDefault("kafka.consumer_group", "go-elms-notifications")
	v.SetDefault("kafka.poll_interval", 3*time.Second)
	v.SetDefault("kafka.retry_delay", 500*time.Millisecond)

	v.SetDefault("jwt.secret", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", true)

	v.SetDefault("leave.approval_chain", []string{
		string(domain.RoleHeadOfDepartment),
		string(domain.RoleDirector),
		string(domain.RoleAdmin),
	})
	v.SetDefault("leave.day_count_mode", DayCountWorking)
	v.SetDefault("leave.admin_override", true)
	v.SetDefault("leave.rejection_policy", RejectionKeepHistory)
	v.SetDefault("leave.escalation.enabled", false)
	v.SetDefault("leave.escalation.after_days", 3)
}

// bindEnvVars keeps the env names used by existing deployments.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.password", "DB_PASSWORD")
	_ = v.BindEnv("database.dbname", "DB_NAME")
	_ = v.BindEnv("database.sslmode", "DB_SSLMODE")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("kafka.broker", "KAFKA_BROKER")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.MaxRetries < 1 {
		c.Database.MaxRetries = 1
	}

	roles, err := ParseApprovalChain(c.Leave.ApprovalChain)
	if err != nil {
		return err
	}
	c.Leave.Roles = roles

	switch c.Leave.DayCountMode {
	case DayCountCalendar, DayCountWorking:
	default:
		return fmt.Errorf("leave.day_count_mode must be %q or %q, got %q", DayCountCalendar, DayCountWorking, c.Leave.DayCountMode)
	}

	if c.Leave.RejectionPolicy != RejectionKeepHistory {
		return fmt.Errorf("leave.rejection_policy %q is not supported", c.Leave.RejectionPolicy)
	}

	if c.Leave.Escalation.Enabled && c.Leave.Escalation.AfterDays < 1 {
		return fmt.Errorf("leave.escalation.after_days must be at least 1 when escalation is enabled")
	}

	return nil
}

// ParseApprovalChain turns the configured role tags into an ordered list.
// Entries may themselves be comma separated ("head_of_department,director").
func ParseApprovalChain(raw []string) ([]domain.Role, error) {
	var tags []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				tags = append(tags, part)
			}
		}
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("leave.approval_chain must list at least one role")
	}

	seen := make(map[domain.Role]struct{}, len(tags))
	roles := make([]domain.Role, 0, len(tags))
	for _, tag := range tags {
		role, err := domain.ParseRole(tag)
		if err != nil {
			return nil, fmt.Errorf("leave.approval_chain: %w", err)
		}
		if role == domain.RoleStaff {
			return nil, fmt.Errorf("leave.approval_chain: %q cannot approve leave", role)
		}
		if _, dup := seen[role]; dup {
			return nil, fmt.Errorf("leave.approval_chain: %q listed twice", role)
		}
		seen[role] = struct{}{}
		roles = append(roles, role)
	}
	return roles, nil
}

func (c DatabaseConfig) String() string {
	return fmt.Sprintf("%s@%s:%s/%s", c.User, c.Host, c.Port, c.DBName)
}
