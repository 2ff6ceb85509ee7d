package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address"`
	SwaggerDir  string   `yaml:"swagger_dir"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	PaymentEventsTopic string   `yaml:"payment_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type BookingConfig struct {
	AllowUpcoming    bool `yaml:"allow_upcoming"`
	SecondDoseSlots  int  `yaml:"second_dose_slots"`
	CampaignCacheTTL int  `yaml:"campaign_cache_ttl_seconds"`
}

type WorkerConfig struct {
	MissedSweepMinutes int `yaml:"missed_sweep_minutes"`
	MissedGraceDays    int `yaml:"missed_grace_days"`
}

// secrets come from the environment when set, so the yaml file can be
// committed without credentials.
type secretOverrides struct {
	JWTSecret  string `envconfig:"JWT_SECRET"`
	DBPassword string `envconfig:"DB_PASSWORD"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var sec secretOverrides
	if err := envconfig.Process("", &sec); err != nil {
		return nil, fmt.Errorf("failed to read env overrides: %w", err)
	}
	if sec.JWTSecret != "" {
		cfg.Auth.JWTSecret = sec.JWTSecret
	}
	if sec.DBPassword != "" {
		cfg.Database.Password = sec.DBPassword
	}

	if cfg.Booking.SecondDoseSlots <= 0 {
		cfg.Booking.SecondDoseSlots = 10
	}
	if cfg.Worker.MissedSweepMinutes <= 0 {
		cfg.Worker.MissedSweepMinutes = 60
	}

	return &cfg, nil
}
