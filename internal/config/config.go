// Package config loads process configuration from the environment (and an
// optional .env file loaded by the mains).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Crypto    CryptoConfig    `mapstructure:"crypto"`
	Mail      MailConfig      `mapstructure:"mail"`
	Signature SignatureConfig `mapstructure:"signature"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	ClientURL    string        `mapstructure:"client_url"`
}

type DatabaseConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	MaxRetries int    `mapstructure:"max_retries"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type KafkaConfig struct {
	Broker         string        `mapstructure:"broker"`
	GroupID        string        `mapstructure:"group_id"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	ConnectRetries int           `mapstructure:"connect_retries"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type CryptoConfig struct {
	Secret string `mapstructure:"secret"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	LogoURL  string `mapstructure:"logo_url"`
}

const (
	SignatureDriverLocal = "local"
	SignatureDriverS3    = "s3"
)

type SignatureConfig struct {
	Driver      string `mapstructure:"driver"`
	Directory   string `mapstructure:"directory"`
	S3Bucket    string `mapstructure:"s3_bucket"`
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3AccessKey string `mapstructure:"s3_access_key"`
	S3SecretKey string `mapstructure:"s3_secret_key"`
}

// keys lists every setting so viper binds it to its environment variable
// (server.port -> SERVER_PORT) even without a config file.
var keys = []string{
	"server.port", "server.read_timeout", "server.write_timeout", "server.idle_timeout", "server.client_url",
	"db.host", "db.port", "db.user", "db.password", "db.name", "db.sslmode", "db.max_retries",
	"redis.addr",
	"kafka.broker", "kafka.group_id", "kafka.poll_interval", "kafka.connect_retries",
	"auth.jwt_secret",
	"crypto.secret",
	"mail.host", "mail.port", "mail.username", "mail.password", "mail.from", "mail.logo_url",
	"signature.driver", "signature.directory", "signature.s3_bucket", "signature.s3_region",
	"signature.s3_endpoint", "signature.s3_access_key", "signature.s3_secret_key",
}

// required settings abort startup when empty.
var required = []string{"auth.jwt_secret", "crypto.secret"}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.name", "selfservice")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_retries", 5)

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("kafka.group_id", "go-selfservice-notifications")
	v.SetDefault("kafka.poll_interval", 3*time.Second)
	v.SetDefault("kafka.connect_retries", 5)

	v.SetDefault("mail.port", 587)

	v.SetDefault("signature.driver", SignatureDriverLocal)
	v.SetDefault("signature.directory", "signatures")
	v.SetDefault("signature.s3_region", "us-east-1")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	for _, k := range required {
		if v.GetString(k) == "" {
			return nil, fmt.Errorf("required environment variable %s is not provided",
				strings.ToUpper(strings.ReplaceAll(k, ".", "_")))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	switch cfg.Signature.Driver {
	case SignatureDriverLocal, SignatureDriverS3:
	default:
		return nil, fmt.Errorf("unsupported signature driver %q", cfg.Signature.Driver)
	}

	return &cfg, nil
}
