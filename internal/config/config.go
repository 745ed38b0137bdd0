package config

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Storage   StorageConfig   `yaml:"storage"`
	Room      RoomConfig      `yaml:"room"`
}

type HTTPConfig struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:""`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	AllowOrigins []string      `yaml:"allow_origins" env:"HTTP_ALLOW_ORIGINS" env-separator:","`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"postgres"`
	DSN    string `yaml:"dsn" env:"DATABASE_DSN"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	AccessTTL  time.Duration `yaml:"access_ttl" env:"JWT_ACCESS_TTL"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL"`
}

type WebSocketConfig struct {
	PingInterval time.Duration `yaml:"ping_interval" env:"WS_PING_INTERVAL"`
	PongWait     time.Duration `yaml:"pong_wait" env:"WS_PONG_WAIT"`
	WriteWait    time.Duration `yaml:"write_wait" env:"WS_WRITE_WAIT"`
	SendBuffer   int           `yaml:"send_buffer" env:"WS_SEND_BUFFER"`
}

type StorageConfig struct {
	Bucket     string        `yaml:"bucket" env:"S3_BUCKET_NAME"`
	Region     string        `yaml:"region" env:"AWS_REGION"`
	Endpoint   string        `yaml:"endpoint" env:"S3_ENDPOINT"`
	PresignTTL time.Duration `yaml:"presign_ttl" env:"S3_PRESIGN_TTL"`
}

type RoomConfig struct {
	CodeLength   int `yaml:"code_length" env:"ROOM_CODE_LENGTH"`
	CodeAttempts int `yaml:"code_attempts" env:"ROOM_CODE_ATTEMPTS"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		res = "config/local.yaml"
	}

	return res
}

func (c *Config) setDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = 15 * time.Second
	}
	if c.HTTP.WriteTimeout <= 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if len(c.HTTP.AllowOrigins) == 0 {
		c.HTTP.AllowOrigins = []string{"http://localhost:3000"}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Auth.AccessTTL <= 0 {
		c.Auth.AccessTTL = time.Hour
	}
	if c.Auth.RefreshTTL <= 0 {
		c.Auth.RefreshTTL = 7 * 24 * time.Hour
	}
	if c.WebSocket.PingInterval <= 0 {
		c.WebSocket.PingInterval = 25 * time.Second
	}
	if c.WebSocket.PongWait <= 0 {
		c.WebSocket.PongWait = 60 * time.Second
	}
	if c.WebSocket.WriteWait <= 0 {
		c.WebSocket.WriteWait = 10 * time.Second
	}
	if c.WebSocket.SendBuffer <= 0 {
		c.WebSocket.SendBuffer = 64
	}
	if c.Storage.PresignTTL <= 0 {
		c.Storage.PresignTTL = time.Hour
	}
	if c.Room.CodeLength <= 0 {
		c.Room.CodeLength = 6
	}
	if c.Room.CodeAttempts <= 0 {
		c.Room.CodeAttempts = 5
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.New("database driver must be postgres or sqlite")
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is empty")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("jwt secret is empty")
	}
	if c.Auth.RefreshTTL < c.Auth.AccessTTL {
		return errors.New("refresh ttl must not be shorter than access ttl")
	}
	// pings must arrive before the read deadline they extend runs out
	if c.WebSocket.PingInterval >= c.WebSocket.PongWait {
		return errors.New("websocket ping interval must be shorter than pong wait")
	}
	return nil
}
