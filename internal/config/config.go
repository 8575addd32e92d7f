package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

type HTTPServer struct {
	Host           string
	Port           string
	AllowedOrigins []string
}

type Room struct {
	GracePeriod time.Duration
}

type WebSocket struct {
	SendBuffer int
}

type Redis struct {
	Host          string
	Port          string
	Password      string
	ChannelPrefix string
}

// Enabled reports whether the event mirror should run.
func (r Redis) Enabled() bool {
	return r.Host != ""
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether the lifecycle audit should run.
func (p Postgres) Enabled() bool {
	return p.Host != ""
}

type Config struct {
	HTTP      HTTPServer
	Room      Room
	WebSocket WebSocket
	Redis     Redis
	Postgres  Postgres
}

func (c *Config) Addr() string {
	return c.HTTP.Host + ":" + c.HTTP.Port
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := FromEnv()

	log.Printf("%s backend config : %+v\n", logtag, cfg.redacted())
	return cfg
}

// FromEnv builds the config from the process environment.
func FromEnv() *Config {
	return &Config{
		HTTP:      *newHTTP(),
		Room:      *newRoom(),
		WebSocket: *newWebSocket(),
		Redis:     *newRedis(),
		Postgres:  *newPostgres(),
	}
}

func (c Config) redacted() Config {
	if c.Redis.Password != "" {
		c.Redis.Password = "***"
	}
	if c.Postgres.Password != "" {
		c.Postgres.Password = "***"
	}
	return c
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Host:           getenv("HTTP_HOST", "localhost"),
		Port:           getenv("HTTP_PORT", "8080"),
		AllowedOrigins: splitList(getenv("WS_ALLOWED_ORIGINS", "*")),
	}
}

func newRoom() *Room {
	return &Room{
		GracePeriod: getduration("ROOM_GRACE_PERIOD", 30*time.Second),
	}
}

func newWebSocket() *WebSocket {
	return &WebSocket{
		SendBuffer: getint("WS_SEND_BUFFER", 16),
	}
}

func newRedis() *Redis {
	return &Redis{
		Host:          getenv("REDIS_HOST", ""),
		Port:          getenv("REDIS_PORT", "6379"),
		Password:      getenv("REDIS_PASSWORD", ""),
		ChannelPrefix: getenv("REDIS_CHANNEL_PREFIX", "scrumpoker"),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", ""),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getenv("DB_PASSWORD", ""),
		DBName:   getenv("DB_NAME", "scrumpoker"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, lo.Ternary(strings.Contains(key, "PASSWORD"), "***", val))
	return val
}

func getduration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		fmt.Printf("%s %s = %q is not a positive duration. Using default value %s\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getint(key string, defaultValue int) int {
	raw := getenv(key, strconv.Itoa(defaultValue))
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		fmt.Printf("%s %s = %q is not a positive integer. Using default value %d\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func splitList(raw string) []string {
	return lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
