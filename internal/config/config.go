package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultOperatorPassword = "admin123"

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string
	// LogFile — если задан, логи дополнительно пишутся в файл с ротацией.
	LogFile string

	// DataFile is the snapshot file of the ticket database.
	DataFile string
	// UIDMaxAttempts bounds how many uid candidates are tried before giving up.
	UIDMaxAttempts int

	Operator struct {
		Username string
		Password string
	}

	KafkaBrokers     []string
	KafkaTopicTicket string
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:          getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:         firstEnv("APP_PORT", "HTTP_PORT", "14561"),
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
		DataFile:         getEnv("DATA_FILE", "data/tickets.db"),
		KafkaBrokers:     ParseList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicTicket: getEnv("KAFKA_TOPIC_TICKET", "tickets"),
	}
	cfg.Operator.Username = getEnv("OPERATOR_USERNAME", "admin")
	cfg.Operator.Password = getEnv("OPERATOR_PASSWORD", defaultOperatorPassword)

	attempts, err := strconv.Atoi(getEnv("UID_MAX_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("config: UID_MAX_ATTEMPTS: %w", err)
	}
	cfg.UIDMaxAttempts = attempts
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataFile == "" {
		return errors.New("config: DATA_FILE is required")
	}
	if c.UIDMaxAttempts < 1 {
		return errors.New("config: UID_MAX_ATTEMPTS must be at least 1")
	}
	if c.Operator.Username == "" || c.Operator.Password == "" {
		return errors.New("config: OPERATOR_USERNAME and OPERATOR_PASSWORD are required")
	}
	if c.AppEnv == "production" && c.Operator.Password == defaultOperatorPassword {
		return errors.New("config: in production OPERATOR_PASSWORD must be changed")
	}
	return nil
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

// ParseList разбивает строку вида "host1:9092,host2:9092" на слайс.
func ParseList(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
