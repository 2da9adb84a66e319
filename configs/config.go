package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ERPNext ERPNextConfig
}

// ERPNextConfig holds connection settings for the remote ERPNext instance.
type ERPNextConfig struct {
	URL       string
	APIKey    string
	APISecret string
	Timeout   time.Duration
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using process environment")
	}

	url := os.Getenv("ERPNEXT_URL")
	apiKey := os.Getenv("ERPNEXT_API_KEY")
	apiSecret := os.Getenv("ERPNEXT_API_SECRET")
	if url == "" || apiKey == "" || apiSecret == "" {
		log.Fatal("ERPNEXT_URL, ERPNEXT_API_KEY and ERPNEXT_API_SECRET must be set")
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("ERPNEXT_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			log.Printf("Invalid ERPNEXT_TIMEOUT_SECONDS value: %v. Using default 30s.", raw)
		} else {
			timeout = time.Duration(secs) * time.Second
		}
	}

	return &Config{
		ERPNext: ERPNextConfig{
			URL:       strings.TrimRight(url, "/"),
			APIKey:    apiKey,
			APISecret: apiSecret,
			Timeout:   timeout,
		},
	}
}
