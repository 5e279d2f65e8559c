// Package config loads function configuration from the environment.
package config

import (
	"fmt"
	"os"
)

// Config holds the settings shared across the lambdas. Each main loads it once
// and passes the relevant values into constructors.
type Config struct {
	Region        string
	StatusTable   string
	PlateTable    string
	ReportBucket  string
	ChatURL       string
	ChatToken     string
	RegistryURL   string
	RegistryToken string
}

// Load reads configuration from the environment.
func Load() *Config {

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	chatURL := os.Getenv("CHAT_API_URL")
	if chatURL == "" {
		chatURL = "https://backend.botconversa.com.br"
	}

	registryURL := os.Getenv("PLATE_API_URL")
	if registryURL == "" {
		registryURL = "https://wdapi2.com.br"
	}

	return &Config{
		Region:        region,
		StatusTable:   os.Getenv("STATUS_TABLE"),
		PlateTable:    os.Getenv("PLATE_TABLE"),
		ReportBucket:  os.Getenv("REPORT_BUCKET"),
		ChatURL:       chatURL,
		ChatToken:     os.Getenv("CHAT_API_TOKEN"),
		RegistryURL:   registryURL,
		RegistryToken: os.Getenv("PLATE_API_TOKEN"),
	}
}

// Require returns an error naming a missing variable, if any.
func Require(vars map[string]string) error {
	for name, value := range vars {
		if value == "" {
			return fmt.Errorf("missing environment variable: %v", name)
		}
	}
	return nil
}
