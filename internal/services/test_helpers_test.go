package services_test

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tanisheesh/portfolio-api/config"
	"github.com/tanisheesh/portfolio-api/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

const longMessage = "Hello! I saw your portfolio and would love to talk about a project."

func configuredMail() config.MailConfig {
	return config.MailConfig{
		Host:      "smtp.example.com",
		Port:      587,
		User:      "me@example.com",
		Password:  "app-password",
		From:      `"Portfolio Contact" <noreply@example.com>`,
		Recipient: "me@example.com",
		Timeout:   time.Second,
	}
}

func payload(fields map[string]any) *strings.Reader {
	data, err := json.Marshal(fields)
	if err != nil {
		panic(err)
	}
	return strings.NewReader(string(data))
}

func validPayload() *strings.Reader {
	return payload(map[string]any{
		"name":    "Al",
		"email":   "a@b.com",
		"subject": "Hi",
		"message": longMessage,
	})
}
