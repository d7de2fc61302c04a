package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jessevdk/go-flags"
)

// settings are read from the function environment. Flags exist for local runs.
type settings struct {
	// GQSecret is compared against the signature header. Empty disables the check.
	GQSecret string `long:"gq-secret" env:"GQ_SECRET" description:"shared secret GuildQuality sends in x-guildquality-signature"`

	// ChatWebhookURL is the Google Chat incoming webhook to post to.
	ChatWebhookURL string `long:"chat-webhook-url" env:"CHAT_WEBHOOK_URL" description:"Google Chat incoming webhook URL"`

	ServiceName string `long:"service-name" env:"SERVICE_NAME" default:"guildquality-notifier" description:"service.name on exported spans"`

	LogLevel string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"debug, info, warn or error"`
}

// config is built once per process and never changes afterwards.
type config struct {
	secret     string
	webhookURL string
	logLevel   slog.Level
}

var errMissingWebhookURL = errors.New("CHAT_WEBHOOK_URL is required")

func parseSettings(args []string) (settings, error) {
	var s settings
	if _, err := flags.NewParser(&s, flags.HelpFlag|flags.PassDoubleDash).ParseArgs(args); err != nil {
		return settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return s, nil
}

func newConfig(s settings) (config, error) {
	webhookURL := strings.TrimSpace(s.ChatWebhookURL)
	if webhookURL == "" {
		return config{}, errMissingWebhookURL
	}

	level := slog.LevelInfo
	if s.LogLevel != "" {
		if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
			return config{}, fmt.Errorf("parsing LOG_LEVEL %q: %w", s.LogLevel, err)
		}
	}

	return config{
		secret:     s.GQSecret,
		webhookURL: webhookURL,
		logLevel:   level,
	}, nil
}
