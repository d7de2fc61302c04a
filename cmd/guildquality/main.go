package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/605-Painting/GuildQuality-GoogleChat-Announcements/cmd/guildquality/googlechat"
	"github.com/605-Painting/GuildQuality-GoogleChat-Announcements/pkg/instrumentation"
	"github.com/aws/aws-lambda-go/lambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
}

func run(currentContext context.Context, args []string, stdout io.Writer) error {
	s, err := parseSettings(args)
	if err != nil {
		return err
	}
	cfg, err := newConfig(s)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{Level: cfg.logLevel}))
	if cfg.secret == "" {
		logger.Warn("GQ_SECRET is not set, accepting unsigned webhooks")
	}

	tracerProvider, err := instrumentation.CreateTracerProvider(currentContext, s.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to create tracer provider: %w", err)
	}

	handler := routerWithSpan(newSurveyHandler(cfg, googlechat.NewClient(cfg.webhookURL), logger))

	lambda.StartWithOptions(
		otellambda.InstrumentHandler(handler,
			otellambda.WithFlusher(tracerProvider),
			otellambda.WithTracerProvider(tracerProvider)),
		lambda.WithContext(currentContext),
	)
	return nil
}
