package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/assetvault/asset-parser/internal/inference"
	"github.com/assetvault/asset-parser/internal/parsing"
	"github.com/assetvault/asset-parser/internal/server"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("asset-parser")
	var (
		port        = fs.IntLong("port", 8000, "HTTP server port")
		provider    = fs.StringLong("provider", "bedrock", "Inference provider: 'bedrock' or 'gemini'")
		modelID     = fs.StringLong("model", "", "Model identifier (defaults per provider)")
		awsRegion   = fs.StringLong("aws-region", "us-east-1", "AWS Bedrock region")
		awsKey      = fs.StringLong("aws-access-key", "", "AWS access key ID (or set AWS_ACCESS_KEY_ID env var)")
		awsSecret   = fs.StringLong("aws-secret-key", "", "AWS secret access key (or set AWS_SECRET_ACCESS_KEY env var)")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		corsOrigins = fs.StringLong("cors-origins", "", "Comma-separated allowed CORS origins (empty allows all)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("ASSET_PARSER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	ctx := context.Background()

	var (
		invoker inference.Invoker
		err     error
	)
	switch *provider {
	case "bedrock":
		accessKey := *awsKey
		if accessKey == "" {
			accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		}
		secretKey := *awsSecret
		if secretKey == "" {
			secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
		}
		slog.Info("Initializing Bedrock invoker...", "region", *awsRegion, "model", *modelID)
		invoker, err = inference.NewBedrock(ctx, inference.BedrockConfig{
			Region:          *awsRegion,
			AccessKeyID:     accessKey,
			SecretAccessKey: secretKey,
			ModelID:         *modelID,
		})
		if err != nil {
			slog.Error("Failed to initialize Bedrock", "error", err)
			os.Exit(1)
		}
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini invoker...", "model", *modelID)
		invoker, err = inference.NewGemini(ctx, apiKey, *modelID)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid provider", "provider", *provider, "valid", "bedrock or gemini")
		os.Exit(1)
	}
	defer invoker.Close()

	parser := parsing.New(invoker)

	var origins []string
	if *corsOrigins != "" {
		for _, o := range strings.Split(*corsOrigins, ",") {
			origins = append(origins, strings.TrimSpace(o))
		}
	}

	srv := server.NewServer(parser, origins)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := srv.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
