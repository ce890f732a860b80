package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/receipt-lens/internal/receipt"
	"github.com/zombor/receipt-lens/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receipt-lens")
	var (
		port            = fs.IntLong("port", 8080, "HTTP server port")
		dbPath          = fs.StringLong("db", "receipt-lens.db", "Database file path")
		storagePath     = fs.StringLong("storage", "./receipts", "Storage directory path")
		provider        = fs.StringLong("provider", "vision", "OCR provider: 'vision', 'gemini' or 'ollama'")
		visionKey       = fs.StringLong("vision-key", "", "Google Cloud Vision API key (or set GOOGLE_VISION_API_KEY env var)")
		visionEndpoint  = fs.StringLong("vision-endpoint", "", "Google Cloud Vision API base URL override")
		geminiKey       = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel     = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL       = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel     = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, qwen2-vl)")
		ocrTimeout      = fs.IntLong("ocr-timeout", 30, "OCR request timeout in seconds")
		ocrRate         = fs.IntLong("ocr-rate", 60, "Maximum OCR requests per minute (0 disables throttling)")
		ocrBurst        = fs.IntLong("ocr-burst", 5, "OCR requests allowed in a burst")
		reviewThreshold = fs.IntLong("review-threshold", 80, "Confidence percentage below which scans are flagged for review")
		logLevel        = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		authUser        = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass        = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion     = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_LENS"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *reviewThreshold < 0 || *reviewThreshold > 100 {
		slog.Error("Review threshold must be between 0 and 100", "value", *reviewThreshold)
		os.Exit(1)
	}

	slog.Info("Initializing database...")
	db, err := receipt.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	timeout := time.Duration(*ocrTimeout) * time.Second

	var scanner scanning.Scanner
	switch *provider {
	case "vision":
		apiKey := *visionKey
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_VISION_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Vision API key is required. Set --vision-key flag or GOOGLE_VISION_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Google Cloud Vision scanner...")
		scanner, err = scanning.NewVision(scanning.VisionConfig{
			APIKey:   apiKey,
			Endpoint: *visionEndpoint,
			Timeout:  timeout,
		})
		if err != nil {
			slog.Error("Failed to initialize Vision", "error", err)
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
		slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
		scanner, err = scanning.NewGemini(apiKey, *geminiModel, timeout)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", *ollamaURL, "model", *ollamaModel)
		scanner, err = scanning.NewOllama(*ollamaURL, *ollamaModel, timeout)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid OCR provider", "provider", *provider, "valid", "vision, gemini or ollama")
		os.Exit(1)
	}
	scanner = scanning.NewRateLimited(scanner, *ocrRate, *ocrBurst)
	defer scanner.Close()

	slog.Info("Initializing storage...")
	store, err := receipt.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	receiptService := receipt.NewService(db, scanner, store)
	receiptService.SetReviewThreshold(float64(*reviewThreshold) / 100)

	basicAuth := receipt.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := receipt.NewServer(receiptService, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "provider", *provider, "version", version)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
