// Package main is the AI Hub CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/amodvardhan/ai-hub/internal/ai"
	"github.com/amodvardhan/ai-hub/internal/config"
	"github.com/amodvardhan/ai-hub/internal/document"
	"github.com/amodvardhan/ai-hub/internal/evaluation"
	"github.com/amodvardhan/ai-hub/internal/extract"
	"github.com/amodvardhan/ai-hub/internal/search"
	"github.com/amodvardhan/ai-hub/internal/server"
	"github.com/amodvardhan/ai-hub/internal/storage"
	"github.com/amodvardhan/ai-hub/internal/watcher"
	"github.com/amodvardhan/ai-hub/pkg/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/aihub/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists it
// is used, so that "aihub server" from the project dir uses the project's
// config (including debug). Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// .env carries OPENAI_API_KEY in development; absence is fine.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "upload":
		runUpload()
	case "analyze":
		runAnalyze()
	case "evaluations":
		runEvaluations()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("aihub version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds the initialized service graph for the server command.
type Components struct {
	Storage     storage.Storage
	Index       *search.Index
	Documents   *document.Service
	Evaluations *evaluation.Service
}

// Close releases storage and index handles.
func (c *Components) Close() {
	if c.Index != nil {
		_ = c.Index.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewGormStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var idx *search.Index
	if cfg.Storage.SearchIndexPath != "" {
		idx, err = search.NewIndex(cfg.Storage.SearchIndexPath)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to initialize search index: %w", err)
		}
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; analysis requests will fail")
	}
	client := ai.NewOpenAIClient(apiKey, time.Duration(cfg.AI.TimeoutSeconds)*time.Second)

	docs := document.NewService(store, extract.NewExtractor(), idx, cfg.Storage.UploadsDir, logger)
	evals := evaluation.NewService(store, client, &cfg.AI, logger)

	return &Components{
		Storage:     store,
		Index:       idx,
		Documents:   docs,
		Evaluations: evals,
	}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var inbox *watcher.Inbox
	if cfg.Inbox.Directory != "" {
		docs := components.Documents
		ownerID := cfg.Inbox.OwnerID
		inbox = watcher.NewInbox(cfg.Inbox.Directory, cfg.Inbox.Extensions, func(path string) {
			if _, err := docs.IngestFile(context.Background(), path, ownerID); err != nil {
				logger.Warn("inbox ingest failed", zap.String("path", path), zap.Error(err))
			}
		}, logger)
		if err := inbox.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start inbox watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(
		components.Documents,
		components.Evaluations,
		components.Storage,
		components.Index,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if inbox != nil {
		inbox.Stop()
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runUpload() {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	user := fs.String("user", "cli", "user identity sent as X-User-ID")
	title := fs.String("title", "", "create an evaluation with this RFP title instead of a bare upload")
	rfpType := fs.String("type", "", "RFP type for the evaluation (with --title)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: aihub upload [flags] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Open failed: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if *title != "" {
		_ = mw.WriteField("rfp_title", *title)
		if *rfpType != "" {
			_ = mw.WriteField("rfp_type", *rfpType)
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
		os.Exit(1)
	}
	if _, err := io.Copy(fw, f); err != nil {
		fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
		os.Exit(1)
	}
	_ = mw.Close()

	endpoint := *serverURL + "/api/v1/documents"
	if *title != "" {
		endpoint = *serverURL + "/api/v1/evaluations"
	}
	req, err := http.NewRequest(http.MethodPost, endpoint, &buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-User-ID", *user)
	printResponse(req)
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	user := fs.String("user", "cli", "user identity sent as X-User-ID")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: aihub analyze [flags] <evaluation-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	req, err := http.NewRequest(http.MethodPost, *serverURL+"/api/v1/evaluations/"+id+"/analyze", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analyze failed: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("X-User-ID", *user)
	printResponse(req)
}

func runEvaluations() {
	fs := flag.NewFlagSet("evaluations", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	user := fs.String("user", "cli", "user identity sent as X-User-ID")
	limit := fs.Int("limit", 20, "number of evaluations")
	offset := fs.Int("offset", 0, "pagination offset")
	_ = fs.Parse(os.Args[2:])

	url := fmt.Sprintf("%s/api/v1/evaluations?limit=%d&offset=%d", *serverURL, *limit, *offset)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("X-User-ID", *user)
	printResponse(req)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	user := fs.String("user", "cli", "user identity sent as X-User-ID")
	_ = fs.Parse(os.Args[2:])

	req, err := http.NewRequest(http.MethodGet, *serverURL+"/api/v1/status", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("X-User-ID", *user)
	printResponse(req)
}

// printResponse executes req and pretty-prints the JSON body to stdout. Exits
// non-zero for transport errors or non-2xx responses.
func printResponse(req *http.Request) {
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read response failed: %v\n", err)
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`aihub - AI-assisted document evaluation service

Usage:
  aihub server [flags]              Start the HTTP server
  aihub upload [flags] <file>       Upload a document (or create an evaluation with --title)
  aihub analyze [flags] <id>        Run AI analysis for an evaluation
  aihub evaluations [flags]         List evaluations
  aihub status [flags]              Show service status
  aihub version                     Show version
  aihub help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/aihub/config.yaml)
  --debug            Enable debug logging

Client Flags (upload, analyze, evaluations, status):
  --server string    Server URL (default: http://localhost:8080)
  --user string      Identity sent as X-User-ID (default: cli)

Upload Flags:
  --title string     Create an evaluation with this RFP title
  --type string      RFP type for the evaluation (with --title)

Examples:
  aihub server
  aihub upload proposal.pdf
  aihub upload --title "Network Refresh" --type infrastructure rfp.docx
  aihub analyze 4f1c2d3e-...
  aihub evaluations --limit 5
  aihub status`)
}
