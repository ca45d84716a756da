package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/cutroom/internal/config"
	"github.com/rpggio/cutroom/internal/domain/activity"
	"github.com/rpggio/cutroom/internal/domain/brief"
	"github.com/rpggio/cutroom/internal/domain/comment"
	"github.com/rpggio/cutroom/internal/domain/message"
	"github.com/rpggio/cutroom/internal/domain/profile"
	"github.com/rpggio/cutroom/internal/domain/project"
	"github.com/rpggio/cutroom/internal/domain/version"
	"github.com/rpggio/cutroom/internal/mcp"
	"github.com/rpggio/cutroom/internal/metrics"
	"github.com/rpggio/cutroom/internal/realtime"
	"github.com/rpggio/cutroom/internal/sqlite"
	"github.com/rpggio/cutroom/internal/storage"
	"github.com/rpggio/cutroom/internal/transport"
)

func main() {
	createKeyFor := flag.String("create-api-key", "", "issue a bearer token for this user ID and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	apiKeys := sqlite.NewAPIKeyRepository(db)
	if *createKeyFor != "" {
		token, err := createAPIKey(context.Background(), apiKeys, *createKeyFor)
		if err != nil {
			logger.Error("failed to create api key", "error", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	store, err := newObjectStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to open object store", "error", err)
		os.Exit(1)
	}

	broker, err := newBroker(ctx, cfg.Realtime, logger)
	if err != nil {
		logger.Error("failed to open realtime broker", "error", err)
		os.Exit(1)
	}
	defer broker.Close()

	var transcriber brief.Transcriber
	if cfg.Transcription.Endpoint != "" {
		transcriber = brief.NewHTTPTranscriber(cfg.Transcription.Endpoint, cfg.Transcription.APIKey, cfg.Transcription.Timeout)
	} else {
		logger.Info("voice brief transcription disabled")
	}

	projectRepo := sqlite.NewProjectRepository(db)
	profileRepo := sqlite.NewProfileRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	projectSvc := project.NewService(projectRepo, profileRepo, activityRepo, broker, m, logger)
	versionSvc := version.NewService(sqlite.NewVersionRepository(db), projectSvc, store, activityRepo, broker, m, logger,
		version.Options{URLTTL: cfg.Storage.URLTTL})
	messageSvc := message.NewService(sqlite.NewMessageRepository(db), projectSvc, activityRepo, broker, m, logger)
	commentSvc := comment.NewService(sqlite.NewCommentRepository(db), versionSvc, projectSvc, broker, logger)
	briefSvc := brief.NewService(projectSvc, store, transcriber, activityRepo, m, logger,
		brief.Options{URLTTL: cfg.Storage.URLTTL, Timeout: cfg.Transcription.Timeout})
	defer briefSvc.Wait()

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Versions: versionSvc,
			Messages: messageSvc,
			Comments: commentSvc,
			Briefs:   briefSvc,
			Profiles: profile.NewService(profileRepo, logger),
			Activity: activity.NewService(activityRepo, logger),
		},
		Resolver:      apiKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	// Branch based on transport mode
	if cfg.Transport.Mode == "stdio" {
		err = runStdioMode(ctx, logger, mcpServer)
	} else {
		err = runHTTPMode(ctx, logger, mcpServer, transport.Handlers{
			Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			Ready:   db.PingContext,
		}, cfg.Server.Host, cfg.Server.Port)
	}
	if err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newObjectStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.ObjectStore, error) {
	switch cfg.Driver {
	case "minio":
		return storage.NewMinioStore(ctx, storage.MinioOptions{
			Endpoint:      cfg.Endpoint,
			AccessKey:     cfg.AccessKey,
			SecretKey:     cfg.SecretKey,
			Bucket:        cfg.Bucket,
			UseSSL:        cfg.UseSSL,
			PublicBaseURL: cfg.PublicBaseURL,
		}, logger)
	default:
		logger.Warn("using in-memory object store; uploads are lost on restart")
		return storage.NewMemoryStore(cfg.PublicBaseURL), nil
	}
}

func newBroker(ctx context.Context, cfg config.RealtimeConfig, logger *slog.Logger) (realtime.Broker, error) {
	switch cfg.Driver {
	case "redis":
		return realtime.NewRedisBroker(ctx, realtime.RedisOptions{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}, logger)
	default:
		return realtime.NewMemoryBroker(), nil
	}
}

// createAPIKey issues a random bearer token for userID. Only its hash is stored.
func createAPIKey(ctx context.Context, keys *sqlite.APIKeyRepository, userID string) (string, error) {
	token := "cr_" + strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	if err := keys.Create(ctx, token, userID, "issued by cutroom -create-api-key"); err != nil {
		return "", err
	}
	return token, nil
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, handlers transport.Handlers, host string, port int) error {
	handlers.MCP = sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewRouter(handlers, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}
	if size <= keepLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
