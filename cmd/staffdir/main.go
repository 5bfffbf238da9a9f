package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"staffdir/internal/config"
	"staffdir/internal/engine"
	"staffdir/internal/server"
	"staffdir/internal/state"
	"staffdir/internal/store"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	addr := flag.String(config.FlagAddr, defaultAddr(), config.FlagDescAddr)
	dbPath := flag.String(config.FlagDB, config.DefaultDBPath, config.FlagDescDB)
	statePath := flag.String(config.FlagState, config.DefaultStatePath, config.FlagDescState)
	importFile := flag.String(config.FlagImportFile, "", config.FlagDescImportFile)
	importURL := flag.String(config.FlagImportURL, "", config.FlagDescImportURL)
	importUser := flag.String(config.FlagImportUser, "", config.FlagDescImportUser)
	importPass := flag.String(config.FlagImportPass, "", config.FlagDescImportPass)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// We configure structured logging (slog) early to capture startup issues.
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	opts := runOptions{
		addr:       *addr,
		dbPath:     *dbPath,
		statePath:  *statePath,
		importFile: *importFile,
		importURL:  *importURL,
		importUser: *importUser,
		importPass: *importPass,
	}
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

type runOptions struct {
	addr       string
	dbPath     string
	statePath  string
	importFile string
	importURL  string
	importUser string
	importPass string
}

// run opens the store, performs the optional vCard seed import, wires the
// HTTP server, and blocks until the context is cancelled.
func run(ctx context.Context, opts runOptions) error {
	db, err := store.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	if opts.importFile != "" || opts.importURL != "" {
		if err := seedFromVCards(ctx, db, opts); err != nil {
			return err
		}
	}

	srv := server.NewDirectoryServer(
		opts.addr,
		db,
		state.NewStore(opts.statePath),
		engine.RealClock{},
	)

	// Warm the occasions feed so the first calendar client gets a fast 200.
	// A failure here is not fatal; the feed rebuilds lazily on request.
	if err := srv.RefreshCalendar(ctx); err != nil {
		slog.Warn(config.ErrICalEncode,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
	}

	return srv.Start(ctx)
}

// seedFromVCards imports a roster into the store before serving.
func seedFromVCards(ctx context.Context, db *store.Store, opts runOptions) error {
	cfg := engine.ImportConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: opts.importFile,
	}
	if opts.importURL != "" {
		cfg = engine.ImportConfig{
			Mode:    config.SourceModeWeb,
			WebURL:  opts.importURL,
			WebUser: opts.importUser,
			WebPass: opts.importPass,
		}
	}

	importer := engine.Importer{Fetcher: engine.NewHTTPFetcher()}
	employees, err := importer.Run(ctx, cfg)
	if err != nil {
		return err
	}

	for _, e := range employees {
		if err := db.Upsert(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// defaultAddr resolves the listen address from the PORT environment variable
// when set, for container platforms that inject it.
func defaultAddr() string {
	if port := os.Getenv(config.EnvPort); port != "" {
		return ":" + port
	}
	return config.DefaultAddr
}

// printVersion outputs the build information to stdout and exits.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	// 1. Always write to Stdout.
	writers = append(writers, os.Stdout)

	// 2. Attempt to set up a file writer in the user's cache directory.
	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		// Use centralized permission constants for security.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
