package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/user/video-manager-go/internal/catalog"
	"github.com/user/video-manager-go/internal/config"
	"github.com/user/video-manager-go/internal/metadata"
	"github.com/user/video-manager-go/internal/player"
	"github.com/user/video-manager-go/internal/store"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
)

// app bundles what every command needs
type app struct {
	cfg     *config.Config
	catalog *catalog.Service
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || isHelp(args[0]) {
		printUsage(stdout)
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command: %q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	setupLogging(&cfg.Log, stderr)

	sqliteStore, err := store.NewSQLiteStore(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.DB.Path).Msg("Failed to open database")
		fmt.Fprintf(stderr, "Failed to open database %s: %v\n", cfg.DB.Path, err)
		return 1
	}
	defer func() {
		if err := sqliteStore.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		} else {
			log.Debug().Msg("Database connection closed")
		}
	}()

	a := &app{
		cfg:     cfg,
		catalog: catalog.NewService(sqliteStore, player.New(cfg.Player.Open), metadata.NewFetcher(&cfg.Fetch)),
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cmd.run(ctx, a, args[1:])
}

// setupLogging configures the global zerolog logger.
// Logs go to stderr so stdout only carries command output.
func setupLogging(cfg *config.LogConfig, w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(cfg.ZerologLevel())

	if cfg.Pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()
}

func isHelp(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `vidmgr - catalogue links to online videos

Usage:
  vidmgr <command> [flags] [args]

Commands:
  list                      list all videos
  search <query>            find videos by title or category (case-sensitive)
  show <id>                 show one video
  add                       add a video (-title -url -duration [-category] [-fetch])
  update <id>               edit a video (flags as for add; unset flags keep values)
  delete <id> [-yes]        delete a video after confirmation
  play <id>                 count a view and open the video
  serve                     run the local JSON API

Environment:
  DB_PATH       database file (default youtube_videos.db)
  PLAYER_OPEN   open played videos in a browser (default true)
  SERVER_HOST   serve address (default 127.0.0.1)
  SERVER_PORT   serve port (default 8080)
  LOG_LEVEL     debug, info, warn, error (default info)
`)
}
