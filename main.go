package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mkisa/guildvote/cliparse"
	"github.com/mkisa/guildvote/db"
	"github.com/mkisa/guildvote/middleware"
	"github.com/mkisa/guildvote/remote"
	"github.com/mkisa/guildvote/service"
	"github.com/mkisa/guildvote/terminal"
)

const usage = `usage: guildvote <command> [flags]

commands:
  voter       check in and cast a ballot
  candidate   file a nomination
  officer     review nominations
  admin       manage the election
  serve       run the demo election service
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[2:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if command == "serve" {
		serve(cfg)
		return
	}

	client := remote.NewClient(cfg.ServiceURL, cfg.Timeout)
	term := terminal.New(client, os.Stdin, os.Stdout)
	ctx := context.Background()

	switch command {
	case "voter":
		err = term.RunVoter(ctx)
	case "candidate":
		err = term.RunCandidate(ctx)
	case "officer":
		err = term.RunOfficer(ctx)
	case "admin":
		err = term.RunAdmin(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error("Command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

func serve(cfg cliparse.Config) {
	if err := cfg.RequireServiceSecrets(); err != nil {
		slog.Error("Missing service configuration", "error", err)
		os.Exit(1)
	}

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	mux := service.NewRouter(dbConn, cfg)

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
