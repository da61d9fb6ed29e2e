// Command blastarena starts the arena session server.
//
// The server listens for game clients on a TCP port and, when an HTTP port
// is configured, serves a status API plus a websocket transport on it so
// browser clients can play over the same protocol. Flags override the
// ARENA_* environment configuration and control debug logging and optional
// ngrok tunneling for playing across the internet.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/blastarena/server/api"
	"github.com/blastarena/server/config"
	"github.com/blastarena/server/server"
	"github.com/blastarena/server/transport/ws"
)

// Version information
const (
	Version = "1.2.0"
	AppName = "Blast Arena Server"
)

func main() {
	// Load .env if present; a missing file is the normal case.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	cmd := &cli.Command{
		Name:    "blastarena",
		Usage:   "session server for the blast arena game",
		Version: Version,
		Flags:   serverFlags(),
		Action:  run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "blastarena: %v\n", err)
		os.Exit(1)
	}
}

func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "host", Usage: "bind address for the game listener"},
		&cli.IntFlag{Name: "port", Usage: "TCP port for the game protocol"},
		&cli.IntFlag{Name: "http-port", Usage: "port for the status API and websocket transport, 0 disables it"},
		&cli.IntFlag{Name: "max-players", Usage: "maximum concurrent connections"},
		&cli.IntFlag{Name: "countdown", Usage: "lobby countdown start value in seconds"},
		&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		&cli.BoolFlag{Name: "ngrok", Usage: "tunnel the game port through ngrok"},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token (or NGROK_AUTHTOKEN env var)"},
		&cli.StringFlag{Name: "ngrok-addr", Usage: "reserved ngrok TCP address (or NGROK_REMOTE_ADDR env var)"},
	}
}

// run wires the whole process: configuration, the session server and its
// tickers, the TCP listener, the HTTP surface, an optional ngrok tunnel,
// and signal-driven shutdown.
func run(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.Bool("debug"))

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger.Info("starting "+AppName,
		"version", Version,
		"game_addr", cfg.GameAddr(),
		"max_players", cfg.MaxPlayers,
	)

	srv := server.New(cfg, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	srv.Start(runCtx)

	ln, err := net.Listen("tcp", cfg.GameAddr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.GameAddr(), err)
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Serve(ln); err != nil {
			serveErr <- fmt.Errorf("game listener: %w", err)
		}
	}()

	var httpServer *http.Server
	if cfg.HTTPPort != 0 {
		apiServer := api.NewServer(srv, ws.NewHandler(srv, logger), logger)
		httpServer = &http.Server{
			Addr:         cfg.HTTPAddr(),
			Handler:      apiServer,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("http server listening", "addr", cfg.HTTPAddr())
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	if cmd.Bool("ngrok") {
		token := cmd.String("ngrok-auth")
		if token == "" {
			token = os.Getenv("NGROK_AUTHTOKEN")
		}
		if token == "" {
			logger.Warn("ngrok enabled but no auth token provided, skipping tunnel")
		} else {
			remoteAddr := cmd.String("ngrok-addr")
			if remoteAddr == "" {
				remoteAddr = os.Getenv("NGROK_REMOTE_ADDR")
			}

			endpoint := ngrokConfig.TCPEndpoint()
			if remoteAddr != "" {
				endpoint = ngrokConfig.TCPEndpoint(ngrokConfig.WithRemoteAddr(remoteAddr))
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				tun, err := ngrok.Listen(runCtx, endpoint, ngrok.WithAuthtoken(token))
				if err != nil {
					logger.Error("ngrok tunnel failed", "error", err)
					return
				}
				defer tun.Close()

				logger.Info("ngrok tunnel established", "url", tun.URL())
				if err := srv.Serve(tun); err != nil {
					serveErr <- fmt.Errorf("ngrok listener: %w", err)
				}
			}()
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case runErr = <-serveErr:
		logger.Error("serve failed", "error", runErr)
	case <-runCtx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer shutdownCancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http server shutdown", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("session server shutdown", "error", err)
	}

	wg.Wait()
	logger.Info("server stopped")
	return runErr
}

// loadConfig reads the ARENA_* environment configuration and applies any
// explicitly set flags on top, re-validating the result.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("http-port") {
		cfg.HTTPPort = int(cmd.Int("http-port"))
	}
	if cmd.IsSet("max-players") {
		cfg.MaxPlayers = int(cmd.Int("max-players"))
	}
	if cmd.IsSet("countdown") {
		cfg.CountdownSeconds = int(cmd.Int("countdown"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. Debug mode lowers the level and
// records source locations.
func newLogger(debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
