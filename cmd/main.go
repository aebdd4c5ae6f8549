/*
Package main is the entry point for the chat relay server.

It is responsible for loading configuration, initializing the global logging
system, constructing the session registry, file store, and relay core, starting
the TCP chat transport and the HTTP server (health, websocket transport, file
API), and gracefully handling operating system interrupt signals (SIGINT,
SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatrelay/internal/app/relay"
	"chatrelay/internal/app/session"
	"chatrelay/internal/app/store"
	"chatrelay/internal/configs"
	"chatrelay/internal/handler"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/transport"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("chat_port", cfg.ChatPort).
		Int("http_port", cfg.HTTPPort).
		Str("default_room", cfg.DefaultRoom).
		Str("storage_backend", cfg.StorageBackend).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the file store (creates the storage root for the disk backend)
	fileStore, err := store.NewFileStore(store.ServiceConfig{
		Backend:           cfg.StorageBackend,
		Dir:               cfg.StorageDir,
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize file store")
	}

	// Initialize the registry and the command relay core
	registry := session.NewRegistry()
	relayCore := relay.New(registry, fileStore, cfg.DefaultRoom)

	// Start the TCP chat transport
	tcpServer := transport.NewTCPServer(fmt.Sprintf(":%d", cfg.ChatPort), registry, relayCore)
	go func() {
		if err := tcpServer.ListenAndServe(); err != nil {
			logx.Fatal(err, "Chat transport failed to start")
		}
	}()

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Registry:  registry,
		Relay:     relayCore,
		FileStore: fileStore,
		Config:    cfg,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Chat Relay HTTP server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "HTTP server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "HTTP server forced to shutdown")
	}

	// Stop accepting, then drop every live session so the per-connection
	// read loops unblock before the transport waits for them.
	tcpServer.Close()
	registry.Shutdown()

	if err := tcpServer.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Chat transport forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
