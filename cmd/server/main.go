// Package main - Entry point for the gutter estimate server
package main

import (
	"flag"
	"fmt"
	"os"

	"gutter-api/adapters/eagleview"
	"gutter-api/api"
	"gutter-api/internal/config"
	"gutter-api/internal/logging"
)

const version = "1.0.0"

func main() {
	addr := flag.String("addr", "", "server address (overrides config)")
	cfgFile := flag.String("config", "", "HCL config file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	client := eagleview.New(cfg.Provider, eagleview.NewTokenCache())
	server := api.NewServer(client, api.Options{
		Version:        version,
		Pricing:        cfg.Pricing,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		WebhookSecret:  cfg.Server.WebhookSecret,
	})

	fmt.Printf("Gutter API v%s listening on %s\n", version, cfg.Server.Addr)
	if err := server.ListenAndServe(cfg.Server.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
