package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hostel-admin/config"
	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/session"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading %s: %v\n", configPath, err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	sessionPath := cfg.Client.SessionPath
	if sessionPath == "" {
		if sessionPath, err = session.DefaultPath(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	sess, err := session.Open(sessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(sess, apiclient.NewFromConfig(cfg.Client), os.Stdin, os.Stdout, os.Stderr)
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}
