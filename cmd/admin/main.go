// Package main provides operator utilities for VidTube.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	r := &Runner{out: os.Stdout}
	defer r.Close()

	app := &cli.Command{
		Name:     "vidtube-admin",
		Usage:    "Inspect and manage a VidTube deployment",
		Version:  "1.0.0",
		Commands: r.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("admin: %v", err)
	}
}
