// Command migrate applies, inspects and rolls back the VidTube schema.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	s := &schemaCmd{out: os.Stdout}
	defer s.Close()

	app := &cli.Command{
		Name:     "vidtube-migrate",
		Usage:    "Manage the VidTube database schema",
		Commands: s.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}
