package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"vidtube/internal/config"
	"vidtube/internal/database"

	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

// schemaCmd opens the configured database on first use. Schema commands never
// apply the schema on connect; each command decides what runs.
type schemaCmd struct {
	out io.Writer
	cfg *config.Config
	db  *gorm.DB
}

func (s *schemaCmd) open() (*config.Config, *gorm.DB, error) {
	if s.cfg == nil {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		s.cfg = cfg
	}
	if s.db == nil {
		db, err := database.ConnectWithOptions(s.cfg, database.ConnectOptions{ApplySchema: false})
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		s.db = db
	}
	return s.cfg, s.db, nil
}

func (s *schemaCmd) Close() {
	if s.db == nil {
		return
	}
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (s *schemaCmd) register() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "up",
			Usage:  "Apply pending SQL migrations (sqlite runs AutoMigrate instead)",
			Action: s.Up,
		},
		{
			Name:   "auto",
			Usage:  "Run GORM AutoMigrate for every model",
			Action: s.Auto,
		},
		{
			Name:   "status",
			Usage:  "Show the schema policy and each migration's state",
			Action: s.Status,
		},
		{
			Name:      "down",
			Usage:     "Roll back the latest applied SQL migration",
			ArgsUsage: "<version>",
			Action:    s.Down,
		},
	}
}

func (s *schemaCmd) Up(ctx context.Context, _ *cli.Command) error {
	cfg, db, err := s.open()
	if err != nil {
		return err
	}
	if !database.UsesSQLMigrations(cfg) {
		fmt.Fprintf(s.out, "%s schemas are managed by AutoMigrate, skipping SQL migrations\n", cfg.DBDriver)
		return s.autoMigrate(ctx, cfg, db)
	}

	migrator, err := database.DefaultMigrator(db)
	if err != nil {
		return err
	}
	n, err := migrator.Up(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(s.out, "schema is up to date")
		return nil
	}
	fmt.Fprintf(s.out, "applied %d migration(s)\n", n)
	return nil
}

func (s *schemaCmd) Auto(ctx context.Context, _ *cli.Command) error {
	cfg, db, err := s.open()
	if err != nil {
		return err
	}
	return s.autoMigrate(ctx, cfg, db)
}

func (s *schemaCmd) autoMigrate(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	auto := *cfg
	auto.DBSchemaMode = database.SchemaModeAuto
	if err := database.ApplySchema(ctx, db, &auto); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	fmt.Fprintln(s.out, "models migrated")
	return nil
}

func (s *schemaCmd) Status(ctx context.Context, _ *cli.Command) error {
	cfg, db, err := s.open()
	if err != nil {
		return err
	}
	status, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "driver=%s mode=%s env=%s sql=%t automigrate=%t\n",
		cfg.DBDriver, status.Mode, status.Environment, status.WillRunSQL, status.WillRunAutoMigrate)
	if !database.UsesSQLMigrations(cfg) {
		fmt.Fprintln(s.out, "SQL migrations do not apply to this database")
		return nil
	}

	all, err := database.Migrations()
	if err != nil {
		return err
	}
	applied := make(map[int]bool, len(status.AppliedVersions))
	for _, v := range status.AppliedVersions {
		applied[v] = true
	}

	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tSTATE")
	for _, m := range all {
		state := "pending"
		if applied[m.Version] {
			state = "applied"
		}
		fmt.Fprintf(w, "%06d\t%s\t%s\n", m.Version, m.Name, state)
	}
	return w.Flush()
}

func (s *schemaCmd) Down(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: vidtube-migrate down <version>")
	}
	version, err := strconv.Atoi(cmd.Args().First())
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", cmd.Args().First(), err)
	}

	cfg, db, err := s.open()
	if err != nil {
		return err
	}
	if !database.UsesSQLMigrations(cfg) {
		return fmt.Errorf("%s schemas have no SQL migrations to roll back", cfg.DBDriver)
	}

	migrator, err := database.DefaultMigrator(db)
	if err != nil {
		return err
	}
	if err := migrator.Down(ctx, version); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "rolled back %06d\n", version)
	return nil
}
