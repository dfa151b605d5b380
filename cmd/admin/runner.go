package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"vidtube/internal/cache"
	"vidtube/internal/config"
	"vidtube/internal/database"
	"vidtube/internal/featureflags"
	"vidtube/internal/models"
	"vidtube/internal/notifications"
	"vidtube/internal/repository"
	"vidtube/internal/service"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

// Runner holds the lazily opened dependencies shared by every command.
type Runner struct {
	out io.Writer
	cfg *config.Config
	db  *gorm.DB
}

func (r *Runner) config() (*config.Config, error) {
	if r.cfg != nil {
		return r.cfg, nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	r.cfg = cfg
	return cfg, nil
}

func (r *Runner) database() (*gorm.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	cfg, err := r.config()
	if err != nil {
		return nil, err
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	r.db = db
	return db, nil
}

// Close releases the database handle if a command opened one.
func (r *Runner) Close() {
	if r.db == nil {
		return
	}
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "stats",
			Usage:     "Print a channel's stats as JSON",
			ArgsUsage: "<channelId>",
			Action:    r.Stats,
		},
		{
			Name:  "users",
			Usage: "Manage user accounts",
			Commands: []*cli.Command{
				{
					Name:  "list",
					Usage: "List users",
					Flags: []cli.Flag{
						&cli.IntFlag{Name: "limit", Value: 20, Usage: "rows per page"},
						&cli.IntFlag{Name: "offset", Value: 0, Usage: "rows to skip"},
					},
					Action: r.ListUsers,
				},
				{
					Name:  "create",
					Usage: "Create a user account",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "username", Required: true},
						&cli.StringFlag{Name: "email", Required: true},
						&cli.StringFlag{Name: "full-name"},
						&cli.StringFlag{Name: "password", Required: true},
					},
					Action: r.CreateUser,
				},
			},
		},
		{
			Name:  "flags",
			Usage: "Print the configured feature flags",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "user", Usage: "evaluate rollouts for this user id"},
			},
			Action: r.Flags,
		},
		{
			Name:   "events",
			Usage:  "Stream engagement events from Redis until interrupted",
			Action: r.TailEvents,
		},
	}
}

// Stats computes the stats straight from the database, bypassing the cache.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	channelID, err := models.ParseID("channel", cmd.Args().First())
	if err != nil {
		return err
	}
	db, err := r.database()
	if err != nil {
		return err
	}

	svc := service.NewChannelService(repository.NewChannelRepository(db), repository.NewVideoRepository(db), 0)
	stats, err := svc.GetStats(ctx, channelID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

func (r *Runner) ListUsers(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	users, err := service.NewUserService(repository.NewUserRepository(db)).
		ListUsers(ctx, int(cmd.Int("limit")), int(cmd.Int("offset")))
	if err != nil {
		return err
	}

	if len(users) == 0 {
		_, err := fmt.Fprintln(r.out, "No users found")
		return err
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tCREATED")
	for _, u := range users {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func (r *Runner) CreateUser(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	user, err := service.NewUserService(repository.NewUserRepository(db)).CreateUser(ctx, service.CreateUserInput{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		FullName: cmd.String("full-name"),
		Password: cmd.String("password"),
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(r.out, "created %s (%s)\n", user.Username, user.ID)
	return err
}

func (r *Runner) Flags(_ context.Context, cmd *cli.Command) error {
	cfg, err := r.config()
	if err != nil {
		return err
	}
	flags := featureflags.NewManager(cfg.FeatureFlags)

	raw := flags.Raw()
	if len(raw) == 0 {
		_, err := fmt.Fprintln(r.out, "No feature flags configured")
		return err
	}

	var evaluated map[string]bool
	if s := cmd.String("user"); s != "" {
		userID, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", s, err)
		}
		evaluated = flags.Snapshot(userID)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	for _, name := range names {
		if evaluated != nil {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%t\n", name, raw[name], evaluated[name])
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", name, raw[name])
	}
	return w.Flush()
}

func (r *Runner) TailEvents(ctx context.Context, _ *cli.Command) error {
	cfg, err := r.config()
	if err != nil {
		return err
	}
	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()
	if rdb == nil {
		return fmt.Errorf("redis unavailable at %s", cfg.RedisURL)
	}
	defer func() { _ = rdb.Close() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = notifications.NewNotifier(rdb).StartEngagementSubscriber(ctx, func(channel, payload string) {
		_, _ = fmt.Fprintf(r.out, "%s %s\n", channel, payload)
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}
