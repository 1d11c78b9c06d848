// Command staybook is a terminal client for the Data Access API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	"github.com/zatekoja/staybook/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(loadClient).RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// loadClient builds the command client from configuration and global flags
func loadClient(ctx *cli.Context) (*client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if url := ctx.String("api"); url != "" {
		cfg.API.BaseURL = url
	}

	observability.InitLoggerWithOutput("staybook-cli", "development", os.Stderr)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if ctx.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return newClient(ctx.Context, cfg)
}

func newApp(build func(*cli.Context) (*client, error)) *cli.App {
	var c *client

	app := &cli.App{
		Name:  "staybook",
		Usage: "browse, favorite and book accommodations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "Data Access API base URL",
				EnvVars: []string{"STAYBOOK_API_URL"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug output",
			},
		},
		Before: func(ctx *cli.Context) error {
			var err error
			c, err = build(ctx)
			return err
		},
		After: func(ctx *cli.Context) error {
			if c == nil {
				return nil
			}
			return c.Close()
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "login",
			Usage: "sign in with a mobile number or email",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "mobile", Usage: "mobile number"},
				&cli.StringFlag{Name: "email", Usage: "email address"},
				&cli.StringFlag{Name: "password", Usage: "password", Required: true},
			},
			Action: func(ctx *cli.Context) error { return c.login(ctx) },
		},
		{
			Name:   "logout",
			Usage:  "sign out",
			Action: func(ctx *cli.Context) error { return c.logout(ctx) },
		},
		{
			Name:   "whoami",
			Usage:  "show the signed-in user",
			Action: func(ctx *cli.Context) error { return c.whoami(ctx) },
		},
		{
			Name:  "list",
			Usage: "list accommodations",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "q", Usage: "search title, location and category"},
				&cli.StringFlag{Name: "category", Value: "All", Usage: "category tab"},
				&cli.StringFlag{Name: "location", Usage: "location contains"},
				&cli.Float64Flag{Name: "min-price", Usage: "minimum nightly price"},
				&cli.Float64Flag{Name: "max-price", Usage: "maximum nightly price"},
				&cli.Float64Flag{Name: "min-rating", Usage: "minimum rating"},
				&cli.StringSliceFlag{Name: "type", Usage: "type of place (repeatable)"},
				&cli.StringSliceFlag{Name: "facility", Usage: "required facility id (repeatable)"},
			},
			Action: func(ctx *cli.Context) error { return c.list(ctx) },
		},
		{
			Name:      "show",
			Usage:     "show an accommodation with facilities and reviews",
			ArgsUsage: "<accommodation-id>",
			Action:    func(ctx *cli.Context) error { return c.show(ctx) },
		},
		{
			Name:   "favorites",
			Usage:  "list your favorite accommodations",
			Action: func(ctx *cli.Context) error { return c.favorites(ctx) },
		},
		{
			Name:      "favorite",
			Usage:     "toggle an accommodation's favorite status",
			ArgsUsage: "<accommodation-id>",
			Action:    func(ctx *cli.Context) error { return c.toggleFavorite(ctx) },
		},
		{
			Name:      "book",
			Usage:     "book an accommodation",
			ArgsUsage: "<accommodation-id>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "payment", Usage: "payment method (cash or card)"},
				&cli.BoolFlag{Name: "partial", Usage: "pay half now"},
			},
			Action: func(ctx *cli.Context) error { return c.book(ctx) },
		},
		{
			Name:   "bookings",
			Usage:  "list your bookings",
			Action: func(ctx *cli.Context) error { return c.bookings(ctx) },
		},
		{
			Name:      "cancel",
			Usage:     "cancel one of your bookings",
			ArgsUsage: "<booking-id>",
			Action:    func(ctx *cli.Context) error { return c.cancel(ctx) },
		},
		{
			Name:      "comment",
			Usage:     "review an accommodation",
			ArgsUsage: "<accommodation-id>",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "rating", Usage: "rating from 1 to 5", Required: true},
				&cli.StringFlag{Name: "text", Usage: "review text"},
			},
			Action: func(ctx *cli.Context) error { return c.comment(ctx) },
		},
		{
			Name:  "profile",
			Usage: "update your profile",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "first-name"},
				&cli.StringFlag{Name: "last-name"},
				&cli.StringFlag{Name: "email"},
				&cli.StringFlag{Name: "mobile"},
				&cli.StringFlag{Name: "image", Usage: "profile image reference"},
			},
			Action: func(ctx *cli.Context) error { return c.profile(ctx) },
		},
	}

	return app
}
