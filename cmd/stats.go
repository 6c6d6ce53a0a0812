package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show system statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "follow",
				Usage: "Keep polling on the configured interval until interrupted",
				Value: false,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return showStats(ctx, c.String("config"), c.Bool("follow"))
		},
	}
}

func showStats(ctx context.Context, configPath string, follow bool) error {
	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	if !follow {
		env.poller.Refresh(ctx)
		current, ok := env.poller.Current()
		if !ok {
			return fmt.Errorf("stats unavailable")
		}
		fmt.Println(formatStats(current))
		return nil
	}

	if err := env.poller.Start(ctx); err != nil {
		return fmt.Errorf("starting poller: %w", err)
	}
	defer env.poller.Stop()

	fmt.Printf("Polling stats every %v. Press Ctrl+C to stop.\n\n", env.cfg.StatsInterval.Duration)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(env.cfg.StatsInterval.Duration)
	defer ticker.Stop()

	printCurrent := func() {
		if current, ok := env.poller.Current(); ok {
			fmt.Println(formatStats(current))
		} else {
			fmt.Println(noDataStyle.Render("Stats unavailable"))
		}
	}

	printCurrent()
	for {
		select {
		case <-sigCh:
			fmt.Println("\nShutting down...")
			return nil
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			printCurrent()
		}
	}
}
