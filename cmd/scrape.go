package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// ScrapeCommand creates the scrape command
func ScrapeCommand() *cli.Command {
	return &cli.Command{
		Name:      "scrape",
		Usage:     "Trigger a scrape of a website on the server",
		ArgsUsage: "<url>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("exactly one URL expected")
			}
			return runScrape(ctx, c.String("config"), c.Args().First())
		},
	}
}

func runScrape(ctx context.Context, configPath, url string) error {
	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	env.newController().TriggerScrape(ctx, url)
	return nil
}
