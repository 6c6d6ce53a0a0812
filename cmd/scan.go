package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
)

// ScanCommand creates the scan command
func ScanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Ask the server to re-index its documents folder",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runScan(ctx, c.String("config"))
		},
	}
}

func runScan(ctx context.Context, configPath string) error {
	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	env.newController().TriggerScan(ctx)
	return nil
}
