package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// DeleteCommand creates the delete command
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an indexed document by its source URL",
		ArgsUsage: "<source-url>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("exactly one source URL expected")
			}
			return runDelete(ctx, c.String("config"), c.Args().First())
		},
	}
}

func runDelete(ctx context.Context, configPath, sourceURL string) error {
	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	env.newController().DeleteDocument(ctx, sourceURL)
	return nil
}
