package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// ThemeCommand creates the theme command
func ThemeCommand() *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "Show or set the persisted theme flag",
		ArgsUsage: "[dark|light]",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runTheme(c.String("config"), c.Args().First())
		},
	}
}

func runTheme(configPath, theme string) error {
	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	if theme == "" {
		fmt.Println(env.store.Theme())
		return nil
	}

	if theme != "dark" && theme != "light" {
		return fmt.Errorf("theme must be dark or light")
	}
	if err := env.store.SetTheme(theme); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	fmt.Printf("Theme set to %s\n", theme)
	return nil
}
