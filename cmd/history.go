package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// HistoryCommand creates the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Manage search history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show past queries, most recent first",
				Action: func(ctx context.Context, c *cli.Command) error {
					return listHistory(c.String("config"))
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove one query from the history",
				ArgsUsage: "<query>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("exactly one query expected")
					}
					return removeHistory(c.String("config"), c.Args().First())
				},
			},
			{
				Name:  "clear",
				Usage: "Wipe the search history",
				Action: func(ctx context.Context, c *cli.Command) error {
					return clearHistory(c.String("config"))
				},
			},
		},
	}
}

func listHistory(configPath string) error {
	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	entries := env.store.List()
	if len(entries) == 0 {
		fmt.Println(noDataStyle.Render("No search history"))
		return nil
	}
	for i, entry := range entries {
		fmt.Printf("%2d. %s\n", i+1, entry)
	}
	return nil
}

func removeHistory(configPath, term string) error {
	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.store.Remove(term); err != nil {
		return fmt.Errorf("removing history entry: %w", err)
	}
	return nil
}

func clearHistory(configPath string) error {
	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	if !confirmPrompt("Clear all search history?") {
		return nil
	}
	if err := env.store.Clear(); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	fmt.Println("History cleared")
	return nil
}
