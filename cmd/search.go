package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jlozano/docsight/pkg/session"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search indexed documents",
		ArgsUsage: "<query>",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runSearch(ctx, c.String("config"), strings.Join(c.Args().Slice(), " "))
		},
	}
}

func runSearch(ctx context.Context, configPath, query string) error {
	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	controller := env.newController()
	controller.SubmitQuery(ctx, query)

	if controller.View() != session.ViewResults {
		// Empty query: nothing was submitted.
		return fmt.Errorf("query must not be empty")
	}

	results := controller.Results()
	if len(results) == 0 {
		fmt.Println(noDataStyle.Render("No results found"))
		return nil
	}

	for i, result := range results {
		fmt.Println(formatResult(i+1, result, controller.Query()))
		if i < len(results)-1 {
			fmt.Println()
		}
	}
	fmt.Printf("\nTotal: %d result(s)\n", len(results))

	return nil
}
