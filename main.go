package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/jlozano/docsight/cmd"
	"github.com/jlozano/docsight/pkg/config"
	"github.com/jlozano/docsight/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "docsight",
		Usage: "Search and manage documents indexed by a remote document service",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.SearchCommand(),
			cmd.UploadCommand(),
			cmd.WatchCommand(),
			cmd.ScanCommand(),
			cmd.ScrapeCommand(),
			cmd.DeleteCommand(),
			cmd.StatsCommand(),
			cmd.HistoryCommand(),
			cmd.ThemeCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		stdlog.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}
