package cmd

import (
	"context"
	"fmt"

	"github.com/jlozano/docsight/pkg/upload"
	"github.com/urfave/cli/v3"
)

// UploadCommand creates the upload command
func UploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload documents for indexing",
		ArgsUsage: "<file> [file...]",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runUpload(ctx, c.String("config"), c.Args().Slice())
		},
	}
}

func runUpload(ctx context.Context, configPath string, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no files given")
	}

	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	processor := upload.NewProcessor(env.client, env.notifier, func(ctx context.Context) {
		env.poller.Refresh(ctx)
	})

	count := processor.Submit(ctx, paths)
	fmt.Printf("%d/%d file(s) uploaded\n", count, len(paths))
	return nil
}
