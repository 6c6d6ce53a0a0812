package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jlozano/docsight/pkg/log"
	"github.com/jlozano/docsight/pkg/upload"
	"github.com/urfave/cli/v3"
)

// Extensions the remote service indexes; everything else is ignored.
var watchedExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// settleDelay gives editors and download managers time to finish writing a
// file before it is uploaded.
const settleDelay = 500 * time.Millisecond

// WatchCommand creates the watch command
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch a directory and upload new documents as they appear",
		ArgsUsage: "<directory>",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("exactly one directory expected")
			}
			return watchDirectory(ctx, c.String("config"), c.Args().First())
		},
	}
}

func watchDirectory(ctx context.Context, configPath, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("checking watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	env, err := loadEnvironment(configPath)
	if err != nil {
		return err
	}
	defer env.close()

	processor := upload.NewProcessor(env.client, env.notifier, func(ctx context.Context) {
		env.poller.Refresh(ctx)
	})
	logger := log.ForService("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Warnf("closing watcher: %v", err)
		}
	}()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	fmt.Printf("Watching %s for new documents. Press Ctrl+C to stop.\n", dir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			fmt.Println("\nShutting down...")
			return nil
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !watchedExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				logger.Debugf("ignoring %s", event.Name)
				continue
			}

			// Editors and downloads often create then write; wait for the
			// file to settle before uploading.
			time.Sleep(settleDelay)
			if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
				continue
			}

			logger.Infof("new document: %s", event.Name)
			processor.Submit(ctx, []string{event.Name})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Errorf("watcher error: %v", err)
		}
	}
}
