package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jlozano/docsight/pkg/client"
	"github.com/jlozano/docsight/pkg/config"
	"github.com/jlozano/docsight/pkg/history"
	"github.com/jlozano/docsight/pkg/notify"
	"github.com/jlozano/docsight/pkg/session"
	"github.com/jlozano/docsight/pkg/stats"
)

// environment bundles everything a command needs to talk to the service and
// the local state store.
type environment struct {
	cfg      *config.Config
	client   *client.Client
	store    *history.Store
	notifier *notify.Center
	poller   *stats.Poller
}

func loadEnvironment(configPath string) (*environment, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}

	apiClient := client.New(cfg.ServerURL, cfg.Timeout.Duration)
	notifier := notify.NewCenter(notify.WithToastListener(printToast))

	return &environment{
		cfg:      cfg,
		client:   apiClient,
		store:    store,
		notifier: notifier,
		poller:   stats.NewPoller(apiClient, cfg.StatsInterval.Duration),
	}, nil
}

func (e *environment) close() {
	if err := e.store.Close(); err != nil {
		fmt.Printf("Warning: failed to close history store: %v\n", err)
	}
}

// newController assembles the session controller with the CLI confirmation
// prompt and a stats refresh wired to the poller.
func (e *environment) newController() *session.Controller {
	return session.New(e.client, e.store, e.notifier,
		session.WithPacingDelay(e.cfg.SearchDelay.Duration),
		session.WithSearchLimit(e.cfg.SearchLimit),
		session.WithConfirm(confirmPrompt),
		session.WithStatsRefresh(func(ctx context.Context) {
			e.poller.Refresh(ctx)
		}),
	)
}

// confirmPrompt asks a yes/no question on the terminal. Anything other than
// an explicit yes declines.
func confirmPrompt(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
