package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"knowledgedrop/internal/config"
	"knowledgedrop/internal/feed"
	"knowledgedrop/internal/provider"
)

// providersCmd groups the provider inspection subcommands
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Inspect the configured content providers",
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered provider",
	RunE:  listProviders,
}

var providersTestCmd = &cobra.Command{
	Use:   "test [name]",
	Short: "Fetch once from a single provider and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  testProvider,
}

func init() {
	providersCmd.AddCommand(providersListCmd)
	providersCmd.AddCommand(providersTestCmd)
}

func listProviders(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := buildRegistry(cfg)
	for _, name := range provider.Names(registry) {
		fmt.Println(name)
	}
	return nil
}

func testProvider(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := buildRegistry(cfg)
	p, ok := registry[args[0]]
	if !ok {
		return fmt.Errorf("unknown provider %q, see \"kdrop providers list\"", args[0])
	}

	rec, err := p.Fetch(cmd.Context())
	if err != nil {
		return fmt.Errorf("provider %s failed: %w", args[0], err)
	}

	fmt.Printf("Title:   %s\n", rec.Title)
	fmt.Printf("Link:    %s\n", rec.Link)
	fmt.Printf("Content: %s\n", rec.Content)
	return nil
}

func buildRegistry(cfg *config.Config) map[string]provider.Provider {
	client := &http.Client{Timeout: cfg.HTTP.TimeoutDuration()}
	fetcher := feed.NewFetcher(client, logger)
	return provider.BuildRegistry(cfg, client, fetcher, logger)
}
