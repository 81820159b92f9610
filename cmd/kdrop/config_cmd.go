package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"knowledgedrop/internal/config"
)

var forceInit bool

// configCmd groups configuration management
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the kdrop configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE:  initConfig,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfgPath); err == nil && !forceInit {
		return fmt.Errorf("%s already exists, use --force to overwrite", cfgPath)
	}

	if err := config.DefaultConfig().Save(cfgPath); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", cfgPath)
	return nil
}
