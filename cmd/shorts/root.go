package main

import (
	"os"

	"github.com/spf13/cobra"

	"news-shorts-pipeline/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "shorts",
		Short:         "Compose narrated short-form videos from segment manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newComposeCommand(&configFlag))
	rootCmd.AddCommand(newPlanCommand(&configFlag))
	rootCmd.AddCommand(newDoctorCommand())

	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path == "" {
		if _, statErr := os.Stat("config.yaml"); statErr == nil {
			path = "config.yaml"
		}
	}
	if path == "" {
		cfg = config.Default()
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	// environment (including .env via godotenv) overrides the file layer
	if err := cfg.OverlayEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
