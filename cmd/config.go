package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-tutor/internal/config"
)

// newConfigCmd creates the config command tree
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long:  `Manage configuration settings for yt-tutor.`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())

	return configCmd
}

// newConfigInitCmd creates the config init command
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [DATABASE_URL]",
		Short: "Initialize configuration file",
		Long:  `Create a new configuration file with database and model settings.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var databaseURL string
			if len(args) > 0 {
				databaseURL = args[0]
			}

			if err := config.InitConfig(databaseURL); err != nil {
				return err
			}

			configPath, err := config.GetConfigPath()
			if err != nil {
				return err
			}

			fmt.Printf("Created configuration file: %s\n", configPath)
			fmt.Println("Please edit the database_url in this file to match your PostgreSQL database (pgvector required).")

			return nil
		},
	}
}

// newConfigShowCmd creates the config show command
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the current configuration file path and settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.GetConfigPath()
			if err != nil {
				return err
			}

			fmt.Printf("Configuration file: %s\n\n", configPath)

			cfg, err := config.NewConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			fmt.Printf("DATABASE_URL: %s\n", cfg.DatabaseURL)
			fmt.Printf("OLLAMA_HOST: %s\n", cfg.OllamaHost)
			fmt.Printf("CHAT_MODEL: %s\n", cfg.ChatModel)
			fmt.Printf("EMBED_MODEL: %s\n", cfg.EmbedModel)

			return nil
		},
	}
}
