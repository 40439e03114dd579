package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "task-marketplace.com/task-marketplace/internal/configs"
	"task-marketplace.com/task-marketplace/internal/logging"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "task-marketplace",
	Short:         "Task marketplace lifecycle service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (defaults to $CONFIG_FILE)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}

func newLogger() *log.Logger {
	return logging.New(os.Stdout, "")
}

// loadConfig reads .env, then the YAML file, then the environment.
func loadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	path := configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	return config.LoadFile(path)
}
