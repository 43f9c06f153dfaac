package commands

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/trollsnake/engine/config"
	"github.com/trollsnake/engine/version"
)

var rootCmd = &cobra.Command{
	Use:     "engine",
	Short:   "engine plays troll snake in the terminal and records every game",
	Version: version.Version,
	PersistentPreRun: func(c *cobra.Command, args []string) {
		setupLogging()
		prometheus()
	},
	PersistentPostRun: func(c *cobra.Command, args []string) {
		if logOutput != nil {
			if err := logOutput.Close(); err != nil {
				fmt.Println("unable to close log file", err)
			}
		}
	},
	Run: func(c *cobra.Command, args []string) {
		playCmd.Run(c, args)
	},
}

var (
	logLevel  = config.LogLevel
	logFile   = ""
	logOutput io.Closer
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", logLevel, "log level, as one of: [debug, info, warn, error]")
	flags.StringVar(&logFile, "log-file", logFile, "write logs to this file instead of stderr")
	flags.StringVarP(&storeBackend, "backend", "b", storeBackend, "game store backend, as one of: [inmem, file, redis, sql]")
	flags.StringVarP(&storeBackendArgs, "backend-args", "a", storeBackendArgs, "options to pass to the backend being used")
	flags.BoolVar(&promEnable, "prometheus", promEnable, "enable prometheus metrics")
	flags.StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint")
}

// Execute runs the root command
func Execute() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(loadTestCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setupLogging() {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.WithError(err).WithField("level", logLevel).Warn("invalid log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if logFile == "" {
		return
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.WithError(err).WithField("file", logFile).Fatal("unable to open log file")
	}
	log.SetFormatter(&log.TextFormatter{DisableColors: true})
	log.SetOutput(f)
	logOutput = f
}
