package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-logo-downloader/internal/config"
	"go-logo-downloader/internal/fetch"
	"go-logo-downloader/internal/models"
)

// cfgFile holds the path to the config file specified by the user
var cfgFile string

// logHTTPFlag holds the value of the --log-http flag
var logHTTPFlag bool

// outputDirFlag holds the value of the --output-dir flag
var outputDirFlag string

// timeoutFlag holds the value of the --timeout flag
var timeoutFlag int

// logLevelFlag holds the value of the --log-level flag
var logLevelFlag string

// logFormatFlag holds the value of the --log-format flag
var logFormatFlag string

// globalConfig holds the loaded configuration
var globalConfig models.Config

// globalHTTPTransport holds the globally configured HTTP transport
// (base or logging-wrapped)
var globalHTTPTransport http.RoundTripper

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "logo-downloader",
	Short: "A tool to find and download company logos",
	Long: `Logo Downloader searches multiple logo sources concurrently,
scores and caches every result, and can save the best logos to disk.`,
	PersistentPreRunE: loadGlobalConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Defer closing the HTTP logging transport if it was initialized
	defer func() {
		if loggingTransport, ok := globalHTTPTransport.(*fetch.LoggingTransport); ok && loggingTransport != nil {
			log.Debug("Closing HTTP trace log file.")
			if err := loggingTransport.Close(); err != nil {
				log.WithError(err).Error("Error closing HTTP trace log file")
			}
		}
	}()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.toml", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&logHTTPFlag, "log-http", false, "Log HTTP requests/responses to http.log (overrides config)")
	rootCmd.PersistentFlags().StringVar(&outputDirFlag, "output-dir", "", "Directory to save logos (overrides config)")
	rootCmd.PersistentFlags().IntVar(&timeoutFlag, "timeout", -1, "Timeout for HTTP requests in seconds (overrides config, -1 uses config default)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: text or json")
}

// loadGlobalConfig attempts to load the configuration and applies flag overrides.
// It also sets up the global HTTP transport based on logging settings.
func loadGlobalConfig(cmd *cobra.Command, args []string) error {
	if logLevelFlag != "" {
		level, err := log.ParseLevel(logLevelFlag)
		if err != nil {
			log.Warnf("Invalid log level %q, keeping default", logLevelFlag)
		} else {
			log.SetLevel(level)
		}
	}
	switch logFormatFlag {
	case "":
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{})
	default:
		log.Warnf("Invalid log format %q, keeping default", logFormatFlag)
	}

	var err error
	globalConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		// Not fatal here. Commands check the fields they need and fail
		// later with a better message if something required is missing.
		log.WithError(err).Warnf("Failed to load configuration from %s", cfgFile)
	}

	if cmd.Flags().Changed("log-http") {
		globalConfig.LogHTTPRequests = logHTTPFlag
		log.Debugf("Overriding LogHTTPRequests based on --log-http flag: %t", logHTTPFlag)
	}

	if cmd.Flags().Changed("output-dir") {
		if outputDirFlag != "" {
			globalConfig.OutputDir = outputDirFlag
			log.Debugf("Overriding OutputDir based on --output-dir flag: %s", outputDirFlag)
		} else {
			log.Warn("--output-dir flag provided but value is empty, ignoring.")
		}
	}

	if cmd.Flags().Changed("timeout") {
		if timeoutFlag > 0 {
			globalConfig.TimeoutSec = timeoutFlag
			log.Debugf("Overriding TimeoutSec based on --timeout flag: %d sec", timeoutFlag)
		} else {
			log.Warnf("--timeout flag provided with invalid value %d, using config value: %d sec", timeoutFlag, globalConfig.TimeoutSec)
		}
	}

	// --- Setup Global HTTP Transport ---
	baseTransport, err := fetch.BuildTransport(globalConfig.SearchConfig())
	if err != nil {
		log.WithError(err).Warn("Failed to build HTTP transport, using default.")
		baseTransport = http.DefaultTransport
	}

	globalHTTPTransport = baseTransport
	if globalConfig.LogHTTPRequests {
		log.Debug("HTTP request logging enabled, wrapping global HTTP transport.")
		logFilePath := "http.log"
		if globalConfig.OutputDir != "" {
			if _, statErr := os.Stat(globalConfig.OutputDir); statErr == nil {
				logFilePath = filepath.Join(globalConfig.OutputDir, logFilePath)
			} else {
				log.Warnf("OutputDir '%s' not found, saving http.log to current directory.", globalConfig.OutputDir)
			}
		}
		log.Infof("HTTP logging to file: %s", logFilePath)

		loggingTransport, err := fetch.NewLoggingTransport(baseTransport, logFilePath)
		if err != nil {
			log.WithError(err).Error("Failed to initialize HTTP logging transport, logging disabled.")
		} else {
			globalHTTPTransport = loggingTransport
		}
	}

	return nil
}
