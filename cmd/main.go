package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tidbyt.dev/bustimes"
	"tidbyt.dev/bustimes/cache"
	"tidbyt.dev/bustimes/config"
	"tidbyt.dev/bustimes/model"
	"tidbyt.dev/bustimes/ratelimit"
)

var rootCmd = &cobra.Command{
	Use:          "bustimes",
	Short:        "UK bus departures",
	Long:         "Fetches live UK bus departures from bustimes.org, and serves them as MCP tools",
	SilenceUsage: true,
}

var (
	configPath        string
	baseURL           string
	userAgent         string
	rateLimitInterval time.Duration
	logLevel          string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&baseURL, "base-url", "", bustimes.DefaultBaseURL, "bustimes.org base URL")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "", bustimes.DefaultUserAgent, "User-Agent for upstream requests")
	rootCmd.PersistentFlags().DurationVarP(
		&rateLimitInterval,
		"rate-limit",
		"",
		bustimes.DefaultRateLimitInterval,
		"Minimum time between upstream requests",
	)
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(departuresCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Loads the config file, if any, and applies flags given explicitly on
// the command line on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = userAgent
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimitInterval = rateLimitInterval
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Lookup("listen-address") != nil && flags.Changed("listen-address") {
		cfg.ListenAddress = listenAddress
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func newService(cfg config.Config, logger *slog.Logger) *bustimes.Service {
	s := bustimes.NewService(
		ratelimit.New(cfg.RateLimitInterval),
		cache.New[*model.StopMetadata](cfg.MetadataTTL),
	)
	s.BaseURL = cfg.BaseURL
	s.UserAgent = cfg.UserAgent
	s.RequestTimeout = cfg.RequestTimeout
	s.MaxSize = cfg.MaxResponseSize
	s.Logger = logger
	return s
}
