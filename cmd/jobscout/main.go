// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the jobscout CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/jobscout/internal/collect"
	"github.com/pdiddy/jobscout/internal/secrets"
	"github.com/pdiddy/jobscout/internal/store"
	"github.com/pdiddy/jobscout/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the jobscout CLI.
var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Exhaustive per-employer job posting collection and relevance ranking",
	Long: `jobscout collects job postings per employer from an upstream source whose
queries are capped at a fixed result count, recovering the full set by
re-querying across recency windows when a single query saturates. Collected
records are deduplicated within and across employers, then optionally
ranked against a relevance target with lexical or AI scoring.

Each stage is a subcommand: search collects and deduplicates, score ranks a
stored run, history browses past runs, and export writes CSV or report files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./jobscout.yaml or ~/.config/jobscout/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("jobscout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "jobscout"))
		}
	}

	viper.SetEnvPrefix("JOBSCOUT")
	viper.AutomaticEnv()

	viper.SetDefault("scrape.timeout", "30s")
	viper.SetDefault("scrape.user_agent", "jobscout/"+version)
	viper.SetDefault("scrape.result_cap", types.DefaultResultCap)
	viper.SetDefault("scrape.country", "US")
	viper.SetDefault("scrape.radius_miles", 50)
	viper.SetDefault("scrape.inter_query_delay", "2s")
	viper.SetDefault("ai.timeout", "60s")
	viper.SetDefault("ai.min_score", 50)
	viper.SetDefault("store.path", "jobscout.db")
	viper.SetDefault("export.dir", "exports")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig builds the stage configuration from viper settings and
// loaded secrets.
func loadConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Scrape: types.ScrapeConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("scrape.timeout"),
				UserAgent: viper.GetString("scrape.user_agent"),
			},
			ResultCap:       viper.GetInt("scrape.result_cap"),
			Country:         viper.GetString("scrape.country"),
			RadiusMiles:     viper.GetInt("scrape.radius_miles"),
			InterQueryDelay: viper.GetDuration("scrape.inter_query_delay"),
		},
		AI: types.AIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout: viper.GetDuration("ai.timeout"),
			},
			Model:    viper.GetString("ai.model"),
			APIKey:   secretDefault("openai-api-key", viper.GetString("ai.api_key")),
			MinScore: viper.GetInt("ai.min_score"),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
		Export: types.ExportConfig{
			Dir: viper.GetString("export.dir"),
		},
	}
}

func newCollector(cfg types.ScrapeConfig) *collect.Collector {
	return &collect.Collector{
		Scraper: &collect.IndeedBackend{
			Client: &http.Client{Timeout: cfg.Timeout},
			Cfg:    cfg,
		},
		InterQueryDelay: cfg.InterQueryDelay,
	}
}

func openStore(cfg types.StoreConfig) (*store.Store, error) {
	return store.Open(cfg)
}

// parseRunTimeout reads the shared --timeout flag, zero meaning none.
func parseRunTimeout(cmd *cobra.Command) time.Duration {
	t, _ := cmd.Flags().GetDuration("timeout")
	return t
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
