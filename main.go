package main

import (
	"context"
	"fmt"
	"os"

	"github.com/5amCurfew/tap-jira/cmd"
	"github.com/5amCurfew/tap-jira/models"
	"github.com/5amCurfew/tap-jira/sources"
	"github.com/5amCurfew/tap-jira/store"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.1.0"
var discover bool = false
var refresh bool = false
var verbose bool = false
var statePath string
var catalogPath string

func main() {
	Execute()
}

func Execute() {
	rootCmd.Flags().BoolVarP(&discover, "discover", "d", false, "run the tap in discovery mode, creating the catalog")
	rootCmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "extract all issues (full refresh) rather than only issues updated since the bookmark (incremental, default)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.Flags().StringVarP(&statePath, "state", "s", "state.json", "state file path or database URL (overrides state_url in the config)")
	rootCmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "catalog to select streams from; discovery writes catalog.json when unset")

	if err := rootCmd.Execute(); err != nil {
		log.WithFields(log.Fields{"Error": err}).Fatalln("error using tap-jira")
		os.Exit(1)
	} else {
		os.Exit(0)
	}
}

var rootCmd = &cobra.Command{
	Use:     "tap-jira [PATH_TO_CONFIG]",
	Version: version,
	Short:   "tap-jira - Singer tap for Jira",
	Long:    `tap-jira extracts projects, issues and users from the Jira REST API and writes them as Singer messages to stdout.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(command *cobra.Command, args []string) error {
		cmd.ConfigureLogging(verbose)
		ctx := command.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if err := godotenv.Load(); err == nil {
			log.Debug("loaded .env")
		}

		// Default to config.json if no path is provided
		cfgPath := "config.json"
		if len(args) > 0 {
			cfgPath = args[0]
		} else {
			log.Info("no config path provided, defaulting to config.json")
		}

		cfg, err := models.ReadConfig(cfgPath)
		if err != nil {
			log.WithFields(log.Fields{"Error": err}).Fatalln("Failed to parse config")
			return fmt.Errorf("error parsing config: %w", err)
		}

		conn, err := sources.Connect(ctx, cfg)
		if err != nil {
			log.WithFields(log.Fields{"Error": err}).Fatalln("Failed to connect to jira")
			return err
		}

		if discover {
			path := catalogPath
			if path == "" {
				path = "catalog.json"
			}
			if _, err := cmd.Discover(ctx, conn, path, os.Stdout); err != nil {
				log.WithFields(log.Fields{"Error": err}).Fatalln("Failed to discover streams")
				return fmt.Errorf("failed to discover streams: %w", err)
			}
			return nil
		}

		stateLocation := statePath
		if !command.Flags().Changed("state") && cfg.StateURL != "" {
			stateLocation = cfg.StateURL
		}
		st, err := store.Open(stateLocation)
		if err != nil {
			log.WithFields(log.Fields{"Error": err}).Fatalln("Failed to open state store")
			return fmt.Errorf("error opening state store: %w", err)
		}
		defer st.Close()

		opts := cmd.ExtractOptions{Refresh: refresh, Out: os.Stdout}
		if catalogPath != "" {
			catalog, err := models.ReadCatalog(catalogPath)
			if err != nil {
				log.WithFields(log.Fields{"Error": err}).Fatalln("Failed to read catalog")
				return err
			}
			opts.Catalog = catalog
		}

		if err := cmd.Extract(ctx, conn, st, opts); err != nil {
			log.WithFields(log.Fields{"Error": err}).Fatalln("Failed to extract records")
			return fmt.Errorf("failed to extract records: %w", err)
		}

		return nil
	},
}
