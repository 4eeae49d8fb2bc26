// Command standarium runs the Standarium ERP server: the sync gateway, the
// admin REST API and the background jobs, configured from a yaml file plus
// STANDARIUM_* environment overrides.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/canevoj/standarium/config"
	"github.com/canevoj/standarium/internal/adminapi"
	"github.com/canevoj/standarium/internal/aigw"
	"github.com/canevoj/standarium/internal/app"
	"github.com/canevoj/standarium/internal/syncd"
	"github.com/canevoj/standarium/internal/webserver"
)

var (
	// Set by the release build.
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "standarium",
		Short:         "Inventory and sales management server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c",
		"/etc/standarium.yml", "path to the yaml configuration file")

	root.AddCommand(newServeCommand(&configFile))
	root.AddCommand(newInitDbCommand(&configFile))
	root.AddCommand(newVersionCommand())
	return root
}

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(*configFile)
		},
	}
}

func newInitDbCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Drop and recreate the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(*configFile)
			application := app.NewApplication(cfg)
			application.Init(cfg)
			defer application.Release()
			application.InitDb()
			fmt.Println("database initialized")
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("standarium %s (%s)\n", version, commit)
		},
	}
}

func serve(configFile string) error {
	cfg := config.LoadConfig(configFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	gateway, err := syncd.NewGateway(application.DB(), cfg.Web.Secret)
	if err != nil {
		return err
	}

	// Idle sessions expire after the configured number of minutes.
	_, err = application.Scheduler().AddFunc("@every 1m", func() {
		idle := application.GetSettingsInt64Value("session", "IdleMinutes")
		if idle <= 0 {
			return
		}
		gateway.SweepIdle(time.Duration(idle) * time.Minute)
	})
	if err != nil {
		zap.L().Error("register idle sweep job", zap.Error(err))
	}

	ai := aigw.NewClient(cfg.AI.BackendURL, time.Duration(cfg.AI.Timeout)*time.Second)

	webserver.Init(application, gateway, ai)
	adminapi.InitRouter()
	return webserver.Listen()
}
