package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"academy/internal/client"
)

const (
	envPrefix      = "ACADEMY"
	configName     = ".academy"
	defaultAPIURL  = "http://localhost:8080/api"
	defaultDataDir = ".academy"
)

// app holds what every command needs once flags and config are resolved.
type app struct {
	v      *viper.Viper
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	var cfgFile string

	root := &cobra.Command{
		Use:           "academyctl",
		Short:         "Command line client for the academy portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cfgFile); err != nil {
				return err
			}
			return a.buildClient()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.academy.yaml)")
	flags.String("api-url", defaultAPIURL, "API base URL")
	flags.String("data-dir", "", "directory for local state (default $HOME/.academy)")
	flags.Duration("timeout", client.DefaultTimeout, "per-request timeout")
	flags.Bool("demo", false, "accept the bundled demo accounts when the API is down")
	flags.Bool("verbose", false, "log fallbacks to stderr")

	for key, flag := range map[string]string{
		"api_url":  "api-url",
		"data_dir": "data-dir",
		"timeout":  "timeout",
		"demo":     "demo",
		"verbose":  "verbose",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newCoursesCmd(a),
		newResourcesCmd(a),
		newProgressCmd(a),
		newCompleteCmd(a),
		newSummaryCmd(a),
		newStatusCmd(a),
	)
	return root
}

func (a *app) loadConfig(cfgFile string) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	home, _ := os.UserHomeDir()
	a.v.SetDefault("data_dir", filepath.Join(home, defaultDataDir))

	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName(configName)
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(home)
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (a *app) buildClient() error {
	dataDir := a.v.GetString("data_dir")
	if dataDir == "" {
		return errors.New("data_dir is not set")
	}
	store, err := client.NewFileStore(dataDir)
	if err != nil {
		return err
	}

	opts := []client.Option{
		client.WithStore(store),
		client.WithDemoLogin(a.v.GetBool("demo")),
	}
	if timeout := a.v.GetDuration("timeout"); timeout > 0 {
		opts = append(opts, client.WithTimeout(timeout))
	}
	if a.v.GetBool("verbose") {
		logger := log.New("academyctl")
		logger.SetOutput(os.Stderr)
		logger.SetLevel(log.WARN)
		opts = append(opts, client.WithLogger(logger))
	}

	a.client = client.New(a.v.GetString("api_url"), opts...)
	return nil
}

// noteDegraded tells the user when output came from local data.
func (a *app) noteDegraded(cmd *cobra.Command) {
	if a.client.Degraded() {
		fmt.Fprintln(cmd.ErrOrStderr(), "(offline: showing local data)")
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
