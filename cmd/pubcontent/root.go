package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eringen/pubcontent"
	"github.com/eringen/pubcontent/logging"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfgFile   string
	appConfig pubcontent.Config
)

// configKeys lists every Config key so each can be set from the
// environment, e.g. PUBCONTENT_CACHETTL=10m.
var configKeys = []string{
	"contentDir",
	"publicDir",
	"databasePath",
	"addr",
	"checkCoverImages",
	"validateRateLimit",
	"cacheTTL",
	"watchDebounce",
	"logLevel",
	"logFormat",
}

var rootCmd = &cobra.Command{
	Use:   "pubcontent",
	Short: "Validate the blog content collection",
	Long: `pubcontent checks the front matter of every entry in the "blog"
content collection against its schema, indexes valid entries in SQLite,
and serves a read-only validation report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./pubcontent.yaml)")
	pf.String("content-dir", "", "collections root directory")
	pf.String("public-dir", "", "directory that root-relative cover images resolve against")
	pf.String("db", "", "SQLite index path")
	pf.String("log-level", "", "log level (trace, debug, info, warn, error)")
	pf.String("log-format", "", "log format (json, console)")
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("pubcontent")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PUBCONTENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	for key, flag := range map[string]string{
		"contentDir":       "content-dir",
		"publicDir":        "public-dir",
		"databasePath":     "db",
		"logLevel":         "log-level",
		"logFormat":        "log-format",
		"addr":             "addr",
		"checkCoverImages": "cover-images",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	configUsed := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if cfgFile != "" {
			return fmt.Errorf("config file %s not found: %w", cfgFile, err)
		}
	} else {
		configUsed = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	appConfig.SetDefaults()
	if err := appConfig.Validate(); err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = appConfig.LogLevel
	logCfg.Format = appConfig.LogFormat
	logging.Init(logCfg)
	if configUsed != "" {
		log := logging.WithComponent("config")
		log.Debug().Str("file", configUsed).Msg("using config file")
	}
	return nil
}
