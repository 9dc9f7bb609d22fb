package main

import (
	"fmt"
	"os"

	"github.com/lunfardo314/sestring"
	"github.com/lunfardo314/sestring/config"
	"github.com/lunfardo314/sestring/grammar"
	"github.com/lunfardo314/sestring/util/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "sestring",
	Short:         "Decode, resolve and check encoded game strings",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "", "log level, overrides config")
	rootCmd.PersistentFlags().String("language", "", "language (ja, en, de, fr, zh), overrides config")
}

type environment struct {
	cfg   *config.Config
	lang  sestring.Language
	log   *zap.SugaredLogger
	store *grammar.Store
}

// loadEnvironment reads config, applies flag overrides and loads sheet data
func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	var err error
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		cfg.Language = lang
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	ret := &environment{
		cfg:   cfg,
		lang:  cfg.Lang(),
		store: grammar.NewInMemory(),
	}
	if ret.log, err = logging.New(cfg.LogLevel, cfg.Development); err != nil {
		return nil, err
	}
	for _, path := range cfg.Sheets {
		n, err := ret.store.LoadFile(path)
		if err != nil {
			return nil, err
		}
		ret.log.Debugf("loaded %d rows from %s", n, path)
	}
	return ret, nil
}

func (env *environment) newContext(locals ...string) (*sestring.Context, error) {
	globals, err := env.cfg.Globals()
	if err != nil {
		return nil, err
	}
	ctx := sestring.NewContext(env.lang, parseParams(locals)...)
	ctx.Globals = globals
	ctx.Data = env.store
	return ctx, nil
}
