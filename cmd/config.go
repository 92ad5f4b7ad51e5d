package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Beastly713/hexglitch/pkg/intensity"
	"github.com/Beastly713/hexglitch/pkg/patterns"
	"github.com/Beastly713/hexglitch/pkg/pipeline"
	"github.com/Beastly713/hexglitch/pkg/selector"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// envPrefix is prepended to flag names for environment overrides,
// e.g. HEXGLITCH_MAX_GLITCHES.
const envPrefix = "HEXGLITCH"

// newViper binds the command's flags, HEXGLITCH_* variables and the
// optional --config file. Explicit flags win over env, env over the file.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}
	return v, nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// runSettings is everything the glitch command resolved from its flags.
type runSettings struct {
	config       pipeline.Config
	level        intensity.Level
	patternNames []string
	seed         int64
	seeded       bool
	showLog      bool
	recordPath   string
	autoEncode   bool
	interactive  bool
}

func loadRunSettings(cmd *cobra.Command) (*runSettings, error) {
	v, err := newViper(cmd)
	if err != nil {
		return nil, err
	}

	strategy, err := selector.Parse(v.GetString("strategy"))
	if err != nil {
		return nil, err
	}

	levelName := v.GetString("intensity")
	level, ok := intensity.ParseLevel(levelName)
	if !ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown intensity %q, using %s\n", levelName, level)
	}

	catalog, err := patterns.Load(v.GetString("patterns-file"))
	if err != nil {
		return nil, err
	}
	pool, names, err := catalog.Select(v.GetString("pattern"))
	if err != nil {
		return nil, err
	}

	s := &runSettings{
		config: pipeline.Config{
			Patterns:    pool,
			Strategy:    strategy,
			Value:       v.GetInt("value"),
			MaxGlitches: v.GetInt("max-glitches"),
			Profile:     level.Profile(),
			Smear:       v.GetBool("smear-mode"),
		},
		level:        level,
		patternNames: names,
		seed:         v.GetInt64("seed"),
		seeded:       v.IsSet("seed"),
		showLog:      v.GetBool("log"),
		recordPath:   v.GetString("record"),
		autoEncode:   v.GetBool("auto-encode"),
	}

	// Prompt for the frame count when it was not given and a user is there
	// to answer, unless told otherwise.
	s.interactive = v.GetBool("interactive") ||
		(!v.IsSet("max-glitches") && isatty.IsTerminal(os.Stdin.Fd()))
	if v.GetBool("no-interactive") {
		s.interactive = false
	}

	return s, nil
}
