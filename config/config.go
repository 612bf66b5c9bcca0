package config

import (
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug             = "debug"
	ConfigThreads           = "threads"
	ConfigSimulations       = "simulations"
	ConfigExactCeiling      = "exact-ceiling"
	ConfigSeed              = "seed"
	ConfigModel             = "model"
	ConfigAutostop          = "autostop"
	ConfigAutostopTolerance = "autostop-tolerance"
	ConfigPaytablePath      = "paytable-path"
	ConfigCPUProfile        = "cpu-profile"
	ConfigFile              = "config-file"
)

// Config wraps a viper instance. Settings come, in increasing priority,
// from defaults, an optional YAML config file, ICM_* environment variables
// and command-line flags.
type Config struct {
	*viper.Viper
}

func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigThreads, 0)
	c.SetDefault(ConfigSimulations, 100000)
	c.SetDefault(ConfigExactCeiling, 10)
	c.SetDefault(ConfigSeed, 0)
	c.SetDefault(ConfigModel, "malmuth-harville")
	c.SetDefault(ConfigAutostop, 0)
	c.SetDefault(ConfigAutostopTolerance, 0.001)
	c.SetDefault(ConfigPaytablePath, "")
	c.SetDefault(ConfigCPUProfile, "")
}

// Load parses command-line arguments and reads the environment and the
// config file, if one is named. Arguments that are not flags are left for
// the caller in c.Args().
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		c.Viper = viper.New()
	}
	c.setDefaults()

	fs := pflag.NewFlagSet("icm", pflag.ContinueOnError)
	// Flags end at the first shell command; its own options follow it.
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigThreads, 0, "worker threads; 0 means one per spare CPU")
	fs.Int(ConfigSimulations, 100000, "number of Monte Carlo simulations")
	fs.Int(ConfigExactCeiling, 10, "largest field the exact model will enumerate")
	fs.Uint64(ConfigSeed, 0, "random seed for Monte Carlo; 0 means unseeded")
	fs.String(ConfigModel, "malmuth-harville", "default model: chip-chop, malmuth-harville or monte-carlo")
	fs.Int(ConfigAutostop, 0, "autostop Monte Carlo at this confidence (90, 95, 99); 0 is off")
	fs.Float64(ConfigAutostopTolerance, 0.001, "autostop interval half-width as a fraction of the prize pool")
	fs.String(ConfigPaytablePath, "", "YAML file with additional paytables")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigFile, "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.Set("args", fs.Args())

	c.SetEnvPrefix("ICM")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cf := c.GetString(ConfigFile); cf != "" {
		c.SetConfigFile(cf)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// Args returns the positional arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.GetStringSlice("args")
}

// AdjustRelativePaths makes relative file settings relative to basepath,
// normally the directory holding the executable.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigPaytablePath} {
		p := c.GetString(key)
		if p != "" && !filepath.IsAbs(p) {
			c.Set(key, filepath.Join(basepath, p))
		}
	}
}

// SanitizedSettings returns every setting, suitable for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
