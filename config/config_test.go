package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetInt(ConfigSimulations), 100000)
	is.Equal(cfg.GetInt(ConfigExactCeiling), 10)
	is.Equal(cfg.GetBool(ConfigDebug), false)
	is.Equal(cfg.GetString(ConfigModel), "malmuth-harville")
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	err := cfg.Load([]string{"--simulations", "5000", "--exact-ceiling=8", "--debug", "calc"})
	is.NoErr(err)
	is.Equal(cfg.GetInt(ConfigSimulations), 5000)
	is.Equal(cfg.GetInt(ConfigExactCeiling), 8)
	is.True(cfg.GetBool(ConfigDebug))
	is.Equal(cfg.Args(), []string{"calc"})
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("ICM_EXACT_CEILING", "12")
	cfg := &Config{}
	is.NoErr(cfg.Load(nil))
	is.Equal(cfg.GetInt(ConfigExactCeiling), 12)
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "icm.yaml")
	is.NoErr(os.WriteFile(path, []byte("simulations: 2500\nmodel: chip-chop\n"), 0o644))
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--config-file", path}))
	is.Equal(cfg.GetInt(ConfigSimulations), 2500)
	is.Equal(cfg.GetString(ConfigModel), "chip-chop")
}

func TestBadFlag(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.True(cfg.Load([]string{"--no-such-flag"}) != nil)
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Set(ConfigPaytablePath, "data/paytables.yaml")
	cfg.AdjustRelativePaths("/opt/icm")
	is.Equal(cfg.GetString(ConfigPaytablePath), "/opt/icm/data/paytables.yaml")
}

func TestCommandOptionsLeftAlone(t *testing.T) {
	is := is.New(t)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--threads", "2", "calc", "-model", "mc"}))
	is.Equal(cfg.GetInt(ConfigThreads), 2)
	is.Equal(cfg.Args(), []string{"calc", "-model", "mc"})
}
