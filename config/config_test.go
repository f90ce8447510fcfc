package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohana-garden/soulkiln/config"
)

func TestDefault_MatchesPublishedDefaults(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, 1000, cfg.Dynamics.MaxSteps)
	require.Equal(t, 0.01, cfg.Dynamics.EdgeRemovalThreshold)
	require.Equal(t, 100, cfg.Coherence.NStimuli)
	require.Equal(t, 3, cfg.Mercy.MaxWarnings)
	require.Equal(t, 24*time.Hour, cfg.Mercy.WarningDecay)
	require.Equal(t, 50, cfg.Kiln.Population)
}

func TestLoad_OverlaysFieldsAndRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soulkiln.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[kiln]
population = 80
selection = "Roulette"
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 80, cfg.Kiln.Population)
	require.Equal(t, "Roulette", cfg.Kiln.Selection)
	require.Equal(t, 100, cfg.Coherence.NStimuli) // untouched default survives

	badPath := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(badPath, []byte("[kiln]\npoplation = 1\n"), 0o644))
	_, err = config.Load(badPath)
	require.Error(t, err)
}

func TestLoad_ParsesWarningDecayDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soulkiln.toml")
	require.NoError(t, os.WriteFile(path, []byte("[mercy]\nwarning_decay = \"1h30m\"\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 90*time.Minute, cfg.Mercy.WarningDecay)
}
