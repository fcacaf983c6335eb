package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretnote/trainer"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, trainer.DefaultConfig(), cfg.Trainer)
	assert.True(t, cfg.Audio.Enabled)
	assert.Equal(t, path, cfg.Path())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.Trainer = trainer.Config{MinFret: 5, MaxFret: 8, InputMode: trainer.ModeFretboard}
	cfg.Audio.MIDIOutput = "IAC Bus 1"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Trainer, loaded.Trainer)
	assert.Equal(t, "IAC Bus 1", loaded.Audio.MIDIOutput)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"trainer":{"minFret":2,"maxFret":4,"inputMode":"picker"}}`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Trainer.MinFret)
	assert.Equal(t, uint8(100), cfg.Audio.Velocity)
	assert.NotEmpty(t, cfg.Controllers)
}

func TestLoadRejectsInvalidRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"trainer":{"minFret":9,"maxFret":4,"inputMode":"picker"}}`), 0644))

	_, err := LoadFrom(path)
	assert.ErrorIs(t, err, trainer.ErrInvalidRange)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trainer.MaxFret = 99
	assert.ErrorIs(t, cfg.SaveTo(filepath.Join(t.TempDir(), "c.json")), trainer.ErrInvalidRange)
}

func TestControllers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AddController(ControllerConfig{PortName: "Keystation", Type: ControllerKeyboard})
	cfg.AddController(ControllerConfig{PortName: "Launchpad X LPX MIDI", Type: ControllerLaunchpadX, AutoConnect: false})

	assert.Len(t, cfg.Controllers, 2)
	assert.False(t, cfg.AllowsController("Launchpad X LPX MIDI"))
	assert.False(t, cfg.AllowsController("Keystation"))
	assert.True(t, cfg.AllowsController("Unknown Port"))
	assert.Equal(t, ControllerKeyboard, cfg.FindController("Keystation").Type)
	assert.Nil(t, cfg.FindController("nope"))
}
