package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretnote/trainer"
)

func TestLoadConfigFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	opts := &options{}
	root := newRootCmd(opts)
	require.NoError(t, root.ParseFlags([]string{"--config", path, "--max-fret", "7", "--mode", "fretboard", "--no-audio"}))

	cfg, err := loadConfig(root, opts)
	require.NoError(t, err)
	assert.Equal(t, trainer.Config{MinFret: 0, MaxFret: 7, InputMode: trainer.ModeFretboard}, cfg.Trainer)
	assert.False(t, cfg.Audio.Enabled)
	assert.Equal(t, path, cfg.Path())
}

func TestLoadConfigKeepsFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"trainer":{"minFret":5,"maxFret":9,"inputMode":"picker"}}`), 0644))

	opts := &options{}
	root := newRootCmd(opts)
	require.NoError(t, root.ParseFlags([]string{"--config", path, "--min-fret", "6"}))

	cfg, err := loadConfig(root, opts)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Trainer.MinFret)
	assert.Equal(t, 9, cfg.Trainer.MaxFret)
	assert.True(t, cfg.Audio.Enabled)
}

func TestLoadConfigRejectsBadFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	opts := &options{}
	root := newRootCmd(opts)
	require.NoError(t, root.ParseFlags([]string{"--config", path, "--min-fret", "9", "--max-fret", "2"}))
	_, err := loadConfig(root, opts)
	assert.ErrorIs(t, err, trainer.ErrInvalidRange)

	opts = &options{}
	root = newRootCmd(opts)
	require.NoError(t, root.ParseFlags([]string{"--config", path, "--mode", "banjo"}))
	_, err = loadConfig(root, opts)
	assert.ErrorIs(t, err, trainer.ErrInvalidMode)
}

func TestServeCommandRegistered(t *testing.T) {
	root := newRootCmd(&options{})
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
	assert.NotNil(t, serve.Flags().Lookup("addr"))
}
