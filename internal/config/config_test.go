package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inodb/vcfx/internal/config"
)

func TestInitInstallsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(filepath.Join(dir, "vcfx.yaml")))

	val, err := config.Get("parser.chunk_length")
	require.NoError(t, err)
	require.EqualValues(t, config.DefaultChunkLength, val)
}

func TestSetPersistsToConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vcfx.yaml")
	require.NoError(t, config.Init(cfgPath))

	written, err := config.Set("sink.type", "duckdb")
	require.NoError(t, err)
	require.Equal(t, cfgPath, written)

	_, err = os.Stat(cfgPath)
	require.NoError(t, err)

	got, err := config.Get("sink.type")
	require.NoError(t, err)
	require.Equal(t, "duckdb", got)
}

func TestSetCoercesBooleanTokens(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(filepath.Join(dir, "vcfx.yaml")))

	_, err := config.Set("parser.strict", "true")
	require.NoError(t, err)

	got, err := config.Get("parser.strict")
	require.NoError(t, err)
	require.Equal(t, true, got)
}

func TestGetUnsetKeyErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(filepath.Join(dir, "vcfx.yaml")))

	_, err := config.Get("does.not.exist")
	require.Error(t, err)
}

func TestShowReportsSettingsAsYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Init(filepath.Join(dir, "vcfx.yaml")))

	out, err := config.Show()
	require.NoError(t, err)
	require.Contains(t, out, "parser:")
}
