/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 0, run([]string{"version"}, &out, &errOut))
	assert.Contains(t, out.String(), "csvstore version")
}

func TestMissingCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run(nil, &out, &errOut))
	assert.Contains(t, errOut.String(), "Usage")

	assert.Equal(t, 2, run([]string{"check"}, &out, &errOut), "path or config required")
	assert.Equal(t, 2, run([]string{"frobnicate", "--path", t.TempDir()}, &out, &errOut))
}

func TestCheckReportsRejectedRows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "exchange.csv"), []byte("MOEX;RU;;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "exchangeboard.csv"), []byte("TQBR;MOEX;;;;;\nXNYS;NYSE;;;;;\n"), 0o644))

	var out, errOut bytes.Buffer
	code := run([]string{"check", "--path", dir}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), `exchangeboard.csv:2: Exchange with key "NYSE" not found`)
	assert.Contains(t, out.String(), "1 rejected row(s)")

	out.Reset()
	code = run([]string{"stats", "--path", dir, "--dump-metrics"}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "exchangeboard.csv")
	assert.Contains(t, out.String(), "csvstore_load_errors_total")
}

func TestCheckCleanDirectory(t *testing.T) {
	var out, errOut bytes.Buffer
	dir := filepath.Join(t.TempDir(), "fresh")
	assert.Equal(t, 0, run([]string{"check", "-p", dir}, &out, &errOut))
	assert.Contains(t, out.String(), "ok")
	assert.DirExists(t, dir)
}

func TestOptionsComplete(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("path: /from/file\nencoding: windows-1251\ndelimiter: \",\"\n"), 0o644))

	t.Run("FileValuesKept", func(t *testing.T) {
		opts := NewOptions()
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		opts.AddFlags(fs)
		require.NoError(t, fs.Parse([]string{"--config", cfgFile}))

		cfg, err := opts.Complete()
		require.NoError(t, err)
		assert.Equal(t, "/from/file", cfg.Path)
		assert.Equal(t, "windows-1251", cfg.Encoding)
		assert.Equal(t, ',', cfg.DelimiterRune())
	})

	t.Run("ExplicitFlagsOverride", func(t *testing.T) {
		opts := NewOptions()
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		opts.AddFlags(fs)
		require.NoError(t, fs.Parse([]string{"--config", cfgFile, "--path", "/from/flag", "--log-level", "debug"}))

		cfg, err := opts.Complete()
		require.NoError(t, err)
		assert.Equal(t, "/from/flag", cfg.Path)
		assert.Equal(t, "windows-1251", cfg.Encoding)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("InvalidFlag", func(t *testing.T) {
		opts := NewOptions()
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		opts.AddFlags(fs)
		require.NoError(t, fs.Parse([]string{"--path", "x", "--delimiter", ";;"}))

		_, err := opts.Complete()
		assert.Error(t, err)
	})
}
