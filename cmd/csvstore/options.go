/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/suparena/csvstore/config"
)

// Options contains the command-line configuration.
type Options struct {
	ConfigFile  string // YAML config file, optional.
	EnvFiles    []string
	Path        string
	Encoding    string
	Delimiter   string
	LogLevel    string
	Development bool
	DumpMetrics bool // Print collected metrics to stdout before exiting.

	// internal
	fs *pflag.FlagSet // FlagSet used in AddFlags() and consulted in Complete()
}

// NewOptions returns a new Options struct initialized with default values.
func NewOptions() *Options {
	return &Options{
		Encoding:  config.DefaultEncoding,
		Delimiter: string(config.DefaultDelimiter),
		LogLevel:  config.DefaultLogLevel,
	}
}

// AddFlags binds the Options fields to command-line flags on the given FlagSet.
func (opts *Options) AddFlags(fs *pflag.FlagSet) {
	if fs == nil {
		fs = pflag.CommandLine
	}
	opts.fs = fs

	fs.StringVarP(&opts.ConfigFile, "config", "c", opts.ConfigFile,
		"Path to a YAML config file. Flags set explicitly override its values.")
	fs.StringSliceVar(&opts.EnvFiles, "env-file", opts.EnvFiles,
		"Repeatable. .env files loaded before the config file is expanded.")
	fs.StringVarP(&opts.Path, "path", "p", opts.Path,
		"Registry directory.")
	fs.StringVar(&opts.Encoding, "encoding", opts.Encoding,
		"Text encoding of the files, e.g. utf-8 or windows-1251.")
	fs.StringVar(&opts.Delimiter, "delimiter", opts.Delimiter,
		"Field delimiter.")
	fs.StringVar(&opts.LogLevel, "log-level", opts.LogLevel,
		"One of info, verbose, debug, trace.")
	fs.BoolVar(&opts.Development, "development", opts.Development,
		"Human readable console logs.")
	fs.BoolVar(&opts.DumpMetrics, "dump-metrics", opts.DumpMetrics,
		"Print collected metrics in text exposition format before exiting.")
}

// Complete builds the effective configuration from the config file, if any,
// and the flags that were set explicitly.
func (opts *Options) Complete() (*config.Config, error) {
	if err := config.LoadEnv(opts.EnvFiles...); err != nil {
		return nil, err
	}

	cfg := &config.Config{}
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	override := func(name string, dst *string, value string) {
		if opts.ConfigFile == "" || opts.changed(name) {
			*dst = value
		}
	}
	override("path", &cfg.Path, opts.Path)
	override("encoding", &cfg.Encoding, opts.Encoding)
	override("delimiter", &cfg.Delimiter, opts.Delimiter)
	override("log-level", &cfg.Log.Level, opts.LogLevel)
	if opts.ConfigFile == "" || opts.changed("development") {
		cfg.Log.Development = opts.Development
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the flag combination.
func (opts *Options) Validate() error {
	if opts.ConfigFile == "" && opts.Path == "" {
		return fmt.Errorf("either --config or --path is required")
	}
	return nil
}

func (opts *Options) changed(name string) bool {
	if opts.fs == nil {
		return false
	}
	f := opts.fs.Lookup(name)
	return f != nil && f.Changed
}
