// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dcmflat/cmd/dcmflat/opts"
	"github.com/walteh/dcmflat/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the raw flag values of one command instance
type rootFlags struct {
	configFile string
	extension  string
	delay      time.Duration
	exclude    []string
	noSort     bool
	logFile    string
	noProgress bool
	summary    bool
	debug      bool
}

// newRootCmd creates the dcmflat command
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "dcmflat [root]",
		Short: "Move files out of nested folders into the top of each patient directory",
		Long: `dcmflat walks every directory directly under root (one per patient),
finds files ending with the given extension at any depth and moves them into
the top level of that patient directory.

Files whose name is already taken at the top level are left where they are.
Running it twice is safe: the second run finds nothing left to move.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newRootOpts(cmd.Context(), cmd, flags, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd, o)
		},
	}

	addRootFlags(cmd, flags)
	return cmd
}

// addRootFlags adds the flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	defaults := config.Default()

	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "config file path (.yaml, .yml, .json, .hcl or .toml)")
	cmd.Flags().StringVarP(&f.extension, "extension", "e", defaults.Extension, "file extension to look for")
	cmd.Flags().DurationVar(&f.delay, "delay", defaults.Delay, "pause after each moved file (0 disables)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "glob patterns, relative to each patient directory, to leave alone")
	cmd.Flags().BoolVar(&f.noSort, "no-sort", false, "process patients in directory order instead of by name")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "also write JSON logs to this file")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "disable progress reporting")
	cmd.Flags().BoolVar(&f.summary, "summary", true, "print a per-patient table after the run")
	cmd.Flags().BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
}

// newRootOpts merges defaults, the config file, flags and arguments, in
// that order of precedence from lowest to highest
func newRootOpts(ctx context.Context, cmd *cobra.Command, f *rootFlags, args []string) (*opts.RootOpts, error) {
	cfg := config.Default()
	if f.configFile != "" {
		loaded, err := config.LoadConfig(ctx, f.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("extension") {
		cfg.Extension = f.extension
	}
	if flags.Changed("delay") {
		cfg.Delay = f.delay
	}
	if flags.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if flags.Changed("no-sort") {
		cfg.Sort = !f.noSort
	}
	if flags.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if flags.Changed("no-progress") {
		cfg.Progress = !f.noProgress
	}
	if len(args) == 1 {
		cfg.Root = args[0]
	}

	if cfg.Root == "" {
		return nil, errors.Errorf("root path is required, pass it as an argument or set root in the config file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating options: %w", err)
	}

	return &opts.RootOpts{
		Config:      cfg,
		ShowSummary: f.summary,
		Debug:       f.debug,
	}, nil
}

// setupLogging builds the zerolog logger: a console writer on errOut when
// debugging and a JSON file when logFile is set
func setupLogging(debug bool, logFile string, errOut io.Writer) (zerolog.Logger, func() error, error) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var writers []io.Writer
	closer := func() error { return nil }

	if debug {
		writers = append(writers, zerolog.ConsoleWriter{Out: errOut, TimeFormat: time.RFC3339})
	}
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, errors.Errorf("opening log file: %w", err)
		}
		writers = append(writers, file)
		closer = file.Close
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}
