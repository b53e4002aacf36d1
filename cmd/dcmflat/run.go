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
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dcmflat/cmd/dcmflat/opts"
	"github.com/walteh/dcmflat/pkg/config"
	"github.com/walteh/dcmflat/pkg/flatten"
	"github.com/walteh/dcmflat/pkg/log"
	"github.com/walteh/dcmflat/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// run performs one flattening pass with the resolved options
func run(ctx context.Context, cmd *cobra.Command, o *opts.RootOpts) (err error) {
	cfg := o.Config

	zlog, closeLog, err := setupLogging(o.Debug, cfg.LogFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil && err == nil {
			err = errors.Errorf("closing log file: %w", cerr)
		}
	}()

	ctx = zlog.WithContext(ctx)
	logger := log.New(cmd.OutOrStdout(), zlog)
	ctx = log.NewContext(ctx, logger)

	log.FromContext(ctx).Header(ctx, fmt.Sprintf("flattening %s", cfg.Root))

	summary, err := flatten.Run(ctx, flatten.Options{
		Root:      cfg.Root,
		Extension: cfg.Extension,
		Delay:     cfg.Delay,
		Unsorted:  !cfg.Sort,
		Excludes:  cfg.Exclude,
		Sink:      logger,
		Progress:  newProgress(cfg, &zlog, cmd.ErrOrStderr()),
	})
	if err != nil {
		return errors.Errorf("running: %w", err)
	}

	if !summary.Interrupted {
		logger.Success(ctx, fmt.Sprintf("Flattened %d patient directories, %s moved",
			len(summary.Patients), humanize.Bytes(uint64(summary.TotalBytes))))
	}

	if o.ShowSummary && len(summary.Patients) > 0 {
		logger.LogNewline()
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
	}

	return nil
}

// newProgress draws a bar on a terminal and logs progress lines otherwise.
// Without a debug or file logger the lines go to errOut as plain text.
func newProgress(cfg *config.Config, zlog *zerolog.Logger, errOut io.Writer) flatten.Progress {
	if !cfg.Progress {
		return status.Nop{}
	}
	if f, ok := errOut.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return status.NewBar(errOut, fmt.Sprintf("Moving %s files", cfg.Extension))
	}
	if zlog.GetLevel() == zerolog.Disabled {
		console := zerolog.New(zerolog.ConsoleWriter{
			Out:          errOut,
			NoColor:      true,
			PartsExclude: []string{zerolog.TimestampFieldName},
		}).Level(zerolog.InfoLevel)
		return status.NewLogProgress(&console)
	}
	return status.NewLogProgress(zlog)
}
