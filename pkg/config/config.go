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

package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 📚 Config is everything a run can be told from flags or a config file
type Config struct {
	Root      string        // Directory holding one directory per patient
	Extension string        // Suffix files must end with
	Delay     time.Duration // Pause after each moved file
	Sort      bool          // Process patients by name
	Exclude   []string      // Doublestar patterns relative to each patient directory
	LogFile   string        // Optional JSON log mirror
	Progress  bool          // Show progress while running
}

// 🏭 Default returns the configuration used when nothing else is given
func Default() *Config {
	return &Config{
		Extension: ".dcm",
		Delay:     10 * time.Millisecond,
		Sort:      true,
		Progress:  true,
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.Extension == "" {
		return errors.Errorf("extension is required")
	}
	if cfg.Delay < 0 {
		return errors.Errorf("delay must not be negative: %s", cfg.Delay)
	}
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	if cfg.Root != "" {
		cfg.Root = filepath.Clean(cfg.Root)
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s [%s] delay=%s", cfg.Root, cfg.Extension, cfg.Delay)
}

// fileConfig is the on-disk shape. Pointers tell unset apart from zero.
type fileConfig struct {
	Root      *string  `json:"root" yaml:"root" toml:"root" hcl:"root,optional"`
	Extension *string  `json:"extension" yaml:"extension" toml:"extension" hcl:"extension,optional"`
	Delay     *string  `json:"delay" yaml:"delay" toml:"delay" hcl:"delay,optional"`
	Sort      *bool    `json:"sort" yaml:"sort" toml:"sort" hcl:"sort,optional"`
	Exclude   []string `json:"exclude" yaml:"exclude" toml:"exclude" hcl:"exclude,optional"`
	LogFile   *string  `json:"log_file" yaml:"log_file" toml:"log_file" hcl:"log_file,optional"`
	Progress  *bool    `json:"progress" yaml:"progress" toml:"progress" hcl:"progress,optional"`
}

// apply overlays every field set in the file onto cfg
func (f *fileConfig) apply(cfg *Config) error {
	if f.Root != nil {
		cfg.Root = *f.Root
	}
	if f.Extension != nil {
		cfg.Extension = *f.Extension
	}
	if f.Delay != nil {
		d, err := time.ParseDuration(*f.Delay)
		if err != nil {
			return errors.Errorf("parsing delay %q: %w", *f.Delay, err)
		}
		cfg.Delay = d
	}
	if f.Sort != nil {
		cfg.Sort = *f.Sort
	}
	if f.Exclude != nil {
		cfg.Exclude = f.Exclude
	}
	if f.LogFile != nil {
		cfg.LogFile = *f.LogFile
	}
	if f.Progress != nil {
		cfg.Progress = *f.Progress
	}
	return nil
}
