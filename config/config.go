// Package config holds the knobs for the shell binary.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
)

type Config struct {
	// DiskBlocks is the size of the medium reserved at startup.
	DiskBlocks uint32
	// BlockCount is what format is called with at boot, block 0
	// included. It must not exceed DiskBlocks.
	BlockCount uint32
	// Image, if set, backs the medium with a file instead of memory.
	Image           string
	LogLevel        slog.Level
	Prompt          string
	CheckInvariants bool
}

const (
	defaultDiskBlocks = 1024
	defaultPrompt     = "> "
)

func MkDefaultConfig() *Config {
	return &Config{
		DiskBlocks: defaultDiskBlocks,
		BlockCount: defaultDiskBlocks,
		LogLevel:   slog.LevelWarn,
		Prompt:     defaultPrompt,
	}
}

// Parse applies command line flags on top of the defaults.
func Parse(name string, args []string, errOut io.Writer) (*Config, error) {
	c := MkDefaultConfig()

	fset := flag.NewFlagSet(name, flag.ContinueOnError)
	fset.SetOutput(errOut)
	disk := fset.Uint("disk", uint(c.DiskBlocks), "medium size in blocks")
	blocks := fset.Uint("blocks", 0, "blocks to format at boot (default: whole disk)")
	fset.StringVar(&c.Image, "image", "", "back the medium with this file")
	fset.TextVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fset.StringVar(&c.Prompt, "prompt", c.Prompt, "shell prompt")
	fset.BoolVar(&c.CheckInvariants, "check", false, "verify the file table after every change")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if fset.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fset.Args())
	}

	if uint64(*disk) > math.MaxUint32 || uint64(*blocks) > math.MaxUint32 {
		return nil, errors.New("block counts must fit in 32 bits")
	}
	c.DiskBlocks = uint32(*disk)
	c.BlockCount = uint32(*blocks)
	if c.BlockCount == 0 {
		c.BlockCount = c.DiskBlocks
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	if c.DiskBlocks < 1 {
		return errors.New("disk needs at least one block")
	}
	if c.BlockCount > c.DiskBlocks {
		return fmt.Errorf("cannot format %d blocks on a %d block disk", c.BlockCount, c.DiskBlocks)
	}
	return nil
}
