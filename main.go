package main

import (
	"fmt"
	"io"
	"os"

	"omegafs/bio"
	"omegafs/config"
	"omegafs/fs"
	"omegafs/shell"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "omegafs: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	conf, err := config.Parse("omegafs", args, stderr)
	if err != nil {
		return err
	}
	log := fs.NewTextLogger(stderr, conf.LogLevel)

	disk, closeDisk, err := openDisk(conf)
	if err != nil {
		return err
	}
	defer closeDisk()

	dev := fs.New(disk,
		fs.WithLogger(log),
		fs.WithInvariantChecks(conf.CheckInvariants),
	)
	if err := dev.Format(conf.BlockCount); err != nil {
		return fmt.Errorf("formatting: %w", err)
	}

	return shell.New(dev, stdout, conf.Prompt, log).Run(stdin)
}

// openDisk reserves the storage medium: a byte slice by default, or a
// file image when one is configured.
func openDisk(conf *config.Config) (bio.Device, func(), error) {
	if conf.Image == "" {
		return bio.MkMemDisk(conf.DiskBlocks), func() {}, nil
	}
	f, err := os.OpenFile(conf.Image, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening image: %w", err)
	}
	return bio.NewRWDisk(f, conf.DiskBlocks), func() { f.Close() }, nil
}
