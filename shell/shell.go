// Package shell is the line-oriented command interpreter in front of
// the filesystem.
//
// Every command takes the device with TryAcquire. If something else
// holds it the shell prints "device busy" and moves on rather than
// waiting inside the input loop.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"omegafs/fs"
)

const usage = `commands:
  format <blocks>       wipe and format the device
  touch <name>          create an empty file
  write <name> <text>   replace a file's content
  cat <name>            print a file
  rm <name>             delete a file
  ls                    list files
  info                  show device usage
  help                  this text
  exit                  leave the shell`

var errBadCmd = errors.New("invalid arguments")

type Shell struct {
	dev    *fs.Device
	out    io.Writer
	prompt string
	log    *fs.Logger
}

func New(dev *fs.Device, out io.Writer, prompt string, log *fs.Logger) *Shell {
	if log == nil {
		log = fs.NoopLogger()
	}
	return &Shell{
		dev:    dev,
		out:    out,
		prompt: prompt,
		log:    log,
	}
}

// Run reads commands from in until exit or end of input.
func (s *Shell) Run(in io.Reader) error {
	rdr := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, s.prompt)
		if !rdr.Scan() {
			fmt.Fprintln(s.out)
			return rdr.Err()
		}
		if quit := s.Exec(rdr.Text()); quit {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the shell should
// exit. Errors are printed, never returned.
func (s *Shell) Exec(line string) (quit bool) {
	i := strings.Fields(line)
	if len(i) == 0 {
		return false
	}

	switch i[0] {
	case "exit", "quit":
		return true
	case "help":
		fmt.Fprintln(s.out, usage)
		return false
	}

	g, err := s.dev.TryAcquire()
	if err != nil {
		s.report(i[0], err)
		return false
	}
	defer g.Release()

	s.report(i[0], s.dispatch(g, i, line))
	return false
}

func (s *Shell) dispatch(g *fs.Guard, i []string, line string) error {
	switch i[0] {
	case "format":
		if len(i) != 2 {
			return errBadCmd
		}
		nr, err := strconv.ParseUint(i[1], 10, 32)
		if err != nil {
			return errBadCmd
		}
		if err := g.Format(uint32(nr)); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "formatted %d blocks\n", nr)

	case "touch":
		if len(i) != 2 {
			return errBadCmd
		}
		return g.CreateFile(i[1])

	case "write":
		if len(i) < 2 {
			return errBadCmd
		}
		if err := g.WriteFile(i[1], []byte(payload(line, i[1]))); err != nil {
			return err
		}

	case "cat":
		if len(i) != 2 {
			return errBadCmd
		}
		data, err := g.ReadFile(i[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s\n", data)

	case "rm":
		if len(i) != 2 {
			return errBadCmd
		}
		return g.DeleteFile(i[1])

	case "ls":
		names, err := g.ListFiles()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(s.out, n)
		}

	case "info":
		st, err := g.Stat()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "blocks %d x %d bytes, %d free, %d used, %d files\n",
			st.BlockCount, st.BlockSize, st.Free, st.Used, st.Files)

	default:
		return fmt.Errorf("unknown command %q", i[0])
	}
	return nil
}

// payload is everything on the line after the file name, with the
// single separating space removed.
func payload(line, name string) string {
	rest := strings.TrimLeft(line, " \t")
	rest = strings.TrimPrefix(rest, "write")
	rest = strings.TrimLeft(rest, " \t")
	rest = strings.TrimPrefix(rest, name)
	if len(rest) > 0 && (rest[0] == ' ' || rest[0] == '\t') {
		rest = rest[1:]
	}
	return rest
}

func (s *Shell) report(cmd string, err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, fs.ErrDeviceBusy):
		fmt.Fprintln(s.out, "device busy")
	case errors.Is(err, errBadCmd):
		fmt.Fprintf(s.out, "%s: invalid arguments, try help\n", cmd)
	default:
		fmt.Fprintf(s.out, "%s: %v\n", cmd, err)
	}
	s.log.Debug("command failed", "cmd", cmd, "error", err)
}
