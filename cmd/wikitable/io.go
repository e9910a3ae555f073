package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const defaultWidth = 80

// ioOptions holds the --input and --output flags.
type ioOptions struct {
	input  string
	output string
}

func addIOFlags(flags *pflag.FlagSet, o *ioOptions) {
	flags.StringVarP(&o.input, "input", "i", "", "Input file (defaults to stdin)")
	flags.StringVarP(&o.output, "output", "o", "", "Output file (defaults to stdout)")
}

// sourceName names the input for logs and saved imports.
func (o *ioOptions) sourceName() string {
	if o.input == "" {
		return "stdin"
	}
	return o.input
}

// readInput reads all of the input file, or stdin when none is given.
func (o *ioOptions) readInput(cmd *cobra.Command) (string, error) {
	if o.input == "" {
		bytes, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading from stdin: %w", err)
		}
		return string(bytes), nil
	}

	bytes, err := os.ReadFile(o.input)
	if err != nil {
		return "", fmt.Errorf("reading file '%s': %w", o.input, err)
	}
	return string(bytes), nil
}

// withOutput calls write with the output file, or stdout when none is given,
// and closes the file afterwards.
func (o *ioOptions) withOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	if o.output == "" {
		return write(cmd.OutOrStdout())
	}

	file, err := os.Create(o.output)
	if err != nil {
		return fmt.Errorf("creating output file '%s': %w", o.output, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing output file '%s': %w", o.output, err)
	}
	return nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w when it is a terminal, then $COLUMNS,
// then fallback.
func terminalWidth(w io.Writer, fallback int) int {
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if width, err := strconv.Atoi(value); err == nil && width > 0 {
			return width
		}
	}
	return fallback
}
