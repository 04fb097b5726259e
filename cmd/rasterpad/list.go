package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/image/colornames"

	"github.com/example/rasterpad/internal/appstate"
	"github.com/example/rasterpad/internal/session"
	"github.com/example/rasterpad/internal/textlayout"
)

// listCmd prints one of the value lists the draw flags accept.
type listCmd struct {
	*root
	fs   *flag.FlagSet
	name string
	list func(w io.Writer, r *root) error
	out  io.Writer
}

func parseListCmd(name string, args []string, r *root, list func(io.Writer, *root) error) (*listCmd, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cmd := &listCmd{root: r, fs: fs, name: name, list: list, out: os.Stdout}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func parseColorsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("colors", args, r, listColors)
}

func parseWidthsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("widths", args, r, listWidths)
}

func parseFontsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("fonts", args, r, listFonts)
}

func (c *listCmd) Run() error {
	return c.list(c.out, c.root)
}

func (c *listCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *listCmd) Template() string {
	return c.name + ".txt"
}

func listColors(w io.Writer, _ *root) error {
	names := make([]string, 0, len(colornames.Map))
	for name := range colornames.Map {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "named colors (hex values are also accepted):")
	for _, name := range names {
		c := colornames.Map[name]
		hex := fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
		block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", c.R, c.G, c.B)
		fmt.Fprintf(w, "  %-20s %s %s\n", name, hex, block)
	}
	return nil
}

func listWidths(w io.Writer, r *root) error {
	def := session.DefaultOptions().Style.LineWidth
	if r != nil && r.config != nil {
		def = r.config.LineWidth
	}
	fmt.Fprintln(w, "stroke widths ([ and ] step through them, * marks the default width):")
	for _, width := range appstate.LineWidths() {
		marker := " "
		if width == def {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %3gpx\n", marker, width)
	}
	return nil
}

func listFonts(w io.Writer, r *root) error {
	def := textlayout.Default
	if r != nil && r.config != nil {
		def = r.config.Font
	}
	fmt.Fprintf(w, "font families (add a size in points, default %q):\n", def)
	for _, family := range textlayout.Families() {
		fmt.Fprintf(w, "  %s\n", family)
	}
	return nil
}
