package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/example/rasterpad/internal/appstate"
	"github.com/example/rasterpad/internal/session"
)

// openCmd edits an existing image in a window.
type openCmd struct {
	file   string
	output string
	*root
	fs *flag.FlagSet
}

func (o *openCmd) FlagSet() *flag.FlagSet {
	return o.fs
}

func parseOpenCmd(args []string, r *root) (*openCmd, error) {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	o := &openCmd{root: r, fs: fs}
	fs.Usage = usageFunc(o)
	fs.StringVar(&o.file, "file", "", "image file to edit")
	fs.StringVar(&o.output, "output", "", "output file path (defaults to input file)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.file == "" && fs.NArg() == 1 {
		o.file = fs.Arg(0)
	} else if fs.NArg() != 0 {
		return nil, &UsageError{of: o}
	}
	if o.file == "" {
		return nil, &UsageError{of: o}
	}
	if o.output == "" {
		o.output = o.file
	}
	return o, nil
}

func (o *openCmd) Run() error {
	opts, err := o.sessionOptions()
	if err != nil {
		return err
	}
	f, err := os.Open(o.file)
	if err != nil {
		return err
	}
	sess, err := session.Load(f, opts)
	if cerr := f.Close(); cerr != nil {
		log.Printf("error closing %q: %v", o.file, cerr)
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", o.file, err)
	}
	o.runWindow(sess, o.output)
	return nil
}

// newCmd edits a blank canvas in a window.
type newCmd struct {
	width  int
	height int
	output string
	*root
	fs *flag.FlagSet
}

func (n *newCmd) FlagSet() *flag.FlagSet {
	return n.fs
}

func parseNewCmd(args []string, r *root) (*newCmd, error) {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	n := &newCmd{root: r, fs: fs}
	fs.Usage = usageFunc(n)
	w, h := 640, 480
	if r != nil && r.config != nil {
		w, h = r.config.Width, r.config.Height
	}
	fs.IntVar(&n.width, "width", w, "canvas width in pixels")
	fs.IntVar(&n.height, "height", h, "canvas height in pixels")
	fs.StringVar(&n.output, "output", "untitled.png", "output file path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: n}
	}
	if n.width <= 0 || n.height <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", n.width, n.height)
	}
	return n, nil
}

func (n *newCmd) Run() error {
	opts, err := n.sessionOptions()
	if err != nil {
		return err
	}
	sess, err := session.New(n.width, n.height, opts)
	if err != nil {
		return err
	}
	n.runWindow(sess, n.output)
	return nil
}

func (r *root) runWindow(sess *session.Session, output string) {
	title := windowTitle(titleOptions{File: filepath.Base(output)})
	st := appstate.New(sess,
		appstate.WithOutput(output),
		appstate.WithTitle(title),
		appstate.WithTheme(r.activeTheme),
		appstate.WithNotifier(r.notifier),
	)
	st.Run()
}
