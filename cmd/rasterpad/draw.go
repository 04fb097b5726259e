package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/rasterpad/internal/clipboard"
	"github.com/example/rasterpad/internal/codec"
	"github.com/example/rasterpad/internal/geom"
	"github.com/example/rasterpad/internal/session"
	"github.com/example/rasterpad/internal/textlayout"
	"github.com/example/rasterpad/internal/theme"
	"github.com/example/rasterpad/internal/tools"
)

// drawOp is one headless gesture.
type drawOp struct {
	name   string
	points []geom.Point
	text   string
}

// drawCmd replays a gesture on an image without opening a window.
type drawCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	colorSpec     string
	color         color.RGBA
	width         float64
	font          string
	antialias     bool
	op            drawOp
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

var drawFlagNames = map[string]struct{}{
	"file":           {},
	"output":         {},
	"from-clipboard": {},
	"from-clip":      {},
	"to-clipboard":   {},
	"to-clip":        {},
	"color":          {},
	"width":          {},
	"font":           {},
	"antialias":      {},
}

var drawBoolFlags = map[string]struct{}{
	"from-clipboard": {},
	"from-clip":      {},
	"to-clipboard":   {},
	"to-clip":        {},
	"antialias":      {},
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	defaults := session.DefaultOptions().Style
	if r != nil && r.config != nil {
		defaults.Color = r.config.Color
		defaults.LineWidth = r.config.LineWidth
		defaults.Antialias = r.config.Antialias
		defaults.Font = r.config.Font
	}
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&d.fromClipboard, "from-clip", false, "read the input image from the clipboard (alias)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&d.colorSpec, "color", theme.Hex(defaults.Color), "stroke or fill color name or hex value")
	fs.Float64Var(&d.width, "width", defaults.LineWidth, "stroke width in pixels")
	fs.StringVar(&d.font, "font", defaults.Font, "text font, for example \"Go Bold 18\"")
	fs.BoolVar(&d.antialias, "antialias", defaults.Antialias, "smooth edges")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	d.op, err = parseDrawOp(strings.ToLower(positionals[0]), positionals[1:])
	if err != nil {
		return nil, err
	}
	if d.color, err = theme.ParseColor(d.colorSpec); err != nil {
		return nil, err
	}
	if _, err := textlayout.ParseFont(d.font); err != nil {
		return nil, err
	}
	if d.width < 1 {
		d.width = 1
	}
	if d.fromClipboard {
		if d.output == "" {
			if d.file != "" {
				d.output = d.file
			} else {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
		}
	} else {
		if d.file == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if d.output == "" {
			d.output = d.file
		}
	}
	if _, err := codec.FormatFor(d.output); err != nil {
		return nil, err
	}
	return d, nil
}

func parseDrawOp(name string, args []string) (drawOp, error) {
	op := drawOp{name: name}
	var err error
	switch name {
	case "pencil", "erase":
		if len(args) < 2 || len(args)%2 != 0 {
			return op, fmt.Errorf("%s requires one or more x y pairs", name)
		}
		op.points, err = expectPoints(args, len(args), name)
	case "line", "rect", "oval":
		op.points, err = expectPoints(args, 4, name)
	case "fill":
		op.points, err = expectPoints(args, 2, name)
	case "move":
		op.points, err = expectPoints(args, 6, name)
	case "text":
		if len(args) < 3 {
			return op, fmt.Errorf("text requires x y and content")
		}
		op.points, err = expectPoints(args[:2], 2, name)
		op.text = strings.Join(args[2:], " ")
		if strings.TrimSpace(op.text) == "" {
			return op, fmt.Errorf("text content cannot be empty")
		}
	default:
		return op, fmt.Errorf("unsupported operation %q", name)
	}
	return op, err
}

func expectPoints(args []string, n int, name string) ([]geom.Point, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments", name, n)
	}
	vals := make([]float64, n)
	for i, raw := range args {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		vals[i] = v
	}
	pts := make([]geom.Point, 0, n/2)
	for i := 0; i+1 < n; i += 2 {
		pts = append(pts, geom.Pt(vals[i], vals[i+1]))
	}
	return pts, nil
}

func drag(sess *session.Session, pts ...geom.Point) {
	sess.PointerDown(pts[0], 0)
	for _, p := range pts[1:] {
		sess.PointerMove(p, 0, true)
	}
	sess.PointerUp(pts[len(pts)-1], 0)
}

// apply replays op on sess. Live selections are left for Save to commit.
func (op drawOp) apply(sess *session.Session) error {
	kinds := map[string]tools.Kind{
		"pencil": tools.KindPencil,
		"erase":  tools.KindEraser,
		"line":   tools.KindLine,
		"rect":   tools.KindRectangle,
		"oval":   tools.KindOval,
		"fill":   tools.KindFloodFill,
		"text":   tools.KindText,
		"move":   tools.KindSelection,
	}
	kind, ok := kinds[op.name]
	if !ok {
		return fmt.Errorf("unsupported operation %q", op.name)
	}
	if err := sess.SelectTool(kind); err != nil {
		return err
	}
	switch op.name {
	case "text":
		drag(sess, op.points[0])
		sess.CommitText(op.text)
	case "move":
		drag(sess, op.points[0], op.points[1])
		if !sess.Tool().HasLiveSelection() {
			return fmt.Errorf("move: empty selection")
		}
		from := geom.Rect{Min: op.points[0], Max: op.points[1]}.Canon()
		c := geom.Pt((from.Min.X+from.Max.X)/2, (from.Min.Y+from.Max.Y)/2)
		drag(sess, c, c.Add(op.points[2]))
	default:
		drag(sess, op.points...)
	}
	return nil
}

func (d *drawCmd) Run() error {
	sess, err := d.loadSession()
	if err != nil {
		return err
	}
	if err := d.op.apply(sess); err != nil {
		return err
	}
	format, err := codec.FormatFor(d.output)
	if err != nil {
		return err
	}
	out, err := os.Create(d.output)
	if err != nil {
		return err
	}
	defer func(out *os.File) {
		err := out.Close()
		if err != nil {
			log.Printf("error closing %q: %v", out.Name(), err)
		}
	}(out)
	if err := sess.Save(out, format); err != nil {
		return err
	}
	saved := d.output
	if abs, err := filepath.Abs(d.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	d.root.notifySave(saved)
	if d.toClipboard {
		img := sess.Buffer().Snapshot()
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy image to clipboard: %w", err)
		}
		detail := filepath.Base(d.output)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		d.root.notifyCopy(detail, img)
	}
	return nil
}

func (d *drawCmd) options() (session.Options, error) {
	opts := session.DefaultOptions()
	if d.root != nil {
		var err error
		if opts, err = d.root.sessionOptions(); err != nil {
			return opts, err
		}
	}
	opts.Style.Color = d.color
	opts.Style.LineWidth = d.width
	opts.Style.Antialias = d.antialias
	opts.Style.Font = d.font
	return opts, nil
}

func (d *drawCmd) loadSession() (*session.Session, error) {
	opts, err := d.options()
	if err != nil {
		return nil, err
	}
	if d.fromClipboard {
		var img image.Image
		img, err = clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return session.FromImage(img, opts)
	}
	f, err := os.Open(d.file)
	if err != nil {
		return nil, err
	}
	sess, err := session.Load(f, opts)
	if cerr := f.Close(); cerr != nil {
		log.Printf("error closing %q: %v", f.Name(), cerr)
	}
	return sess, err
}

func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "" {
			positionals = append(positionals, arg)
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
