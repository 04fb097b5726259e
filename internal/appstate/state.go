package appstate

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/rasterpad/internal/notify"
	"github.com/example/rasterpad/internal/session"
	"github.com/example/rasterpad/internal/theme"
)

// AppState holds application configuration for the UI.
type AppState struct {
	Session  *session.Session
	Output   string
	Title    string
	Theme    *theme.Theme
	Notifier *notify.Notifier

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithOutput sets the file written by the save shortcut.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets the desktop notifier used after saving and copying.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState editing sess.
func New(sess *session.Session, opts ...Option) *AppState {
	a := &AppState{Session: sess, Title: ProgramTitle}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// statusShortcuts are the clickable actions in the status bar.
var statusShortcuts = []Shortcut{
	{label: "^Z:undo", action: "undo"},
	{label: "^Y:redo", action: "redo"},
	{label: "^C:copy", action: "copy"},
	{label: "^V:paste", action: "paste"},
	{label: "^S:save", action: "save"},
	{label: "^Q:quit", action: "quit"},
}

func (a *AppState) Main(s screen.Screen) {
	sess := a.Session
	ctl := newController(sess, a.Output, a.Notifier)

	canvasSize := sess.Buffer().Size()
	width := canvasSize.X + 2*margin
	height := canvasSize.Y + 2*margin + bottomHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()

	defer a.notifyClose()

	anim := newAnimator(func() { w.Send(tickEvent{}) })
	defer anim.stop()

	sess.Buffer().OnModified(func(bool) { w.Send(paint.Event{}) })
	defer sess.Buffer().OnModified(nil)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	var placed []Shortcut
	hover, hoverSwatch := -1, -1
	paintCh := make(chan paintState, 1)
	go func() {
		bd := &backdrop{}
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st, bd)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	toCanvas := func(x, y float32) (float32, float32) {
		cr := canvasRect(sess.Buffer().Size(), width, height)
		return x - float32(cr.Min.X), y - float32(cr.Min.Y)
	}

	for {
		e := w.NextEvent()
		repaint := false
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			repaint = true
		case tickEvent:
			repaint = true
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil {
				if dropCount < frameDropThreshold {
					paintCancel()
					dropCount++
				}
			}
			paintMu.Unlock()
			now := time.Now()
			canvas := image.NewRGBA(image.Rectangle{Max: sess.Buffer().Size()})
			sess.Render(canvas, now)
			st := sess.Style()
			ps := paintState{
				width:        width,
				height:       height,
				theme:        a.Theme,
				canvas:       canvas,
				transparent:  sess.Buffer().Transparent(),
				caret:        sess.CaretRect(),
				compose:      ctl.composeHint(),
				color:        st.Color,
				background:   sess.Buffer().Background(),
				hoverSwatch:  hoverSwatch,
				shortcuts:    statusShortcuts,
				hover:        hover,
				status:       statusLine(sess.Kind().String(), st.LineWidth, st.Antialias, st.Font, sess.Cursor().String(), sess.Buffer().Modified()),
				message:      ctl.message,
				messageUntil: ctl.messageUntil,
			}
			placed = layoutShortcuts(statusShortcuts, height)
			select {
			case paintCh <- ps:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- ps
			}
		case mouse.Event:
			if int(e.Y) >= height-bottomHeight && e.Direction != mouse.DirRelease {
				p := image.Pt(int(e.X), int(e.Y))
				press := e.Direction == mouse.DirPress
				prev, prevSwatch := hover, hoverSwatch
				hover, hoverSwatch = -1, -1
				for i, r := range layoutSwatches(height) {
					if p.In(r) {
						hoverSwatch = i
						if press {
							ctl.pickSwatch(i, e.Button)
						}
						break
					}
				}
				for i, sc := range placed {
					if p.In(sc.rect) {
						hover = i
						if e.Button == mouse.ButtonLeft && press {
							ctl.run(sc.action)
						}
						break
					}
				}
				repaint = hover != prev || hoverSwatch != prevSwatch || press
				break
			}
			e.X, e.Y = toCanvas(e.X, e.Y)
			repaint = sess.HandleEvent(e)
		case key.Event:
			repaint = ctl.handleKey(e)
		case error:
			log.Print(e)
		}
		if ctl.quit {
			return
		}
		if repaint {
			w.Send(paint.Event{})
		}
		anim.schedule(sess.HasAnimation())
	}
}
