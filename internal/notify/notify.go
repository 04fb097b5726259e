// Package notify posts desktop notifications when rasterpad writes a file
// or puts a selection on the clipboard. Every kind of notice stays off until
// the config file or a command-line flag enables it.
package notify

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/rasterpad/internal/codec"
	"github.com/example/rasterpad/internal/platform"
)

// Event names a kind of notice. The names are also the keys of the
// [notify] config section.
type Event string

const (
	// EventSave follows writing the canvas to an image file.
	EventSave Event = "save"
	// EventCopy follows copying or cutting a selection.
	EventCopy Event = "copy"
)

// Preferences hold the notification title and one message per event. A
// message has a single %s, replaced by the file path or the clipboard
// detail.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

// DefaultPreferences returns the built-in title and messages.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "rasterpad",
		Templates: map[Event]string{
			EventSave: "Saved %s",
			EventCopy: "Copied %s to clipboard",
		},
	}
}

// envOverrides maps environment variables onto the event they reword.
var envOverrides = map[string]Event{
	"RASTERPAD_NOTIFY_SAVE_TEXT": EventSave,
	"RASTERPAD_NOTIFY_COPY_TEXT": EventCopy,
}

// LoadPreferences returns the defaults with any RASTERPAD_NOTIFY_*
// environment overrides applied.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("RASTERPAD_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for name, event := range envOverrides {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			prefs.Templates[event] = v
		}
	}
	return prefs
}

// Sender delivers one notification.
type Sender func(title, body string, opts platform.Options) error

// Notifier posts the enabled notices. A nil Notifier posts nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// New returns a Notifier with every event disabled.
func New(prefs Preferences) *Notifier {
	templates := make(map[Event]string, len(prefs.Templates))
	for k, v := range prefs.Templates {
		templates[k] = v
	}
	return &Notifier{
		prefs:   Preferences{Title: prefs.Title, Templates: templates},
		enabled: map[Event]bool{},
		send:    platform.Notify,
	}
}

// SetSender replaces the platform delivery.
func (n *Notifier) SetSender(s Sender) { n.send = s }

// Enable switches the notice for event on or off.
func (n *Notifier) Enable(event Event, on bool) {
	if n == nil {
		return
	}
	n.enabled[event] = on
}

func (n *Notifier) on(event Event) bool {
	return n != nil && n.enabled[event]
}

// Save reports that the canvas was written to path. The saved file doubles
// as the notification icon.
func (n *Notifier) Save(path string) {
	if !n.on(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	var opts platform.Options
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.post(EventSave, detail, opts)
}

// Copy reports that detail went to the clipboard. When img is set a
// thumbnail of it is shown with the notice.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.on(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "selection"
	}
	var opts platform.Options
	if img != nil {
		path, err := writePreview(img)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer removePreview(path)
			opts.IconPath = path
		}
	}
	n.post(EventCopy, detail, opts)
}

func (n *Notifier) post(event Event, detail string, opts platform.Options) {
	tmpl := strings.TrimSpace(n.prefs.Templates[event])
	if tmpl == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(tmpl, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	opts.AppName = n.prefs.Title
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// writePreview stores img as a temporary PNG for the notification icon.
func writePreview(img image.Image) (string, error) {
	f, err := os.CreateTemp("", "rasterpad-preview-*.png")
	if err != nil {
		return "", err
	}
	path := f.Name()
	err = codec.Encode(f, img, codec.PNG)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func removePreview(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("remove preview: %v", err)
	}
}
