//go:build linux

package platform

import (
	"github.com/godbus/dbus/v5"
)

const (
	notifyDest = "org.freedesktop.Notifications"
	notifyPath = "/org/freedesktop/Notifications"
	// notifyTimeout is how long, in milliseconds, the notice stays up.
	notifyTimeout = int32(5000)
)

// Notify posts the notice to the session bus notification daemon. The icon
// is passed as a file path, which daemons load themselves.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	call := conn.Object(notifyDest, notifyPath).Call(notifyDest+".Notify", 0,
		opts.appName(), uint32(0), opts.IconPath, title, body,
		[]string{}, map[string]dbus.Variant{}, notifyTimeout)
	return call.Err
}
