//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify posts the notice through osascript. Notification Center attributes
// it to Script Editor, so the app name goes in the subtitle; icons are not
// supported.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", body, title, opts.appName())
	return exec.Command("osascript", "-e", script).Run()
}
