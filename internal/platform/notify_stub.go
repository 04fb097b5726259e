//go:build !linux && !darwin && !windows

package platform

// Notify drops the notice; there is no notification service to reach.
func Notify(title, body string, opts Options) error {
	return nil
}
