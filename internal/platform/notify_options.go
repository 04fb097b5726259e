// Package platform delivers rasterpad's notifications through whatever
// notification service the host desktop offers.
package platform

// Options carry the parts of a notice beyond its title and body.
type Options struct {
	// AppName is the sender shown by the notification service; empty
	// means "rasterpad".
	AppName string
	// IconPath is an image shown with the notice when the service
	// supports icons. rasterpad passes the saved file or a thumbnail of
	// the copied selection.
	IconPath string
}

func (o Options) appName() string {
	if o.AppName == "" {
		return "rasterpad"
	}
	return o.AppName
}
