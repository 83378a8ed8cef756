//go:build !linux

package notify

// New returns a no-op Notifier on platforms without a freedesktop
// notification service.
func New() (Notifier, error) {
	return &stubNotifier{}, nil
}
