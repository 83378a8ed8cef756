package focus

// localService is the focus service used when no system arbiter
// exists: a single-process desktop session owns its own output, so
// every request is granted and nothing is ever revoked.
type localService struct {
	signals chan Signal
}

// NewLocal returns a Service that always grants focus and never emits
// revocation signals.
func NewLocal() Service {
	return &localService{signals: make(chan Signal)}
}

func (s *localService) Request() <-chan Result {
	ch := make(chan Result, 1)
	ch <- ResultGranted
	return ch
}

func (s *localService) Release() {}

func (s *localService) Signals() <-chan Signal {
	return s.signals
}

func (s *localService) Close() error {
	close(s.signals)
	return nil
}
