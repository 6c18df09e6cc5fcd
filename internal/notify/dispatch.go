package notify

// MultiDispatcher fans every alert out to several delivery channels,
// e.g. a rider's live socket plus their registered push token.
type MultiDispatcher struct {
	targets []Dispatcher
}

// NewMultiDispatcher combines dispatchers into one
func NewMultiDispatcher(targets ...Dispatcher) *MultiDispatcher {
	return &MultiDispatcher{targets: targets}
}

func (m *MultiDispatcher) Show(alert Alert) {
	for _, t := range m.targets {
		t.Show(alert)
	}
}

func (m *MultiDispatcher) Cancel(key string) {
	for _, t := range m.targets {
		t.Cancel(key)
	}
}

func (m *MultiDispatcher) CancelAll() {
	for _, t := range m.targets {
		t.CancelAll()
	}
}
