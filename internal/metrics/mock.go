package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesRecorded     int
	validationFailures  int
	persistenceFailures int
	imports             int
	resets              int
	saveDurations       []float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		saveDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncValidationFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationFailures++
}

func (m *Mock) IncPersistenceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistenceFailures++
}

func (m *Mock) IncImports() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imports++
}

func (m *Mock) IncResets() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
}

func (m *Mock) ObserveSaveDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveDurations = append(m.saveDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// ValidationFailures returns the number of times IncValidationFailures was called.
func (m *Mock) ValidationFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validationFailures
}

// PersistenceFailures returns the number of times IncPersistenceFailures was called.
func (m *Mock) PersistenceFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persistenceFailures
}

// Imports returns the number of times IncImports was called.
func (m *Mock) Imports() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imports
}

// Resets returns the number of times IncResets was called.
func (m *Mock) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}

// SaveDurations returns the observed save durations.
func (m *Mock) SaveDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.saveDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
