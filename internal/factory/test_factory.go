package factory

import (
	"time"

	"github.com/mcoot/wordlobby/internal/dependencies/mocks"
	"github.com/mcoot/wordlobby/internal/storage/memory"
	"github.com/mcoot/wordlobby/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(Config{})
}

// NewTestAppWithConfig is NewTestApp with game settings applied
func NewTestAppWithConfig(cfg Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, cfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestWords loads a small fixed word list. With an empty random queue
// every lobby gets the first word, "crane".
func (t *TestApp) LoadTestWords() {
	t.WordService.LoadWords([]string{
		"crane", "slate", "robot", "oomph", "eerie", "apple", "about", "other",
		"which", "there", "their", "words", "world", "green", "house", "party",
	})
}
