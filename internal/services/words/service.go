package words

import (
	"bufio"
	"context"
	_ "embed"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mcoot/wordlobby/internal/dependencies/random"
	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/storage"
)

//go:embed default_words.txt
var defaultWords string

// Service supplies secret words and validates guesses against a word list
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger

	mu     sync.RWMutex
	words  []string // load order, used for random picks
	set    map[string]struct{}
	loaded bool
}

// New creates a new word Service
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger.With(slog.String("component", "words")),
		set:     make(map[string]struct{}),
	}
}

// LoadFromStorage loads words previously saved to storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetDictionaryWords(ctx)
	if err != nil {
		return err
	}
	s.loadWords(words)
	return nil
}

// LoadFromFile loads words from a file (one word per line) and saves them to storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	words, err := readWords(file)
	if err != nil {
		return err
	}

	if err := s.storage.SaveDictionaryWords(ctx, words); err != nil {
		return err
	}

	s.loadWords(words)
	s.logger.Info("word list loaded", slog.String("path", path), slog.Int("count", s.WordCount()))
	return nil
}

// LoadDefaults loads the embedded word list
func (s *Service) LoadDefaults(ctx context.Context) error {
	words, err := readWords(strings.NewReader(defaultWords))
	if err != nil {
		return err
	}
	if err := s.storage.SaveDictionaryWords(ctx, words); err != nil {
		return err
	}
	s.loadWords(words)
	s.logger.Info("embedded word list loaded", slog.Int("count", s.WordCount()))
	return nil
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(words []string) {
	s.loadWords(words)
}

func (s *Service) loadWords(words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.words = make([]string, 0, len(words))
	s.set = make(map[string]struct{}, len(words))
	for _, w := range words {
		w = normalize(w)
		if w == "" {
			continue
		}
		if _, dup := s.set[w]; dup {
			continue
		}
		s.set[w] = struct{}{}
		s.words = append(s.words, w)
	}
	s.loaded = true
}

// IsValidWord checks if a word is in the list, ignoring case
func (s *Service) IsValidWord(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}
	_, ok := s.set[normalize(word)]
	return ok
}

// IsLoaded returns whether a word list has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// WordCount returns the number of distinct words loaded
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// RandomWord picks a word of the given length in characters; length <= 0
// accepts any word
func (s *Service) RandomWord(length int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded || len(s.words) == 0 {
		return "", model.ErrDictionaryNotLoaded
	}

	candidates := s.words
	if length > 0 {
		candidates = make([]string, 0, len(s.words))
		for _, w := range s.words {
			if utf8.RuneCountInString(w) == length {
				candidates = append(candidates, w)
			}
		}
		if len(candidates) == 0 {
			return "", model.ErrNoWordOfLength
		}
	}

	return candidates[s.random.Intn(len(candidates))], nil
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

// Interface check
type ServiceInterface interface {
	IsValidWord(word string) bool
	IsLoaded() bool
	WordCount() int
	RandomWord(length int) (string, error)
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadDefaults(ctx context.Context) error
	LoadWords(words []string)
}

var _ ServiceInterface = (*Service)(nil)
