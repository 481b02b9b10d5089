package words

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordlobby/internal/dependencies/mocks"
	"github.com/mcoot/wordlobby/internal/model"
	"github.com/mcoot/wordlobby/internal/storage/memory"
	"github.com/mcoot/wordlobby/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestIsNotLoadedByDefault() {
	s.False(s.service.IsLoaded())
	s.Equal(0, s.service.WordCount())
	s.False(s.service.IsValidWord("crane"))
}

func (s *ServiceSuite) TestLoadWordsNormalizesAndDedupes() {
	s.service.LoadWords([]string{"Crane", " robot ", "CRANE", ""})

	s.True(s.service.IsLoaded())
	s.Equal(2, s.service.WordCount())
	s.True(s.service.IsValidWord("crane"))
	s.True(s.service.IsValidWord("ROBOT"))
	s.False(s.service.IsValidWord("apple"))
}

func (s *ServiceSuite) TestRandomWordUsesRandomIndex() {
	s.service.LoadWords([]string{"crane", "robot", "apple"})
	s.random.QueueIntn(2, 0)

	word, err := s.service.RandomWord(0)
	s.Require().NoError(err)
	s.Equal("apple", word)

	word, err = s.service.RandomWord(0)
	s.Require().NoError(err)
	s.Equal("crane", word)
}

func (s *ServiceSuite) TestRandomWordFiltersByLength() {
	s.service.LoadWords([]string{"cat", "crane", "dog", "robot"})
	s.random.QueueIntn(1)

	word, err := s.service.RandomWord(5)
	s.Require().NoError(err)
	s.Equal("robot", word)
}

func (s *ServiceSuite) TestRandomWordNoMatchingLength() {
	s.service.LoadWords([]string{"cat"})

	_, err := s.service.RandomWord(5)
	s.ErrorIs(err, model.ErrNoWordOfLength)
}

func (s *ServiceSuite) TestRandomWordWhenNotLoaded() {
	_, err := s.service.RandomWord(5)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *ServiceSuite) TestLoadFromFileSavesToStorage() {
	path := filepath.Join(s.T().TempDir(), "words.txt")
	s.Require().NoError(os.WriteFile(path, []byte("# comment\ncrane\n\nrobot\n"), 0o600))

	s.Require().NoError(s.service.LoadFromFile(s.ctx, path))
	s.Equal(2, s.service.WordCount())

	stored, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"crane", "robot"}, stored)
}

func (s *ServiceSuite) TestLoadFromFileMissing() {
	err := s.service.LoadFromFile(s.ctx, filepath.Join(s.T().TempDir(), "missing.txt"))
	s.Error(err)
	s.False(s.service.IsLoaded())
}

func (s *ServiceSuite) TestLoadFromStorage() {
	s.Require().NoError(s.storage.SaveDictionaryWords(s.ctx, []string{"crane"}))

	s.Require().NoError(s.service.LoadFromStorage(s.ctx))
	s.True(s.service.IsValidWord("crane"))
}

func (s *ServiceSuite) TestLoadFromStorageWhenEmpty() {
	err := s.service.LoadFromStorage(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *ServiceSuite) TestLoadDefaults() {
	s.Require().NoError(s.service.LoadDefaults(s.ctx))

	s.Greater(s.service.WordCount(), 100)
	s.True(s.service.IsValidWord("crane"))
	s.True(s.service.IsValidWord("robot"))

	word, err := s.service.RandomWord(5)
	s.Require().NoError(err)
	s.Len(word, 5)
}
