// services/content_service.go
package services

import (
	"math/rand"
	"sync"

	"github.com/socialoop/partyhost/logger"
	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/persistence"
)

// ContentService 装载并缓存全部玩法内容。抽取方法只读，可被所有
// 房间 goroutine 并发调用；随机性全部来自调用方注入的 rng，同一
// 种子抽出的序列可复现。
type ContentService struct {
	sources []persistence.Source
	mutex   sync.RWMutex
	pack    *models.ContentPack
}

// NewContentService 依次装载各内容源并叠加。任一内容源失败即失败。
func NewContentService(sources ...persistence.Source) (*ContentService, error) {
	s := &ContentService{sources: sources}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload 重新拉取全部内容源，替换缓存的内容包
func (s *ContentService) Reload() error {
	merged := &models.ContentPack{}
	for _, src := range s.sources {
		pack, err := src.LoadPack()
		if err != nil {
			return err
		}
		merged.Merge(pack)
	}

	s.mutex.Lock()
	s.pack = merged
	s.mutex.Unlock()

	logger.Log.Infow("Content loaded", "sizes", s.Counts())
	return nil
}

// Counts 返回每类内容的条数
func (s *ContentService) Counts() map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return map[string]int{
		"questions": len(s.pack.Questions),
		"estimates": len(s.pack.Estimates),
		"spectrums": len(s.pack.Spectrums),
		"dilemmas":  len(s.pack.Dilemmas),
		"wordPairs": len(s.pack.WordPairs),
		"ciphers":   len(s.pack.Ciphers),
		"drawWords": len(s.pack.DrawWords),
		"puzzles":   len(s.pack.Puzzles),
		"surveys":   len(s.pack.Surveys),
		"boards":    len(s.pack.Boards),
	}
}

func (s *ContentService) QuestionSet(rng *rand.Rand, n int) ([]models.Question, error) {
	s.mutex.RLock()
	items := s.pack.Questions
	s.mutex.RUnlock()
	return drawSet(rng, items, n)
}

func (s *ContentService) EstimateSet(rng *rand.Rand, n int) ([]models.Estimate, error) {
	s.mutex.RLock()
	items := s.pack.Estimates
	s.mutex.RUnlock()
	return drawSet(rng, items, n)
}

func (s *ContentService) SpectrumSet(rng *rand.Rand, n int) ([]models.Spectrum, error) {
	s.mutex.RLock()
	items := s.pack.Spectrums
	s.mutex.RUnlock()
	return drawSet(rng, items, n)
}

func (s *ContentService) DilemmaSet(rng *rand.Rand, n int) ([]models.Dilemma, error) {
	s.mutex.RLock()
	items := s.pack.Dilemmas
	s.mutex.RUnlock()
	return drawSet(rng, items, n)
}

func (s *ContentService) WordPairSet(rng *rand.Rand, n int) ([]models.WordPair, error) {
	s.mutex.RLock()
	items := s.pack.WordPairs
	s.mutex.RUnlock()
	return drawSet(rng, items, n)
}

func (s *ContentService) CipherSet(rng *rand.Rand, n int) ([]models.Cipher, error) {
	s.mutex.RLock()
	items := s.pack.Ciphers
	s.mutex.RUnlock()
	return drawSet(rng, items, n)
}

func (s *ContentService) DrawWordSet(rng *rand.Rand, n int) ([]string, error) {
	s.mutex.RLock()
	items := s.pack.DrawWords
	s.mutex.RUnlock()
	return drawSet(rng, items, n)
}

func (s *ContentService) PuzzleSet(rng *rand.Rand, n int) ([]models.Puzzle, error) {
	s.mutex.RLock()
	items := s.pack.Puzzles
	s.mutex.RUnlock()
	return drawSet(rng, items, n)
}

func (s *ContentService) SurveySet(rng *rand.Rand, n int) ([]models.Survey, error) {
	s.mutex.RLock()
	items := s.pack.Surveys
	s.mutex.RUnlock()
	return drawSet(rng, items, n)
}

func (s *ContentService) BoardSet(rng *rand.Rand, n int) ([]models.BoardCategory, error) {
	s.mutex.RLock()
	items := s.pack.Boards
	s.mutex.RUnlock()
	return drawSet(rng, items, n)
}

// drawSet 洗牌后取前 n 条，池子小于 n 时循环复用
func drawSet[T any](rng *rand.Rand, items []T, n int) ([]T, error) {
	if len(items) == 0 {
		return nil, persistence.ErrNoContent
	}
	perm := rng.Perm(len(items))
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[perm[i%len(perm)]])
	}
	return out, nil
}
