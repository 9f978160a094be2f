package services

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/socialoop/partyhost/models"
	"github.com/socialoop/partyhost/persistence"
)

type stubSource struct {
	pack models.ContentPack
}

func (s *stubSource) LoadPack() (*models.ContentPack, error) {
	p := &models.ContentPack{}
	p.Merge(&s.pack)
	return p, nil
}

func (s *stubSource) Close() error { return nil }

func TestContentService_DeterministicDraws(t *testing.T) {
	svc, err := NewContentService(persistence.NewSeedSource())
	if err != nil {
		t.Fatalf("NewContentService failed: %v", err)
	}

	first, err := svc.QuestionSet(rand.New(rand.NewSource(7)), 5)
	if err != nil {
		t.Fatalf("QuestionSet failed: %v", err)
	}
	second, err := svc.QuestionSet(rand.New(rand.NewSource(7)), 5)
	if err != nil {
		t.Fatalf("QuestionSet failed: %v", err)
	}

	for i := range first {
		if first[i].Text != second[i].Text {
			t.Errorf("Draw %d differs across identical seeds: %q vs %q", i, first[i].Text, second[i].Text)
		}
	}
}

func TestContentService_DrawsAreDistinctWithinThePool(t *testing.T) {
	svc, err := NewContentService(persistence.NewSeedSource())
	if err != nil {
		t.Fatalf("NewContentService failed: %v", err)
	}

	puzzles, err := svc.PuzzleSet(rand.New(rand.NewSource(3)), 8)
	if err != nil {
		t.Fatalf("PuzzleSet failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, p := range puzzles {
		if seen[p.Answer] {
			t.Errorf("Puzzle %q drawn twice within pool size", p.Answer)
		}
		seen[p.Answer] = true
	}
}

func TestContentService_SetCyclesWhenPoolIsShort(t *testing.T) {
	src := &stubSource{pack: models.ContentPack{
		Dilemmas: []models.Dilemma{{OptionA: "a", OptionB: "b"}, {OptionA: "c", OptionB: "d"}},
	}}
	svc, err := NewContentService(src)
	if err != nil {
		t.Fatalf("NewContentService failed: %v", err)
	}

	set, err := svc.DilemmaSet(rand.New(rand.NewSource(1)), 5)
	if err != nil {
		t.Fatalf("DilemmaSet failed: %v", err)
	}
	if len(set) != 5 {
		t.Errorf("Expected 5 entries with cycling, got %d", len(set))
	}
}

func TestContentService_EmptyPool(t *testing.T) {
	svc, err := NewContentService(&stubSource{})
	if err != nil {
		t.Fatalf("NewContentService failed: %v", err)
	}

	_, err = svc.SurveySet(rand.New(rand.NewSource(1)), 1)
	if !errors.Is(err, persistence.ErrNoContent) {
		t.Errorf("Expected ErrNoContent, got %v", err)
	}
}

func TestContentService_MergesSources(t *testing.T) {
	a := &stubSource{pack: models.ContentPack{DrawWords: []string{"cat", "dog"}}}
	b := &stubSource{pack: models.ContentPack{DrawWords: []string{"owl"}}}

	svc, err := NewContentService(a, b)
	if err != nil {
		t.Fatalf("NewContentService failed: %v", err)
	}
	if got := svc.Counts()["drawWords"]; got != 3 {
		t.Errorf("Expected 3 merged draw words, got %d", got)
	}
}
