package company

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/events"
	"github.com/sells-group/company-resolver/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type memStore struct {
	mu        sync.Mutex
	companies map[string]*model.CanonicalCompany
	matched   map[int64]bool
	reviews   map[int64]*model.ReviewItem
	a         map[int64]*model.SourceRecordA
	b         map[int64]*model.SourceRecordB
	nextID    int64
	upsertErr error
}

func newMemStore() *memStore {
	return &memStore{
		companies: map[string]*model.CanonicalCompany{},
		matched:   map[int64]bool{},
		reviews:   map[int64]*model.ReviewItem{},
		a:         map[int64]*model.SourceRecordA{},
		b:         map[int64]*model.SourceRecordB{},
	}
}

func (s *memStore) UpsertCompany(_ context.Context, c *model.CanonicalCompany) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	if existing, ok := s.companies[c.Key]; ok {
		c.ID = existing.ID
	} else {
		s.nextID++
		c.ID = s.nextID
	}
	cp := *c
	s.companies[c.Key] = &cp
	return nil
}

func (s *memStore) MarkBMatched(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matched[id] = true
	return nil
}

func (s *memStore) UpsertReviewItem(_ context.Context, item *model.ReviewItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reviews {
		if r.SourceAID == item.SourceAID && r.SourceBID == item.SourceBID {
			r.Confidence, r.Signals, r.Evidence = item.Confidence, item.Signals, item.Evidence
			item.ID, item.Status = r.ID, r.Status
			return nil
		}
	}
	s.nextID++
	item.ID = s.nextID
	cp := *item
	s.reviews[item.ID] = &cp
	return nil
}

func (s *memStore) GetReviewItem(_ context.Context, id int64) (*model.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) SetReviewStatus(_ context.Context, id int64, status model.ReviewStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return errors.New("not found")
	}
	r.Status = status
	return nil
}

func (s *memStore) GetSourceA(_ context.Context, id int64) (*model.SourceRecordA, error) {
	return s.a[id], nil
}

func (s *memStore) GetSourceB(_ context.Context, id int64) (*model.SourceRecordB, error) {
	return s.b[id], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
