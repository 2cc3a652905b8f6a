package app

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"wrong-answers-service/internal/domain"
)

// QuestionLoader fetches the question catalog from a backing store
// (static set, Postgres, etc).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionPool caches the catalog with a TTL and owns the daily
// rotation policy: a question whose Date is today is not handed out
// again until tomorrow. Last-used dates survive catalog refreshes.
type QuestionPool struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu        sync.Mutex
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionPool(loader QuestionLoader, ttl time.Duration) *QuestionPool {
	return &QuestionPool{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewQuestionPoolWithClock is test-only for deterministic dates and picks.
func NewQuestionPoolWithClock(loader QuestionLoader, ttl time.Duration, clock func() time.Time, rnd *rand.Rand) *QuestionPool {
	return &QuestionPool{loader: loader, ttl: ttl, clock: clock, rnd: rnd}
}

// Select picks a uniformly random question not yet used today and marks
// it used. When every question has already been used today the pool
// falls back to reusing the whole catalog rather than failing the
// request path; an empty catalog is a configuration fault and returns
// ErrNoQuestionsAvailable.
func (p *QuestionPool) Select(ctx context.Context, today string) (domain.Question, error) {
	if err := p.ensureLoaded(ctx); err != nil {
		return domain.Question{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.questions) == 0 {
		return domain.Question{}, domain.ErrNoQuestionsAvailable
	}

	candidates := make([]int, 0, len(p.questions))
	for i := range p.questions {
		if p.questions[i].Date == "" || p.questions[i].Date < today {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		log.Printf("question pool exhausted for %s; allowing reuse of all %d questions", today, len(p.questions))
		for i := range p.questions {
			candidates = append(candidates, i)
		}
	}

	p.rndMu.Lock()
	idx := candidates[p.rnd.Intn(len(candidates))]
	p.rndMu.Unlock()

	p.questions[idx].Date = today
	return p.questions[idx], nil
}

func (p *QuestionPool) ensureLoaded(ctx context.Context) error {
	now := p.clock()

	p.mu.Lock()
	fresh := p.questions != nil && (p.ttl <= 0 || p.expiresAt.After(now))
	p.mu.Unlock()
	if fresh {
		return nil
	}

	_, err, _ := p.sf.Do("catalog", func() (interface{}, error) {
		now := p.clock()
		p.mu.Lock()
		if p.questions != nil && (p.ttl <= 0 || p.expiresAt.After(now)) {
			p.mu.Unlock()
			return nil, nil
		}
		p.mu.Unlock()

		loaded, err := p.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		// Carry last-used dates over so a refresh cannot hand out a
		// question twice in one day.
		used := make(map[string]string, len(p.questions))
		for _, q := range p.questions {
			if q.Date != "" {
				used[q.ID] = q.Date
			}
		}
		for i := range loaded {
			if prev, ok := used[loaded[i].ID]; ok && loaded[i].Date < prev {
				loaded[i].Date = prev
			}
		}
		p.questions = loaded
		p.expiresAt = now.Add(p.ttlWithJitter())
		p.mu.Unlock()
		return nil, nil
	})
	return err
}

func (p *QuestionPool) ttlWithJitter() time.Duration {
	// A non-positive TTL means the catalog is loaded once and kept.
	if p.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread refreshes
	jitterMax := int64(p.ttl) / 10
	p.rndMu.Lock()
	defer p.rndMu.Unlock()
	return p.ttl + time.Duration(p.rnd.Int63n(jitterMax+1))
}
