// Package ingest turns untrusted candidate entries into persisted,
// broadcast log entries or structured rejections.
package ingest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/atikulmunna/agentlog/internal/advisor"
	"github.com/atikulmunna/agentlog/internal/codec"
	apperr "github.com/atikulmunna/agentlog/internal/errors"
	"github.com/atikulmunna/agentlog/internal/model"
)

// Defaults matching the reference dashboard.
const (
	DefaultRecentCapacity = 100
	DefaultRateLimit      = 100
	DefaultRateWindow     = 15 * time.Minute
	DefaultRateMaxKeys    = 10000
	DefaultReadLimit      = 20
)

// Store persists and reads back entries.
type Store interface {
	Append(e model.Entry) error
	Recent(limit int) ([]model.Entry, error)
}

// Publisher receives accepted entries. Publish must not block.
type Publisher interface {
	Publish(ev model.Event)
}

// Candidate is an entry as submitted by a client. Every field is optional
// until validation.
type Candidate struct {
	Timestamp string `json:"timestamp"`
	Agent     string `json:"agent"`
	Type      string `json:"type"`
	Task      string `json:"task"`
	Content   string `json:"content"`
}

// Request is a single Submit call.
type Request struct {
	Candidate
	Force bool `json:"force"`
	// Source identifies the caller for rate admission; empty skips it.
	Source string `json:"-"`
}

// Result is the outcome of an admitted Submit call.
type Result struct {
	Entry     model.Entry         `json:"entry"`
	Hash      string              `json:"hash"`
	Duplicate bool                `json:"duplicate"`
	Existing  *model.RecentRecord `json:"existingEntry,omitempty"`
	Message   string              `json:"message,omitempty"`
}

// Options configures a Service.
type Options struct {
	RecentCapacity int
	RateLimit      int
	RateWindow     time.Duration
	RateMaxKeys    int
	// Location renders timestamps and reads legacy ones. Defaults to Local.
	Location *time.Location
	Now      func() time.Time
}

// Service validates, deduplicates, persists and broadcasts entries.
type Service struct {
	store     Store
	publisher Publisher
	limiter   *Limiter
	loc       *time.Location
	now       func() time.Time

	// mu serializes the duplicate check, the append and the cache push.
	mu     sync.Mutex
	recent *recentCache

	statsMu  sync.Mutex
	accepted int64
	rejected map[string]int64
}

// New creates a Service. publisher may be nil.
func New(store Store, publisher Publisher, opts Options) *Service {
	if opts.RecentCapacity <= 0 {
		opts.RecentCapacity = DefaultRecentCapacity
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = DefaultRateWindow
	}
	if opts.RateMaxKeys <= 0 {
		opts.RateMaxKeys = DefaultRateMaxKeys
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		store:     store,
		publisher: publisher,
		limiter:   NewLimiter(opts.RateLimit, opts.RateWindow, opts.RateMaxKeys, opts.Now),
		loc:       opts.Location,
		now:       opts.Now,
		recent:    newRecentCache(opts.RecentCapacity),
		rejected:  make(map[string]int64),
	}
}

// Submit admits one candidate entry. Duplicates come back as a Result with
// Duplicate set and a nil error; every other rejection is an *errors.AppError.
func (s *Service) Submit(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Source != "" {
		if ok, retry := s.limiter.Allow(req.Source); !ok {
			s.reject("rate_limited")
			return nil, apperr.NewWithDetails(apperr.ERateLimited, "Rate limit exceeded", map[string]string{
				"retryAfterMs": fmt.Sprintf("%d", retry.Milliseconds()),
			})
		}
	}

	entry := s.normalize(req.Candidate)
	if entry.Agent == "" || entry.Content == "" {
		s.reject("invalid")
		return nil, apperr.New(apperr.EInvalidEntry, "Invalid entry")
	}

	hash := IdentityHash(entry.Agent, entry.Content)

	s.mu.Lock()
	if !req.Force {
		if existing, ok := s.recent.find(hash); ok {
			s.mu.Unlock()
			s.reject("duplicate")
			return &Result{
				Entry:     entry,
				Hash:      hash,
				Duplicate: true,
				Existing:  &existing,
				Message: fmt.Sprintf("Duplicate entry detected: %s already logged this content at %s. Submit with force to log it again.",
					existing.Agent, existing.Timestamp),
			}, nil
		}
	}

	if err := s.store.Append(entry); err != nil {
		s.mu.Unlock()
		s.reject("persist_failed")
		return nil, apperr.Wrap(apperr.EPersistFailed, "Failed to save entry", err)
	}
	s.recent.push(model.RecentRecord{Hash: hash, Agent: entry.Agent, Timestamp: entry.Timestamp})
	s.mu.Unlock()

	s.statsMu.Lock()
	s.accepted++
	s.statsMu.Unlock()

	log.Printf("[LOG] new entry from %s (%s)", entry.Agent, hash)
	s.notify(entry, hash)

	return &Result{Entry: entry, Hash: hash}, nil
}

// normalize applies timestamp normalization, sanitization and defaults.
func (s *Service) normalize(c Candidate) model.Entry {
	ts, ok := codec.ParseTimestamp(c.Timestamp, s.loc)
	if !ok {
		ts = s.now()
	}

	e := model.Entry{
		Timestamp: codec.FormatTimestamp(ts.In(s.loc)),
		Agent:     Sanitize(c.Agent, MaxAgentLen),
		Type:      Sanitize(c.Type, MaxTypeLen),
		Task:      Sanitize(c.Task, MaxTaskLen),
		Content:   Sanitize(c.Content, MaxContentLen),
	}
	if e.Type == "" {
		e.Type = advisor.AutoTag(e.Content)
	}
	return e
}

// notify is fire-and-forget; a failing subscriber never fails Submit.
func (s *Service) notify(e model.Entry, hash string) {
	if s.publisher == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ingest: notify failed: %v", r)
		}
	}()
	s.publisher.Publish(model.Event{
		Name: model.EventLogUpdated,
		Data: model.LogUpdated{NewEntry: e, Hash: hash},
		At:   s.now(),
	})
}

// Recent returns up to limit entries from the log, most recent first.
// A non-positive limit uses DefaultReadLimit.
func (s *Service) Recent(limit int) ([]model.Entry, error) {
	if limit <= 0 {
		limit = DefaultReadLimit
	}
	entries, err := s.store.Recent(limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.EReadFailed, "Failed to read log", err)
	}
	return entries, nil
}

// RecentRecords returns the duplicate-detection window, newest first.
func (s *Service) RecentRecords() []model.RecentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recent.snapshot()
}

// Stats is a snapshot of ingestion counters.
type Stats struct {
	Accepted       int64            `json:"accepted"`
	Rejected       map[string]int64 `json:"rejected"`
	RecentCached   int              `json:"recent_cached"`
	TrackedSources int              `json:"tracked_sources"`
}

// Stats returns the current counters.
func (s *Service) Stats() Stats {
	s.statsMu.Lock()
	rejected := make(map[string]int64, len(s.rejected))
	for k, v := range s.rejected {
		rejected[k] = v
	}
	accepted := s.accepted
	s.statsMu.Unlock()

	s.mu.Lock()
	cached := len(s.recent.records)
	s.mu.Unlock()

	return Stats{
		Accepted:       accepted,
		Rejected:       rejected,
		RecentCached:   cached,
		TrackedSources: s.limiter.Sources(),
	}
}

func (s *Service) reject(reason string) {
	s.statsMu.Lock()
	s.rejected[reason]++
	s.statsMu.Unlock()
}
