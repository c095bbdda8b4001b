package trips

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"slices"
	"sync"
	"time"

	"trip-planner/internal/storage"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "trips"

const corruptSuffix = ".corrupt"

// CorruptKey is where New copies an undecodable value stored under key.
func CorruptKey(key string) string { return key + corruptSuffix }

// KeyValue is the persistence medium. A missing key reports ok=false.
type KeyValue interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store owns the trip collection and writes the whole collection through to
// the key-value store after every mutation.
type Store struct {
	mu       sync.Mutex
	kv       KeyValue
	key      string
	now      func() time.Time
	recorder storage.Recorder
	trips    []Trip
	lastID   int64
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRecorder appends an audit event for every completed mutation.
func WithRecorder(r storage.Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// New builds a Store and loads the persisted collection.
//
// When the stored value exists but cannot be decoded the returned Store is
// usable and empty, the raw value is copied to "<key>.corrupt" (suffixed
// with the current Unix millisecond if that key is taken), and the
// error is a *StorageError wrapping ErrCorruptData. Any other error means
// the store could not be read and the returned Store is nil.
func New(ctx context.Context, kv KeyValue, opts ...Option) (*Store, error) {
	s := &Store{kv: kv, key: DefaultKey, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(ctx); err != nil {
		if errors.Is(err, ErrCorruptData) {
			return s, err
		}
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return &StorageError{Op: "load", Key: s.key, Err: err}
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	trips, err := decodeCollection(raw)
	if err != nil {
		backup := s.backupKey(ctx)
		if berr := s.kv.Set(ctx, backup, raw); berr != nil {
			log.Printf("⚠️ failed to back up corrupt trip data under %q: %v", backup, berr)
		} else {
			log.Printf("📦 corrupt trip data copied to %q", backup)
		}
		return &StorageError{Op: "load", Key: s.key, Err: fmt.Errorf("%w: %v", ErrCorruptData, err)}
	}
	for _, t := range trips {
		s.lastID = max(s.lastID, t.ID)
	}
	seen := make(map[int64]bool, len(trips))
	for _, t := range trips {
		if seen[t.ID] {
			s.lastID++
			log.Printf("⚠️ trip %q shares id %d in %q, reassigned to %d", t.Destination, t.ID, s.key, s.lastID)
			t.ID = s.lastID
		}
		seen[t.ID] = true
		s.trips = append(s.trips, t)
	}
	return nil
}

// backupKey returns CorruptKey, or CorruptKey plus a millisecond suffix when
// an earlier backup already occupies it.
func (s *Store) backupKey(ctx context.Context) string {
	key := CorruptKey(s.key)
	if _, exists, err := s.kv.Get(ctx, key); err == nil && !exists {
		return key
	}
	return fmt.Sprintf("%s.%d", key, s.now().UnixMilli())
}

// Create validates the candidate, assigns an id and creation time, and
// persists the collection. On any error nothing is changed.
func (s *Store) Create(ctx context.Context, c Candidate) (Trip, error) {
	trip, err := c.validate()
	if err != nil {
		return Trip{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	trip.ID = s.nextID(now)
	trip.CreatedAt = now.UTC()

	next := append(slices.Clone(s.trips), trip)
	if err := s.persist(ctx, next); err != nil {
		return Trip{}, err
	}
	s.trips = next
	s.lastID = trip.ID
	s.record(storage.ActionCreate, trip)
	return trip, nil
}

// nextID is the current Unix millisecond, bumped past the last issued id so
// ids stay unique and increasing when two trips land in the same millisecond
// or the clock steps back.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}

// Delete removes the trip with the given id. An unknown id is a no-op.
// Callers are expected to have obtained user confirmation beforehand.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.trips, func(t Trip) bool { return t.ID == id })
	if i < 0 {
		return nil
	}
	removed := s.trips[i]
	next := slices.Delete(slices.Clone(s.trips), i, i+1)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.trips = next
	s.record(storage.ActionDelete, removed)
	return nil
}

// Get looks a trip up by id.
func (s *Store) Get(id int64) (Trip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.trips {
		if t.ID == id {
			return t, true
		}
	}
	return Trip{}, false
}

// List yields all trips ordered by start date. Trips sharing a start date
// keep their insertion order. Each iteration works on a fresh snapshot.
func (s *Store) List() iter.Seq[Trip] {
	return func(yield func(Trip) bool) {
		for _, t := range s.Sorted() {
			if !yield(t) {
				return
			}
		}
	}
}

// Sorted returns a snapshot of the collection in List order.
func (s *Store) Sorted() []Trip {
	s.mu.Lock()
	snapshot := slices.Clone(s.trips)
	s.mu.Unlock()
	slices.SortStableFunc(snapshot, func(a, b Trip) int {
		return a.StartDate.Compare(b.StartDate)
	})
	return snapshot
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trips)
}

// Countdown classifies a trip's start date against the store's clock.
func (s *Store) Countdown(t Trip) Countdown {
	return s.DaysUntil(t.StartDate)
}

// DaysUntil classifies an arbitrary date against the store's clock.
func (s *Store) DaysUntil(d Date) Countdown {
	return DaysUntil(s.now(), d)
}

func (s *Store) persist(ctx context.Context, trips []Trip) error {
	data, err := encodeCollection(trips)
	if err != nil {
		return &StorageError{Op: "encode", Key: s.key, Err: err}
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return &StorageError{Op: "save", Key: s.key, Err: err}
	}
	return nil
}

func (s *Store) record(action storage.Action, t Trip) {
	if s.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:   s.now().UTC(),
		Action:      action,
		TripID:      t.ID,
		Destination: t.Destination,
	}
	if err := s.recorder.AppendEvent(ev); err != nil {
		log.Printf("⚠️ failed to record %s of trip %d: %v", action, t.ID, err)
	}
}
