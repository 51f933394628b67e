// Package catalogtest provides an in-memory catalog.Store for tests.
package catalogtest

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/lingo/internal/catalog"
)

// Store is a goroutine-safe in-memory catalog.Store and catalog.Snapshotter.
type Store struct {
	now func() time.Time

	// Fail, when set, is returned by every read and write.
	Fail error

	// ProjectCalls counts Project invocations.
	ProjectCalls atomic.Int64

	// SnapshotCalls counts Snapshot invocations.
	SnapshotCalls atomic.Int64

	state state
	mu    sync.Mutex
}

type state struct {
	translations map[int64]catalog.Translation
	tags         map[int64]catalog.Tag
	links        map[int64]map[int64]struct{} // translation -> tags
	nextID       int64
	nextTagID    int64
}

var (
	_ catalog.Store       = (*Store)(nil)
	_ catalog.Snapshotter = (*Store)(nil)
)

// New returns an empty store with the given tag names pre-seeded.
func New(tags ...string) *Store {
	s := &Store{
		now: time.Now,
		state: state{
			translations: map[int64]catalog.Translation{},
			tags:         map[int64]catalog.Tag{},
			links:        map[int64]map[int64]struct{}{},
		},
	}
	for _, name := range tags {
		s.AddTag(name)
	}
	return s
}

// SetClock overrides the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddTag inserts a tag and returns it.
func (s *Store) AddTag(name string) catalog.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextTagID++
	t := catalog.Tag{ID: s.state.nextTagID, Name: name}
	s.state.tags[t.ID] = t
	return t
}

// RemoveTag deletes a tag and its associations.
func (s *Store) RemoveTag(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.state.tags {
		if t.Name == name {
			delete(s.state.tags, id)
			for _, set := range s.state.links {
				delete(set, id)
			}
		}
	}
}

// Seed inserts a translation with explicit timestamps and tag names.
func (s *Store) Seed(locale, key, content string, updatedAt time.Time, tags ...string) catalog.Translation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextID++
	t := catalog.Translation{
		ID: s.state.nextID, Locale: locale, Key: key, Content: content,
		CreatedAt: updatedAt, UpdatedAt: updatedAt,
	}
	s.state.translations[t.ID] = t
	set := map[int64]struct{}{}
	for _, name := range tags {
		for id, tag := range s.state.tags {
			if tag.Name == name {
				set[id] = struct{}{}
			}
		}
	}
	s.state.links[t.ID] = set
	return t
}

// TagNames returns the sorted tag names linked to a translation.
func (s *Store) TagNames(translationID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for id := range s.state.links[translationID] {
		names = append(names, s.state.tags[id].Name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of translations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.translations)
}

func (s *Store) LastModified(_ context.Context, f catalog.ExportFilter) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return time.Time{}, false, s.Fail
	}
	var last time.Time
	found := false
	for _, t := range s.exportView(f) {
		if !found || t.UpdatedAt.After(last) {
			last, found = t.UpdatedAt, true
		}
	}
	return last, found, nil
}

func (s *Store) Project(_ context.Context, f catalog.ExportFilter) (map[string]string, error) {
	s.ProjectCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	out := map[string]string{}
	for _, t := range s.exportView(f) {
		out[t.Key] = t.Content
	}
	return out, nil
}

func (s *Store) Snapshot(ctx context.Context, fn func(catalog.ExportReader) error) error {
	s.SnapshotCalls.Add(1)
	return fn(s)
}

func (s *Store) List(_ context.Context, f catalog.ListFilter, limit, offset int) ([]catalog.Translation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, 0, s.Fail
	}
	var rows []catalog.Translation
	for _, t := range s.ordered() {
		if f.Locale != "" && t.Locale != f.Locale {
			continue
		}
		if f.Key != "" && !strings.Contains(t.Key, f.Key) {
			continue
		}
		if f.Content != "" && !strings.Contains(t.Content, f.Content) {
			continue
		}
		if f.Tag != "" && !s.hasAnyTag(t.ID, []string{f.Tag}) {
			continue
		}
		rows = append(rows, t)
	}
	total := int64(len(rows))
	if offset >= len(rows) {
		return []catalog.Translation{}, total, nil
	}
	return rows[offset:min(offset+limit, len(rows))], total, nil
}

func (s *Store) Get(_ context.Context, id int64) (catalog.Translation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return catalog.Translation{}, s.Fail
	}
	t, ok := s.state.translations[id]
	if !ok {
		return catalog.Translation{}, catalog.ErrNotFound
	}
	t.Tags = []catalog.Tag{}
	for tagID := range s.state.links[id] {
		t.Tags = append(t.Tags, s.state.tags[tagID])
	}
	slices.SortFunc(t.Tags, func(a, b catalog.Tag) int { return int(a.ID - b.ID) })
	return t, nil
}

func (s *Store) Create(_ context.Context, t catalog.Translation) (catalog.Translation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return catalog.Translation{}, s.Fail
	}
	s.state.nextID++
	now := s.now()
	t.ID, t.CreatedAt, t.UpdatedAt, t.Tags = s.state.nextID, now, now, nil
	s.state.translations[t.ID] = t
	s.state.links[t.ID] = map[int64]struct{}{}
	return t, nil
}

func (s *Store) Update(_ context.Context, id int64, in catalog.UpdateFields) (catalog.Translation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return catalog.Translation{}, s.Fail
	}
	t, ok := s.state.translations[id]
	if !ok {
		return catalog.Translation{}, catalog.ErrNotFound
	}
	changed := false
	apply := func(dst *string, v *string) {
		if v != nil && *dst != *v {
			*dst, changed = *v, true
		}
	}
	apply(&t.Locale, in.Locale)
	apply(&t.Key, in.Key)
	apply(&t.Content, in.Content)
	if changed {
		t.UpdatedAt = s.now()
	}
	s.state.translations[id] = t
	return t, nil
}

func (s *Store) TagsByName(_ context.Context, names []string) ([]catalog.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	var out []catalog.Tag
	for _, t := range s.sortedTags() {
		if slices.Contains(names, t.Name) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) ListTags(context.Context) ([]catalog.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return nil, s.Fail
	}
	tags := s.sortedTags()
	slices.SortFunc(tags, func(a, b catalog.Tag) int { return strings.Compare(a.Name, b.Name) })
	return tags, nil
}

func (s *Store) SyncTags(_ context.Context, translationID int64, tagIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	t, ok := s.state.translations[translationID]
	if !ok {
		return catalog.ErrNotFound
	}
	desired := map[int64]struct{}{}
	for _, id := range tagIDs {
		desired[id] = struct{}{}
	}
	if !maps.Equal(desired, s.state.links[translationID]) {
		s.state.links[translationID] = desired
		t.UpdatedAt = s.now()
		s.state.translations[translationID] = t
	}
	return nil
}

// InTx snapshots the state and restores it if fn fails.
func (s *Store) InTx(_ context.Context, fn func(catalog.Store) error) error {
	s.mu.Lock()
	saved := s.state.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.state = saved
		s.mu.Unlock()
		return err
	}
	return nil
}

func (st state) clone() state {
	out := state{
		translations: maps.Clone(st.translations),
		tags:         maps.Clone(st.tags),
		links:        make(map[int64]map[int64]struct{}, len(st.links)),
		nextID:       st.nextID,
		nextTagID:    st.nextTagID,
	}
	for id, set := range st.links {
		out.links[id] = maps.Clone(set)
	}
	return out
}

func (s *Store) ordered() []catalog.Translation {
	ids := slices.Sorted(maps.Keys(s.state.translations))
	out := make([]catalog.Translation, len(ids))
	for i, id := range ids {
		out[i] = s.state.translations[id]
	}
	return out
}

func (s *Store) sortedTags() []catalog.Tag {
	ids := slices.Sorted(maps.Keys(s.state.tags))
	out := make([]catalog.Tag, len(ids))
	for i, id := range ids {
		out[i] = s.state.tags[id]
	}
	return out
}

func (s *Store) exportView(f catalog.ExportFilter) []catalog.Translation {
	var out []catalog.Translation
	for _, t := range s.ordered() {
		if t.Locale != f.Locale {
			continue
		}
		if f.Tags != nil && !s.hasAnyTag(t.ID, f.Tags) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *Store) hasAnyTag(translationID int64, names []string) bool {
	for id := range s.state.links[translationID] {
		if slices.Contains(names, s.state.tags[id].Name) {
			return true
		}
	}
	return false
}
