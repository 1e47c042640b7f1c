package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"diary-bot/internal/domain/entity"
)

var errStoreDown = errors.New("store down")

type fakeEntryRepo struct {
	mu      sync.Mutex
	entries []entity.DiaryEntry
	norms   map[int64]entity.NutritionRecommendations
	failAdd bool
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{norms: make(map[int64]entity.NutritionRecommendations)}
}

func (r *fakeEntryRepo) AddEntry(ctx context.Context, entry *entity.DiaryEntry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAdd {
		return 0, errStoreDown
	}
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return entry.ID, nil
}

func (r *fakeEntryRepo) GetEntries(ctx context.Context, userID int64, date string) ([]entity.DiaryEntry, error) {
	return r.GetEntriesForPeriod(ctx, userID, date, date)
}

func (r *fakeEntryRepo) GetEntriesForPeriod(ctx context.Context, userID int64, start, end string) ([]entity.DiaryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.DiaryEntry
	for _, e := range r.entries {
		if e.UserID == userID && e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *fakeEntryRepo) GetNorms(ctx context.Context, userID int64) (entity.NutritionRecommendations, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.norms[userID]
	if !ok {
		return entity.DefaultRecommendations(), false, nil
	}
	return n, true, nil
}

func (r *fakeEntryRepo) SaveNorms(ctx context.Context, userID int64, norms entity.NutritionRecommendations) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.norms[userID] = norms
	return nil
}

type fakePhotoStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{data: make(map[string][]byte)}
}

func (s *fakePhotoStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = data
	return nil
}

func (s *fakePhotoStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("photo %s not found", key)
	}
	return data, nil
}

type passThroughProcessor struct{}

func (passThroughProcessor) Normalize(ctx context.Context, data []byte) ([]byte, error) {
	return data, nil
}

type fakeRenderer struct {
	doc  *entity.ReportDocument
	path string
	err  error
}

func (r *fakeRenderer) Render(ctx context.Context, doc *entity.ReportDocument, path string) error {
	r.doc = doc
	r.path = path
	return r.err
}

type fakeScheduler struct {
	jobs        map[int64][]string
	run         map[int64]func()
	unscheduled []int64
	err         error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: make(map[int64][]string), run: make(map[int64]func())}
}

func (s *fakeScheduler) ScheduleDaily(chatID int64, times []string, job func()) error {
	if s.err != nil {
		return s.err
	}
	s.jobs[chatID] = append(s.jobs[chatID], times...)
	s.run[chatID] = job
	return nil
}

func (s *fakeScheduler) Unschedule(chatID int64) {
	s.unscheduled = append(s.unscheduled, chatID)
	delete(s.jobs, chatID)
	delete(s.run, chatID)
}

type fakeNotifier struct {
	sent []string
}

func (n *fakeNotifier) SendText(chatID int64, text string) error {
	n.sent = append(n.sent, text)
	return nil
}
