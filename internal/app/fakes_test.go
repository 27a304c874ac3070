package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"imageuploader-api/internal/model"
	"imageuploader-api/internal/repository"
)

type memUserStore struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*model.User
	err    error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: make(map[uint]*model.User)}
}

func (s *memUserStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, u := range s.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	s.byID[user.ID] = &stored
	return nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memUserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

type memImageStore struct {
	mu        sync.Mutex
	images    []model.Image
	clock     time.Time
	createErr error
	listErr   error
	listCalls int
	// afterList runs once, after the next list snapshot is taken
	afterList func()
}

func newMemImageStore() *memImageStore {
	return &memImageStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *memImageStore) Create(ctx context.Context, image *model.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.clock = s.clock.Add(time.Second)
	image.ID = uint(len(s.images) + 1)
	image.CreatedAt = s.clock
	s.images = append(s.images, *image)
	return nil
}

func (s *memImageStore) ListByUserID(ctx context.Context, userID uint) ([]model.ImageView, error) {
	out, err := s.snapshot(userID)
	if err == nil && s.afterList != nil {
		hook := s.afterList
		s.afterList = nil
		hook()
	}
	return out, err
}

func (s *memImageStore) snapshot(userID uint) ([]model.ImageView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.ImageView, 0)
	for _, img := range s.images {
		if img.UserID == userID {
			out = append(out, img.View())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type fakeUploader struct {
	calls int
	url   string
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, content []byte, mimetype string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type cachedList struct {
	version int64
	images  []model.ImageView
}

type memListCache struct {
	data        map[uint]cachedList
	versions    map[uint]int64
	invalidated []uint
	err         error
}

func newMemListCache() *memListCache {
	return &memListCache{
		data:     make(map[uint]cachedList),
		versions: make(map[uint]int64),
	}
}

func (c *memListCache) Get(ctx context.Context, userID uint) ([]model.ImageView, int64, bool, error) {
	if c.err != nil {
		return nil, 0, false, c.err
	}
	version := c.versions[userID]
	entry, ok := c.data[userID]
	if !ok || entry.version != version {
		return nil, version, false, nil
	}
	return entry.images, version, true, nil
}

func (c *memListCache) Set(ctx context.Context, userID uint, version int64, images []model.ImageView) error {
	if c.err != nil {
		return c.err
	}
	c.data[userID] = cachedList{version: version, images: images}
	return nil
}

func (c *memListCache) Invalidate(ctx context.Context, userID uint) error {
	c.invalidated = append(c.invalidated, userID)
	if c.err != nil {
		return c.err
	}
	c.versions[userID]++
	return nil
}

// fresh reports whether a list for userID would be served from the cache.
func (c *memListCache) fresh(userID uint) bool {
	entry, ok := c.data[userID]
	return ok && entry.version == c.versions[userID]
}

type recordingPublisher struct {
	events []model.UploadEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event model.UploadEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

var errBoom = errors.New("boom")
