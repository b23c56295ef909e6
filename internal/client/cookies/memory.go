package cookies

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/learnly/internal/client/models"
)

// MemoryJar keeps cookies for the lifetime of the process only. It backs
// sessions started without a data directory.
type MemoryJar struct {
	mu      sync.Mutex
	cookies map[string]models.Cookie
	now     func() time.Time
}

func NewMemoryJar() *MemoryJar {
	return &MemoryJar{cookies: map[string]models.Cookie{}, now: time.Now}
}

// SetClock replaces the jar's time source.
func (j *MemoryJar) SetClock(now func() time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.now = now
}

func (j *MemoryJar) Get(_ context.Context, name string) (*models.Cookie, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	c, ok := j.cookies[name]
	if !ok {
		return nil, nil
	}
	if c.Expired(j.now()) {
		delete(j.cookies, name)
		return nil, nil
	}
	return &c, nil
}

func (j *MemoryJar) Set(ctx context.Context, cookies ...models.Cookie) error {
	return j.Apply(ctx, cookies, nil)
}

func (j *MemoryJar) Remove(ctx context.Context, names ...string) error {
	return j.Apply(ctx, nil, names)
}

func (j *MemoryJar) Apply(_ context.Context, set []models.Cookie, remove []string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, name := range remove {
		delete(j.cookies, name)
	}
	for _, c := range set {
		j.cookies[c.Name] = c
	}
	return nil
}

func (j *MemoryJar) All(_ context.Context) ([]models.Cookie, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	var result []models.Cookie
	for _, c := range j.cookies {
		if !c.Expired(now) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a].Name < result[b].Name })
	return result, nil
}
