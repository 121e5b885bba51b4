// Package surface tracks the rendering surface each project currently shows.
// A project has at most one installed document; installing a newer one
// releases the previous handle.
package surface

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tota/internal/gateway/repository/document"
	"tota/internal/metrics"
)

// ErrSuperseded is returned when a newer document was installed before this
// one finished.
var ErrSuperseded = errors.New("surface superseded")

// Installed describes the document a project surface currently shows.
type Installed struct {
	ProjectID   string    `json:"projectId"`
	Handle      string    `json:"handle"`
	Sequence    uint64    `json:"sequence"`
	URL         string    `json:"url"`
	DirectURL   string    `json:"directUrl,omitempty"`
	Size        int       `json:"size"`
	InstalledAt time.Time `json:"installedAt"`
}

type project struct {
	issued  uint64
	current *Installed
	subs    map[int]chan Installed
}

type Registry struct {
	store   document.Store
	baseURL string
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	projects map[string]*project
	nextSub  int
}

func NewRegistry(store document.Store, baseURL string, logger *zap.Logger) *Registry {
	if store == nil {
		store = document.NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		store:    store,
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		logger:   logger,
		now:      time.Now,
		projects: make(map[string]*project),
	}
}

func (r *Registry) projectLocked(id string) *project {
	p, ok := r.projects[id]
	if !ok {
		p = &project{subs: make(map[int]chan Installed)}
		r.projects[id] = p
	}
	return p
}

// Begin reserves the next sequence number for projectID. Call it before
// starting a render so that a slower, older render cannot win.
func (r *Registry) Begin(projectID string) uint64 {
	projectID = strings.TrimSpace(projectID)
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.projectLocked(projectID)
	p.issued++
	return p.issued
}

// Install reserves a sequence and installs doc under it.
func (r *Registry) Install(ctx context.Context, projectID string, doc []byte) (Installed, error) {
	return r.InstallAt(ctx, projectID, r.Begin(projectID), doc)
}

// InstallAt stores doc and makes it the project's current surface unless a
// document with a higher sequence is already installed.
func (r *Registry) InstallAt(ctx context.Context, projectID string, seq uint64, doc []byte) (Installed, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return Installed{}, fmt.Errorf("project_id is required")
	}
	if r.superseded(projectID, seq) {
		r.logger.Info("discard superseded document", zap.String("project", projectID), zap.Uint64("sequence", seq))
		metrics.RecordSuperseded()
		return Installed{}, ErrSuperseded
	}

	handle := uuid.NewString()
	if err := r.store.Put(ctx, projectID, handle, doc); err != nil {
		return Installed{}, fmt.Errorf("store document: %w", err)
	}
	direct, err := r.store.GetURL(ctx, projectID, handle)
	if err != nil {
		r.logger.Warn("direct document url unavailable", zap.String("project", projectID), zap.Error(err))
		direct = ""
	}
	inst := Installed{
		ProjectID:   projectID,
		Handle:      handle,
		Sequence:    seq,
		URL:         r.documentURL(projectID, handle),
		DirectURL:   direct,
		Size:        len(doc),
		InstalledAt: r.now().UTC(),
	}

	r.mu.Lock()
	p := r.projectLocked(projectID)
	if p.current != nil && p.current.Sequence >= seq {
		r.mu.Unlock()
		r.release(projectID, handle)
		metrics.RecordSuperseded()
		return Installed{}, ErrSuperseded
	}
	prev := p.current
	p.current = &inst
	for _, ch := range p.subs {
		select {
		case ch <- inst:
		default:
			r.logger.Warn("subscriber lagging, event dropped", zap.String("project", projectID))
		}
	}
	r.mu.Unlock()

	if prev != nil {
		r.release(projectID, prev.Handle)
		metrics.RecordSuperseded()
	}
	r.logger.Info("installed document",
		zap.String("project", projectID),
		zap.String("handle", handle),
		zap.Uint64("sequence", seq),
		zap.Int("bytes", len(doc)),
	)
	return inst, nil
}

func (r *Registry) superseded(projectID string, seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	return ok && p.current != nil && p.current.Sequence >= seq
}

// release deletes a handle's document. Failures are logged only; a released
// handle is unobservable either way because Document checks currency first.
func (r *Registry) release(projectID, handle string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.store.Delete(ctx, projectID, handle); err != nil {
		r.logger.Warn("release document", zap.String("project", projectID), zap.String("handle", handle), zap.Error(err))
		return
	}
	r.logger.Info("released document", zap.String("project", projectID), zap.String("handle", handle))
}

// Current returns the project's installed document, if any.
func (r *Registry) Current(projectID string) (Installed, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[strings.TrimSpace(projectID)]
	if !ok || p.current == nil {
		return Installed{}, false
	}
	return *p.current, true
}

// Document returns the stored bytes for handle while it is still current.
func (r *Registry) Document(ctx context.Context, projectID, handle string) ([]byte, error) {
	cur, ok := r.Current(projectID)
	if !ok || cur.Handle != strings.TrimSpace(handle) {
		return nil, document.ErrNotFound
	}
	return r.store.Get(ctx, cur.ProjectID, cur.Handle)
}

// Release drops the project's surface and its stored document.
func (r *Registry) Release(projectID string) {
	projectID = strings.TrimSpace(projectID)
	r.mu.Lock()
	p, ok := r.projects[projectID]
	var prev *Installed
	if ok {
		prev = p.current
		p.current = nil
	}
	r.mu.Unlock()
	if prev != nil {
		r.release(projectID, prev.Handle)
	}
}

// Subscribe delivers every later install for projectID. The returned cancel
// func closes the channel.
func (r *Registry) Subscribe(projectID string) (<-chan Installed, func()) {
	projectID = strings.TrimSpace(projectID)
	ch := make(chan Installed, 8)
	r.mu.Lock()
	p := r.projectLocked(projectID)
	id := r.nextSub
	r.nextSub++
	p.subs[id] = ch
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(p.subs, id)
			close(ch)
			r.mu.Unlock()
		})
	}
}

func (r *Registry) documentURL(projectID, handle string) string {
	return r.baseURL + "/preview/" + url.PathEscape(projectID) + "/" + url.PathEscape(handle)
}
