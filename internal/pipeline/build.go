package pipeline

import (
	"sync"
	"time"
)

// Status represents the state of a generation run.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusReading   Status = "reading"
	StatusParsing   Status = "parsing"
	StatusRendering Status = "rendering"
	StatusVerifying Status = "verifying"
	StatusWriting   Status = "writing"
	StatusChecking  Status = "checking"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Build tracks the state of a single generation run.
type Build struct {
	mu sync.Mutex

	ID     int    `json:"build_id"`
	Status Status `json:"status"`
	Phase  string `json:"phase"`

	Progress Progress `json:"progress"`

	Digest    string    `json:"digest,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	result *Result
	errors []string
}

// Progress counts what a run has produced so far.
type Progress struct {
	Scripts     int      `json:"scripts"`
	Entities    int      `json:"entities"`
	Pages       int      `json:"pages"`
	Written     int      `json:"written"`
	Unchanged   int      `json:"unchanged"`
	BrokenLinks int      `json:"broken_links"`
	Errors      []string `json:"errors"`
}

func newBuild(id int) *Build {
	now := time.Now()
	return &Build{ID: id, Status: StatusQueued, Phase: "queued", CreatedAt: now, UpdatedAt: now}
}

// SetStatus updates build status atomically.
func (b *Build) SetStatus(status Status, phase string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Status = status
	b.Phase = phase
	b.UpdatedAt = time.Now()
}

// AddError records an error.
func (b *Build) AddError(err string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errors = append(b.errors, err)
	b.Progress.Errors = b.errors
	b.UpdatedAt = time.Now()
}

// update applies fn to the progress counters under the build lock.
func (b *Build) update(fn func(p *Progress)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.Progress)
	b.UpdatedAt = time.Now()
}

func (b *Build) setResult(r *Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.result = r
	b.Digest = r.Digest
	b.Progress.Entities = r.Tree.Len()
	b.Progress.Pages = len(r.Site.Pages)
	b.Progress.BrokenLinks = len(r.Broken)
	b.UpdatedAt = time.Now()
}

// Result returns the rendered output, or nil before rendering finished.
func (b *Build) Result() *Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

// BuildSnapshot is a read-only, JSON-safe copy of build state.
type BuildSnapshot struct {
	ID        int       `json:"build_id"`
	Status    Status    `json:"status"`
	Phase     string    `json:"phase"`
	Progress  Progress  `json:"progress"`
	Digest    string    `json:"digest,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the build state.
func (b *Build) Snapshot() BuildSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.Progress
	p.Errors = append([]string{}, b.Progress.Errors...)
	return BuildSnapshot{
		ID:        b.ID,
		Status:    b.Status,
		Phase:     b.Phase,
		Progress:  p,
		Digest:    b.Digest,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
