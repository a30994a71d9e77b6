// Package progress implements the hierarchical progress tracker (§4.3,
// §9): a task tree rooted at "<algorithm> <mode>", volume accounting per
// task, and a bounded registry so a running or recently-finished tree can
// be introspected from outside the call that created it.
package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Status of a task in the tree.
type Status int

const (
	Pending Status = iota
	Running
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Running:
		return "RUNNING"
	case Success:
		return "SUCCESS"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Task is one node of the hierarchical progress tree.
type Task struct {
	Name      string
	Volume    int64 // hint, often node_count or relationship_count; 0 = unknown
	Progress  int64 // items logged so far
	Status    Status
	StartedAt time.Time
	EndedAt   time.Time
	Error     error

	parent   *Task
	children []*Task
	mu       sync.Mutex
}

// LogProgress adds delta to the task's running total. Safe for
// concurrent callers (each worker's partition logs its own increments).
func (t *Task) LogProgress(delta int64) {
	t.mu.Lock()
	t.Progress += delta
	t.mu.Unlock()
}

func (t *Task) Children() []*Task { return t.children }

// Fraction returns Progress/Volume, or -1 if Volume is unknown (0).
func (t *Task) Fraction() float64 {
	if t.Volume <= 0 {
		return -1
	}
	return float64(t.Progress) / float64(t.Volume)
}

// Tracker owns one task tree for the duration of a single algorithm call.
// The root task is named "<algorithm> <mode>" per spec §4.3 step 3.
type Tracker struct {
	ID      string
	Root    *Task
	current *Task
	mu      sync.Mutex
}

// New starts a tracker rooted at rootName with the given volume hint.
func New(rootName string, volume int64) *Tracker {
	root := &Task{Name: rootName, Volume: volume, Status: Running, StartedAt: time.Now()}
	return &Tracker{ID: uuid.NewString(), Root: root, current: root}
}

// BeginSubTask opens a child task under the currently-open task (root, or
// whatever subtask is deepest) and descends into it. Phase names used by
// the processing template are "pre-processing", "compute", "side-effect".
func (tr *Tracker) BeginSubTask(name string, volume int64) *Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	child := &Task{Name: name, Volume: volume, Status: Running, StartedAt: time.Now(), parent: tr.current}
	tr.current.children = append(tr.current.children, child)
	tr.current = child
	return child
}

// EndSubTask closes the currently-open task with Success and ascends to
// its parent. Calling EndSubTask at the root is a no-op (the root is
// closed by EndSuccess/EndFailure instead).
func (tr *Tracker) EndSubTask() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.current.parent == nil {
		return
	}
	tr.current.Status = Success
	tr.current.EndedAt = time.Now()
	tr.current = tr.current.parent
}

// EndSuccess closes the root task (and any still-open subtasks, which
// inherit Success) with Status=Success.
func (tr *Tracker) EndSuccess() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	closeAll(tr.Root, Success, nil)
}

// EndFailure closes the root task (and any still-open subtasks) with
// Status=Failed, recording err on every still-open node so a caller
// walking the tree can see where the failure propagated from (spec §4.3
// "ends the progress task with failure state").
func (tr *Tracker) EndFailure(err error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	closeAll(tr.Root, Failed, err)
}

func closeAll(t *Task, status Status, err error) {
	if t.Status == Running || t.Status == Pending {
		t.Status = status
		t.Error = err
		if t.EndedAt.IsZero() {
			t.EndedAt = time.Now()
		}
	}
	for _, c := range t.children {
		closeAll(c, status, err)
	}
}

// String renders the task tree for log output, indented by depth.
func (tr *Tracker) String() string {
	var b []byte
	var walk func(t *Task, depth int)
	walk = func(t *Task, depth int) {
		for i := 0; i < depth; i++ {
			b = append(b, ' ', ' ')
		}
		b = append(b, []byte(fmt.Sprintf("%s [%s] %d/%d\n", t.Name, t.Status, t.Progress, t.Volume))...)
		for _, c := range t.children {
			walk(c, depth+1)
		}
	}
	walk(tr.Root, 0)
	return string(b)
}

// Registry is a bounded, concurrent-safe index of tracked calls, keyed by
// Tracker.ID, so a caller outside the algorithm invocation (a status
// endpoint, a test) can list running or recently-finished task trees
// (spec §4.3 "registry for introspection"). Bounded with an LRU so a long
// process doesn't accumulate one Tracker per call forever.
type Registry struct {
	cache *lru.Cache[string, *Tracker]
}

// NewRegistry builds a registry retaining at most capacity trackers.
func NewRegistry(capacity int) *Registry {
	cache, _ := lru.New[string, *Tracker](capacity)
	return &Registry{cache: cache}
}

func (r *Registry) Register(tr *Tracker) { r.cache.Add(tr.ID, tr) }

func (r *Registry) Get(id string) (*Tracker, bool) { return r.cache.Get(id) }

func (r *Registry) List() []*Tracker {
	keys := r.cache.Keys()
	out := make([]*Tracker, 0, len(keys))
	for _, k := range keys {
		if tr, ok := r.cache.Peek(k); ok {
			out = append(out, tr)
		}
	}
	return out
}
