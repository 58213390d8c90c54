package board

import (
	"context"
	"errors"

	"github.com/CrowderSoup/workbench/models"
)

// Workspace wires the six boards and the chat log to their stores.
type Workspace struct {
	Tasks    *Collection[models.Task]
	Content  *Collection[models.ContentItem]
	Calendar *Collection[models.CalendarEvent]
	Memory   *Collection[models.MemoryDoc]
	Team     *Collection[models.TeamMember]
	Office   *Collection[models.OfficeAgent]
	Chat     *ChatLog

	*Registry
}

// Stores selects the document store per board. Tasks falls back to Default.
type Stores struct {
	Default DocumentStore
	Tasks   DocumentStore
}

func NewWorkspace(stores Stores, cache Cache, opts ...Option) *Workspace {
	tasks := stores.Tasks
	if tasks == nil {
		tasks = stores.Default
	}

	w := &Workspace{
		Tasks:    New(TaskSpec, tasks, cache, opts...),
		Content:  New(ContentSpec, stores.Default, cache, opts...),
		Calendar: New(CalendarSpec, stores.Default, cache, opts...),
		Memory:   New(MemorySpec, stores.Default, cache, opts...),
		Team:     New(TeamSpec, stores.Default, cache, opts...),
		Office:   New(OfficeSpec, stores.Default, cache, opts...),
		Chat:     NewChatLog(stores.Default, opts...),
	}
	w.Registry = NewRegistry(w.Tasks, w.Content, w.Calendar, w.Memory, w.Team, w.Office)
	return w
}

// Open loads every board once and seeds the rosters that start with defaults.
// Load failures are already reported through the observer; the joined error
// is returned for callers that want to log it.
func (w *Workspace) Open(ctx context.Context) error {
	var errs []error
	for _, b := range w.All() {
		if err := b.Load(ctx); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := b.EnsureDefaults(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush waits for the pending saves of every board.
func (w *Workspace) Flush(ctx context.Context) error {
	var errs []error
	for _, b := range w.All() {
		if err := b.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
