package archiver

// EventKind identifies a step of an archiving run.
type EventKind int

const (
	EventRemovedPrevious EventKind = iota
	EventMissingSource
	EventStarted
	EventFileAdded
	EventCompleted
)

func (k EventKind) String() string {
	switch k {
	case EventRemovedPrevious:
		return "removed-previous"
	case EventMissingSource:
		return "missing-source"
	case EventStarted:
		return "started"
	case EventFileAdded:
		return "file-added"
	case EventCompleted:
		return "completed"
	}
	return "unknown"
}

// Event is emitted to an Observer as the run progresses. SourceDir and
// ArchivePath are the paths as the caller passed them, except on
// EventCompleted where ArchivePath is absolute.
type Event struct {
	Kind        EventKind
	SourceDir   string
	ArchivePath string
	Entry       string // EventFileAdded only
	Size        int64  // EventFileAdded only
	Count       int    // EventCompleted only
}

// Observer receives progress events. Observers must not fail the run.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
