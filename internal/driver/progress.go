package driver

// Stage is the step a file is in.
type Stage string

const (
	StageScan  Stage = "scan"  // header pass
	StageParse Stage = "parse" // full parse
)

// Status is the state of a file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusCached  Status = "cached"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event is one progress update. An empty File means the whole run.
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Err    error
}

// ProgressSink receives events from the worker goroutines; implementations
// must be goroutine-safe.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
