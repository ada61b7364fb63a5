package ingest

// State is a step of the per-video state machine.
type State string

const (
	StateSkip       State = "skip"
	StateFetching   State = "fetching"
	StateAdmitting  State = "admitting"
	StatePersisting State = "persisting"
	StateDone       State = "done"
	StateDisabled   State = "disabled"
	StateFailed     State = "failed"
)

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	switch s {
	case StateSkip, StateDone, StateDisabled, StateFailed:
		return true
	default:
		return false
	}
}

// Result describes how one video finished.
type Result struct {
	VideoID  string
	Title    string
	State    State
	Admitted int
	Scanned  int
	Pages    int
	Table    string
	Err      error
}

// Summary aggregates the results of a playlist run.
type Summary struct {
	RunID      string
	PlaylistID string
	Videos     int
	Done       int
	Skipped    int
	Disabled   int
	Failed     int
	Admitted   int
	Results    []Result
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	s.Admitted += r.Admitted
	switch r.State {
	case StateDone:
		s.Done++
	case StateSkip:
		s.Skipped++
	case StateDisabled:
		s.Disabled++
	case StateFailed:
		s.Failed++
	}
}
