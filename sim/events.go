package sim

//go:generate go tool mockgen -destination=./mocks/sink_mock.go -package=mocks . EventSink

// EventKind tags the discrete notifications produced by a tick.
type EventKind int

const (
	EventSelect EventKind = iota + 1
	EventRelease
	EventKick
	EventGoal
)

func (k EventKind) String() string {
	switch k {
	case EventSelect:
		return "select"
	case EventRelease:
		return "release"
	case EventKick:
		return "kick"
	case EventGoal:
		return "goal"
	default:
		return "unknown"
	}
}

// Event is one notification emitted during Step.
type Event struct {
	Kind   EventKind
	Tick   uint64
	Player PlayerID

	// End and Team are set for EventGoal only
	End  GoalEnd
	Team Team
}

// GoalEvent is delivered to an EventSink when a goal is scored.
type GoalEvent struct {
	MatchID string
	Tick    uint64
	End     GoalEnd
	Team    Team
	Score   Score
}

// EventSink receives goal notifications synchronously from Step.
type EventSink interface {
	Goal(ev GoalEvent)
}

func (s *Simulation) emit(ev Event) {
	ev.Tick = s.tick
	s.events = append(s.events, ev)
}
