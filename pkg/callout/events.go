package callout

// Event identifies which phase of the callout protocol a script is being
// invoked for. Its string form is passed to the script via the -e flag.
type Event int

const (
	EventPre Event = iota
	EventPost
	EventNotify
	EventGet
)

func (e Event) String() string {
	switch e {
	case EventPre:
		return "pre"
	case EventPost:
		return "post"
	case EventNotify:
		return "notify"
	case EventGet:
		return "get"
	default:
		return "unknown"
	}
}

// Action is the device lifecycle operation being performed. Its string form
// is passed to the script via the -a flag.
type Action int

const (
	ActionStart Action = iota
	ActionStop
	ActionDefine
	ActionUndefine
	ActionModify
	ActionAttributes
)

func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionStop:
		return "stop"
	case ActionDefine:
		return "define"
	case ActionUndefine:
		return "undefine"
	case ActionModify:
		return "modify"
	case ActionAttributes:
		return "attributes"
	default:
		return "unknown"
	}
}

// State tracks the outcome of the action function: none before it runs or
// when it never runs, success or failure afterwards. Post and notify
// scripts receive it via the -s flag so they know how the action resolved.
type State int

const (
	StateNone State = iota
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}
