package judge

import "strings"

// Kind is the verdict taxonomy of the judging service. Other covers every
// status string the client does not recognize.
type Kind int

const (
	Other Kind = iota
	Accept
	WrongAnswer
	SystemError
	RuntimeError
)

const (
	statusAccept       = "Accept"
	statusWrongAnswer  = "Wrong Answer"
	statusSystemError  = "System Error"
	statusRuntimeError = "Runtime Error"
)

var kindStatuses = map[Kind]string{
	Accept:       statusAccept,
	WrongAnswer:  statusWrongAnswer,
	SystemError:  statusSystemError,
	RuntimeError: statusRuntimeError,
}

func (k Kind) String() string {
	if s, ok := kindStatuses[k]; ok {
		return s
	}
	return "Other"
}

// Compact reports whether the verdict is rendered as a bare label, without
// the message body.
func (k Kind) Compact() bool {
	return k == Accept || k == WrongAnswer
}

// Verdict is a parsed status. Raw keeps the service's spelling so unknown
// statuses can still be shown.
type Verdict struct {
	Kind Kind
	Raw  string
}

func ParseVerdict(status string) Verdict {
	v := Verdict{Kind: Other, Raw: status}
	for kind, s := range kindStatuses {
		if status == s {
			v.Kind = kind
			break
		}
	}
	return v
}

// Label is the headline shown for the verdict.
func (v Verdict) Label() string {
	if v.Kind.Compact() {
		return v.Raw + "!"
	}
	if strings.TrimSpace(v.Raw) == "" {
		return "Unknown Verdict"
	}
	return v.Raw
}

type JudgeResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (r *JudgeResult) Verdict() Verdict {
	return ParseVerdict(r.Status)
}
