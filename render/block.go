package render

import "github.com/elmanelman/judge-submit/judge"

type Style int

const (
	StyleAccept Style = iota
	StyleError
	StyleWarning
)

func (s Style) String() string {
	switch s {
	case StyleAccept:
		return "accept"
	case StyleError:
		return "error"
	default:
		return "warning"
	}
}

// StyleOf maps every verdict kind to exactly one style.
func StyleOf(kind judge.Kind) Style {
	switch kind {
	case judge.Accept:
		return StyleAccept
	case judge.WrongAnswer, judge.SystemError:
		return StyleError
	case judge.RuntimeError, judge.Other:
		return StyleWarning
	default:
		return StyleWarning
	}
}

// Block is one rendered result: a bold headline and an optional
// preformatted body.
type Block struct {
	Style    Style
	Headline string
	Body     string
	HasBody  bool
}

const requestFailedHeadline = "request failed"

func Pending(label string) Block {
	return Block{Style: StyleWarning, Headline: label}
}

func Verdict(result *judge.JudgeResult) Block {
	v := result.Verdict()
	b := Block{
		Style:    StyleOf(v.Kind),
		Headline: v.Label(),
	}
	if !v.Kind.Compact() {
		b.Body = result.Message
		b.HasBody = true
	}
	return b
}

func Failure(message string) Block {
	return Block{
		Style:    StyleError,
		Headline: requestFailedHeadline,
		Body:     message,
		HasBody:  true,
	}
}
