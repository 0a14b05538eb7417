package domain

import (
	"strings"
	"sync"
	"time"
)

const (
	// PollOptionCount is fixed by the protocol.
	PollOptionCount = 2
	// PollDurationSeconds is the countdown length of every poll.
	PollDurationSeconds = 60
)

// Poll is a two-option, time-boxed question within a Room.
// A poll goes active -> inactive exactly once and never reactivates.
type Poll struct {
	Question      string
	Options       []string
	Results       []int
	Active        bool
	StartTime     time.Time
	TimeRemaining int

	stopOnce      sync.Once
	stopCountdown func()
}

// ValidatePollInput checks the question and the two option labels.
func ValidatePollInput(question string, options []string) error {
	if strings.TrimSpace(question) == "" || len(options) != PollOptionCount {
		return ErrInvalidPollInput
	}
	for _, o := range options {
		if strings.TrimSpace(o) == "" {
			return ErrInvalidPollInput
		}
	}
	return nil
}

func NewPoll(question string, options []string, start time.Time) *Poll {
	opts := make([]string, len(options))
	copy(opts, options)
	return &Poll{
		Question:      question,
		Options:       opts,
		Results:       make([]int, len(opts)),
		Active:        true,
		StartTime:     start,
		TimeRemaining: PollDurationSeconds,
	}
}

// AttachCountdown registers the cancel hook of the poll's countdown task.
func (p *Poll) AttachCountdown(stop func()) {
	p.stopCountdown = stop
}

// Vote increments the counter at index. Returns false when the poll is
// inactive or the index is out of range.
func (p *Poll) Vote(index int) bool {
	if !p.Active || index < 0 || index >= len(p.Results) {
		return false
	}
	p.Results[index]++
	return true
}

// Close marks the poll inactive and cancels its countdown. Only the first
// call has an effect; it reports whether this call closed the poll.
func (p *Poll) Close() bool {
	closed := false
	p.stopOnce.Do(func() {
		closed = p.Active
		p.Active = false
		if p.stopCountdown != nil {
			p.stopCountdown()
		}
	})
	return closed
}

// Winner returns the label of the first option holding the maximum count.
// With no votes at all this is still options[0].
func (p *Poll) Winner() string {
	return Winner(p.Options, p.Results)
}

// Winner picks the first index achieving the maximum count. Ties, including
// an all-zero tally, resolve to the lowest index.
func Winner(options []string, results []int) string {
	if len(options) == 0 || len(results) == 0 {
		return ""
	}
	best := 0
	for i := 1; i < len(results) && i < len(options); i++ {
		if results[i] > results[best] {
			best = i
		}
	}
	return options[best]
}

// View is the read-only wire representation of the poll.
func (p *Poll) View() PollView {
	results := make([]int, len(p.Results))
	copy(results, p.Results)
	return PollView{
		Question:  p.Question,
		Options:   p.Options,
		Results:   results,
		StartTime: p.StartTime.UnixMilli(),
		Active:    p.Active,
	}
}

type PollView struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Results   []int    `json:"results"`
	StartTime int64    `json:"startTime"`
	Active    bool     `json:"active"`
}
