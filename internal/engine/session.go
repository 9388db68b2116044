// Package engine implements the typing session state machine.
//
// A Session is not safe for concurrent use. Its owner must serialize input
// signals and timer ticks; the Bubble Tea update loop does this for the TUI.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typedash/internal/model"
	"github.com/verte-zerg/typedash/internal/stats"
)

// State is the lifecycle phase of a session.
type State uint8

// Session states.
const (
	StateIdle State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Mark is the correctness of one passage position.
type Mark uint8

// Per-character marks.
const (
	MarkUnset Mark = iota
	MarkCorrect
	MarkWrong
)

// Picker supplies passages by difficulty.
type Picker interface {
	Pick(model.Difficulty) string
}

// Options configures a session.
type Options struct {
	DurationSec int
	Difficulty  model.Difficulty
	Endless     bool
}

// Outcome reports what an input signal changed beyond the counters.
type Outcome struct {
	// Started is set when this input started the timer.
	Started bool
	// RolledOver is set when endless mode loaded a new passage; the input
	// buffer must be cleared.
	RolledOver bool
	// Finished is set when this input completed the session.
	Finished bool
}

// Session is the state of one typing attempt.
type Session struct {
	id     string
	opts   Options
	picker Picker
	clock  Clock
	timer  *Timer

	target []rune
	marks  []Mark
	buffer []rune
	cursor int

	errors        int
	carriedErrors int
	typed         int
	rollovers     int

	started  bool
	finished bool
	result   *model.HistoryEntry
}

// NewSession creates an idle session with a freshly picked passage.
func NewSession(opts Options, picker Picker, clock Clock) *Session {
	if clock == nil {
		clock = time.Now
	}
	s := &Session{
		opts:   opts,
		picker: picker,
		clock:  clock,
		timer:  NewTimer(opts.DurationSec, clock),
	}
	s.Reset(true)
	return s
}

// Reset discards progress and returns the session to idle. The passage is
// replaced when newPassage is set.
func (s *Session) Reset(newPassage bool) {
	s.id = uuid.NewString()
	s.timer.Reset(s.opts.DurationSec)
	if newPassage || len(s.target) == 0 {
		s.loadPassage(s.picker.Pick(s.opts.Difficulty))
	} else {
		s.loadPassage(string(s.target))
	}
	s.errors = 0
	s.carriedErrors = 0
	s.typed = 0
	s.rollovers = 0
	s.started = false
	s.finished = false
	s.result = nil
}

// SetDifficulty switches tiers and resets with a new passage.
func (s *Session) SetDifficulty(d model.Difficulty) {
	s.opts.Difficulty = d
	s.Reset(true)
}

// SetDuration changes the session length and resets on the same passage.
func (s *Session) SetDuration(seconds int) {
	s.opts.DurationSec = seconds
	s.Reset(false)
}

// SetEndless toggles endless mode. It takes effect at the next completion.
func (s *Session) SetEndless(endless bool) {
	s.opts.Endless = endless
}

// Submit applies the full current input buffer.
func (s *Session) Submit(value string) Outcome {
	var out Outcome
	if s.finished {
		return out
	}
	cur := []rune(value)
	if !s.started {
		if len(cur) == 0 {
			return out
		}
		s.started = true
		s.timer.Start()
		out.Started = true
	}

	change := Diff(s.buffer, cur)
	switch change.Kind {
	case ChangeTruncate:
		s.rederive(cur)
	case ChangeReplace:
		s.rederive(cur[:change.Keep])
		s.forward(change.Added, &out)
	case ChangeAppend:
		s.forward(change.Added, &out)
	}
	return out
}

// Tick delivers one timer second for countdown gen. It reports whether the
// tick was live and whether it ended the session.
func (s *Session) Tick(gen uint64) (applied, finished bool) {
	if s.finished {
		return false, false
	}
	applied, expired := s.timer.Tick(gen)
	if expired {
		s.finish()
		return true, true
	}
	return applied, false
}

// Stop ends the attempt without scoring it.
func (s *Session) Stop() {
	s.timer.Stop()
}

func (s *Session) loadPassage(text string) {
	s.target = []rune(text)
	s.marks = make([]Mark, len(s.target))
	s.buffer = s.buffer[:0]
	s.cursor = 0
}

// rederive recomputes marks and errors from scratch for buf. Errors made on
// passages already completed in endless mode are carried and never recounted.
func (s *Session) rederive(buf []rune) {
	n := min(len(buf), len(s.target))
	for i := range s.marks {
		s.marks[i] = MarkUnset
	}
	wrong := 0
	for i := 0; i < n; i++ {
		if buf[i] == s.target[i] {
			s.marks[i] = MarkCorrect
			continue
		}
		s.marks[i] = MarkWrong
		wrong++
	}
	s.errors = s.carriedErrors + wrong
	s.cursor = n
	s.buffer = append(s.buffer[:0], buf[:n]...)
}

// forward evaluates typed runes one keystroke at a time, stopping at passage
// completion.
func (s *Session) forward(runes []rune, out *Outcome) {
	for _, r := range runes {
		if s.target[s.cursor] == r {
			s.marks[s.cursor] = MarkCorrect
		} else {
			s.marks[s.cursor] = MarkWrong
			s.errors++
		}
		s.typed++
		s.buffer = append(s.buffer, r)
		s.cursor++
		if s.cursor < len(s.target) {
			continue
		}
		if s.opts.Endless {
			s.carriedErrors = s.errors
			s.rollovers++
			s.loadPassage(s.picker.Pick(s.opts.Difficulty))
			out.RolledOver = true
		} else {
			s.finish()
			out.Finished = true
		}
		return
	}
}

func (s *Session) finish() {
	if s.finished {
		return
	}
	s.finished = true
	s.timer.Stop()
	score := stats.Compute(s.typed, s.errors, s.timer.Elapsed())
	s.result = &model.HistoryEntry{
		Timestamp:  s.clock().UTC(),
		WPM:        score.WPM,
		Accuracy:   score.Accuracy,
		Chars:      s.typed,
		Errors:     s.errors,
		Duration:   s.timer.Remaining(),
		Difficulty: s.opts.Difficulty,
	}
}

// ID identifies the attempt for logging.
func (s *Session) ID() string { return s.id }

// Options returns the active configuration.
func (s *Session) Options() Options { return s.opts }

// State returns the lifecycle phase.
func (s *Session) State() State {
	switch {
	case s.finished:
		return StateFinished
	case s.started:
		return StateRunning
	default:
		return StateIdle
	}
}

// Target returns the passage being typed.
func (s *Session) Target() string { return string(s.target) }

// TargetRunes returns the passage as runes. Callers must not modify it.
func (s *Session) TargetRunes() []rune { return s.target }

// Marks returns per-character marks. Callers must not modify it.
func (s *Session) Marks() []Mark { return s.marks }

// Cursor returns the index of the next expected character.
func (s *Session) Cursor() int { return s.cursor }

// Errors returns the number of errors counted so far.
func (s *Session) Errors() int { return s.errors }

// Typed returns the number of forward keystrokes evaluated.
func (s *Session) Typed() int { return s.typed }

// Rollovers returns how many passages endless mode has completed.
func (s *Session) Rollovers() int { return s.rollovers }

// Remaining returns the countdown value in seconds.
func (s *Session) Remaining() int { return s.timer.Remaining() }

// TimerGeneration identifies the live countdown for scheduling ticks.
func (s *Session) TimerGeneration() uint64 { return s.timer.Generation() }

// Progress returns the percentage of the current passage typed.
func (s *Session) Progress() int { return stats.Progress(s.cursor, len(s.target)) }

// Result returns the scored entry once the session has finished.
func (s *Session) Result() (model.HistoryEntry, bool) {
	if s.result == nil {
		return model.HistoryEntry{}, false
	}
	return *s.result, true
}
