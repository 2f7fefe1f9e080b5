package beecalc

import "strings"

// A Result pairs one input line with its value or error.
type Result struct {
	Input string
	Value Value
	Err   error
}

// Output renders the result for display: the value's text, a short error
// marker, or the empty string for blank lines and comments.
func (r Result) Output() string {
	if r.Err != nil {
		return Marker(r.Err)
	}
	if r.Value.IsEmpty() {
		return ""
	}
	return r.Value.String()
}

// A Notepad evaluates lines in order against one session and keeps every
// line's result. Editing any line means replaying the whole notebook, so
// results always reflect a single full pass.
type Notepad struct {
	session *Session
	results []Result
}

// NewNotepad returns an empty notepad. Options apply to its session.
func NewNotepad(opts ...Option) *Notepad {
	return &Notepad{session: NewSession(opts...)}
}

// Session returns the notepad's evaluation session.
func (p *Notepad) Session() *Session { return p.session }

// Results returns the results of every line appended since the last
// reset, in order.
func (p *Notepad) Results() []Result { return p.results }

// Append evaluates one more line and records its result. A failed line
// leaves variables untouched, so later lines see a consistent
// environment.
func (p *Notepad) Append(text string) Result {
	v, err := p.session.EvalLine(text)
	r := Result{Input: text, Value: v, Err: err}
	p.results = append(p.results, r)
	return r
}

// Reset clears results and variables, keeping any seeded at construction.
func (p *Notepad) Reset() {
	p.session.Reset()
	p.results = nil
}

// EvalAll resets the notepad and evaluates lines from the top.
func (p *Notepad) EvalAll(lines []string) []Result {
	p.Reset()
	for _, ln := range lines {
		p.Append(ln)
	}
	return p.results
}

// EvalText splits src on newlines and evaluates it as a whole notebook.
func (p *Notepad) EvalText(src string) []Result {
	return p.EvalAll(strings.Split(src, "\n"))
}
