package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/zephyrtronium/calc"
)

const banner = "Restricted calculator. Type 'help' for commands, 'quit' or 'q' to exit."

const help = `Commands:
  help or ?           show this help
  quit or q or exit   leave the calculator
  history             list previous results
Examples: 2+2, sin(pi/2), factorial(5)
Names: `

type entry struct {
	expr   string
	result calc.Value
}

// session evaluates lines of input and remembers successful results.
type session struct {
	out     io.Writer
	cfg     *config
	opts    []calc.Option
	ctx     *calc.Context
	history []entry
	// dropped is the number of entries discarded from the front of history,
	// so that entries keep their numbers.
	dropped int
}

func newSession(out io.Writer, cfg *config) *session {
	opts := cfg.options()
	return &session{
		out:  out,
		cfg:  cfg,
		opts: opts,
		ctx:  calc.NewContext(opts...),
	}
}

// repl runs the interactive loop until a quit command or the end of input.
func (s *session) repl(in io.Reader) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(nil, 1<<20)
	fmt.Fprintln(s.out, banner)
	for {
		fmt.Fprint(s.out, s.cfg.Prompt)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "\nGoodbye")
			return nil
		}
		if !s.line(sc.Text()) {
			return nil
		}
	}
}

// line handles one line of interactive input. It returns false if the user
// asked to quit.
func (s *session) line(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}
	switch strings.ToLower(text) {
	case "quit", "q", "exit":
		fmt.Fprintln(s.out, "Goodbye")
		return false
	case "help", "?":
		fmt.Fprint(s.out, help)
		fmt.Fprintln(s.out, strings.Join(calc.Names(), ", "))
		return true
	case "history":
		s.printHistory()
		return true
	}
	s.eval(text)
	return true
}

// eval evaluates an expression and prints its result or error. It reports
// whether evaluation succeeded.
func (s *session) eval(text string) bool {
	e, err := calc.ParseString(text, s.opts...)
	if err != nil {
		fmt.Fprintln(s.out, "Error:", err)
		return false
	}
	if s.cfg.Echo {
		fmt.Fprintf(s.out, "%v : ", e)
	}
	v, err := s.ctx.Eval(e)
	if err != nil {
		fmt.Fprintln(s.out, "Error:", err)
		return false
	}
	s.record(text, v)
	fmt.Fprintln(s.out, v)
	return true
}

func (s *session) record(text string, v calc.Value) {
	s.history = append(s.history, entry{expr: text, result: v})
	if n := s.cfg.HistorySize; n > 0 && len(s.history) > n {
		k := len(s.history) - n
		s.history = append(s.history[:0], s.history[k:]...)
		s.dropped += k
	}
}

func (s *session) printHistory() {
	if len(s.history) == 0 {
		fmt.Fprintln(s.out, "No history yet")
		return
	}
	for i, h := range s.history {
		fmt.Fprintf(s.out, "%d: %s = %v\n", s.dropped+i+1, h.expr, h.result)
	}
}

// batch evaluates each line of in as a separate expression. Blank lines and
// comment lines are skipped. It reports whether every expression succeeded.
func (s *session) batch(in io.Reader) (bool, error) {
	sc := bufio.NewScanner(in)
	sc.Buffer(nil, 1<<20)
	ok := true
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if !s.eval(text) {
			ok = false
		}
	}
	return ok, sc.Err()
}
