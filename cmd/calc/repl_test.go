package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "gopkg.in/check.v1"
)

type ReplSuite struct {
	out *bytes.Buffer
	cfg *config
}

var _ = Suite(&ReplSuite{})

func (s *ReplSuite) SetUpTest(c *C) {
	s.out = new(bytes.Buffer)
	s.cfg = defaultConfig()
}

func (s *ReplSuite) run(c *C, input string) string {
	err := newSession(s.out, s.cfg).repl(strings.NewReader(input))
	c.Assert(err, IsNil)
	return s.out.String()
}

func (s *ReplSuite) TestQuit(c *C) {
	for _, cmd := range []string{"quit", "q", "exit", "QUIT", "  Exit  "} {
		s.out.Reset()
		got := s.run(c, "2+2\n"+cmd+"\n1+1\n")
		want := banner + "\ncalc> 4\ncalc> Goodbye\n"
		c.Check(got, Equals, want, Commentf("command %q", cmd))
	}
}

func (s *ReplSuite) TestEOF(c *C) {
	got := s.run(c, "")
	c.Check(got, Equals, banner+"\ncalc> \nGoodbye\n")
}

func (s *ReplSuite) TestBlankLines(c *C) {
	got := s.run(c, "\n   \n7 // 2\n")
	c.Check(got, Equals, banner+"\ncalc> calc> calc> 3\ncalc> \nGoodbye\n")
}

func (s *ReplSuite) TestErrorsContinue(c *C) {
	got := s.run(c, "1/0\nos.system('ls')\nfactorial(-1)\n2**10\n")
	c.Check(strings.Contains(got, "Error: division by zero\n"), Equals, true, Commentf("%s", got))
	c.Check(strings.Contains(got, "Error: 3: attribute access is not allowed\n"), Equals, true, Commentf("%s", got))
	c.Check(strings.Contains(got, "Error: factorial() argument 1 must be a non-negative integer\n"), Equals, true, Commentf("%s", got))
	c.Check(strings.HasSuffix(got, "calc> 1024\ncalc> \nGoodbye\n"), Equals, true, Commentf("%s", got))
}

func (s *ReplSuite) TestHelp(c *C) {
	for _, cmd := range []string{"help", "?"} {
		s.out.Reset()
		got := s.run(c, cmd+"\n")
		c.Check(strings.Contains(got, "Commands:\n"), Equals, true)
		c.Check(strings.Contains(got, "history"), Equals, true)
		c.Check(strings.Contains(got, "Names: abs, acos, asin,"), Equals, true, Commentf("%s", got))
	}
}

func (s *ReplSuite) TestHistory(c *C) {
	got := s.run(c, "history\n1+1\nbad(\n2 * 3.5\nhistory\n")
	c.Check(strings.Contains(got, "calc> No history yet\n"), Equals, true, Commentf("%s", got))
	c.Check(strings.Contains(got, "calc> 1: 1+1 = 2\n2: 2 * 3.5 = 7.0\ncalc> "), Equals, true, Commentf("%s", got))
}

func (s *ReplSuite) TestHistorySize(c *C) {
	s.cfg.HistorySize = 2
	got := s.run(c, "1+1\n2+2\n3+3\nhistory\n")
	c.Check(strings.Contains(got, "calc> 2: 2+2 = 4\n3: 3+3 = 6\ncalc> "), Equals, true, Commentf("%s", got))
}

func (s *ReplSuite) TestPrompt(c *C) {
	s.cfg.Prompt = "> "
	got := s.run(c, "pi\n")
	c.Check(got, Equals, banner+"\n> 3.141592653589793\n> \nGoodbye\n")
}

func (s *ReplSuite) TestEcho(c *C) {
	s.cfg.Echo = true
	got := s.run(c, "(1+2)*-3\n")
	c.Check(strings.Contains(got, "calc> (1 + 2) * -3 : -9\n"), Equals, true, Commentf("%s", got))
}

func (s *ReplSuite) TestLimits(c *C) {
	s.cfg.MaxIntBits = 64
	s.cfg.MaxArgs = 2
	got := s.run(c, "2**64\nhypot(1, 2, 3)\n2**63\n")
	c.Check(strings.Contains(got, "Error: integer too large (limit 64 bits)\n"), Equals, true, Commentf("%s", got))
	c.Check(strings.Contains(got, "Error: 14: too many arguments (limit 2)\n"), Equals, true, Commentf("%s", got))
	c.Check(strings.Contains(got, "calc> 9223372036854775808\n"), Equals, true, Commentf("%s", got))
}

func (s *ReplSuite) TestBatch(c *C) {
	sess := newSession(s.out, s.cfg)
	ok, err := sess.batch(strings.NewReader("1 + 1\n\n# comment\n1/0\n  round(2.5)  \n"))
	c.Assert(err, IsNil)
	c.Check(ok, Equals, false)
	c.Check(s.out.String(), Equals, "2\nError: division by zero\n2\n")
	c.Check(sess.history, HasLen, 2)
}

func (s *ReplSuite) TestBatchOK(c *C) {
	ok, err := newSession(s.out, s.cfg).batch(strings.NewReader("sqrt(16)\nabs(-3)\n"))
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
	c.Check(s.out.String(), Equals, "4.0\n3\n")
}

func (s *ReplSuite) TestFile(c *C) {
	name := filepath.Join(c.MkDir(), "exprs.txt")
	c.Assert(os.WriteFile(name, []byte("2**10\n# skipped\nlog10(1000)\n"), 0o644), IsNil)
	ok, err := newSession(s.out, s.cfg).file(name)
	c.Assert(err, IsNil)
	c.Check(ok, Equals, true)
	c.Check(s.out.String(), Equals, "1024\n3.0\n")
}

func (s *ReplSuite) TestFileMissing(c *C) {
	ok, err := newSession(s.out, s.cfg).file(filepath.Join(c.MkDir(), "missing.txt"))
	c.Check(ok, Equals, false)
	c.Check(err, ErrorMatches, "input: .*")
}
