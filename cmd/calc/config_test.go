package main

import (
	"os"
	"path/filepath"
	"strings"

	. "gopkg.in/check.v1"
)

type ConfigSuite struct{}

var _ = Suite(&ConfigSuite{})

func (s *ConfigSuite) TestDefaults(c *C) {
	cfg, err := loadConfig("")
	c.Assert(err, IsNil)
	c.Check(*cfg, Equals, *defaultConfig())
	c.Check(cfg.Prompt, Equals, "calc> ")
	c.Check(cfg.validate(), IsNil)
}

func (s *ConfigSuite) TestEmpty(c *C) {
	cfg, err := decodeConfig(strings.NewReader(""))
	c.Assert(err, IsNil)
	c.Check(*cfg, Equals, *defaultConfig())
}

func (s *ConfigSuite) TestDecode(c *C) {
	src := "max_depth: 10\nmax_int_bits: 0\nprompt: '>>> '\necho: true\nhistory_size: 5\n"
	cfg, err := decodeConfig(strings.NewReader(src))
	c.Assert(err, IsNil)
	want := defaultConfig()
	want.MaxDepth = 10
	want.MaxIntBits = 0
	want.Prompt = ">>> "
	want.Echo = true
	want.HistorySize = 5
	c.Check(*cfg, Equals, *want)
}

func (s *ConfigSuite) TestUnknownField(c *C) {
	_, err := decodeConfig(strings.NewReader("depth: 3\n"))
	c.Check(err, ErrorMatches, "(?s).*field depth not found.*")
}

func (s *ConfigSuite) TestBadValue(c *C) {
	_, err := decodeConfig(strings.NewReader("max_args: lots\n"))
	c.Check(err, NotNil)
}

func (s *ConfigSuite) TestValidate(c *C) {
	cfg, err := decodeConfig(strings.NewReader("history_size: -1\n"))
	c.Assert(err, IsNil)
	c.Check(cfg.validate(), ErrorMatches, `history size \(-1\) must not be negative`)
}

func (s *ConfigSuite) TestLoadFile(c *C) {
	name := filepath.Join(c.MkDir(), "calc.yaml")
	err := os.WriteFile(name, []byte("max_args: 3\n"), 0o644)
	c.Assert(err, IsNil)
	cfg, err := loadConfig(name)
	c.Assert(err, IsNil)
	c.Check(cfg.MaxArgs, Equals, 3)
	c.Check(cfg.MaxDepth, Equals, defaultConfig().MaxDepth)
}

func (s *ConfigSuite) TestLoadErrors(c *C) {
	dir := c.MkDir()
	_, err := loadConfig(filepath.Join(dir, "missing.yaml"))
	c.Check(err, ErrorMatches, "config: .*")

	name := filepath.Join(dir, "bad.yaml")
	c.Assert(os.WriteFile(name, []byte("prompt: [\n"), 0o644), IsNil)
	_, err = loadConfig(name)
	c.Check(err, ErrorMatches, "(?s)config: .*bad.yaml: .*")
}

func (s *ConfigSuite) TestOptions(c *C) {
	cfg := defaultConfig()
	cfg.MaxDepth = 3
	sess := newSession(new(strings.Builder), cfg)
	c.Check(sess.eval("((1))"), Equals, true)
	c.Check(sess.eval("(((1)))"), Equals, false)
	c.Check(sess.out.(*strings.Builder).String(), Matches, "(?s)1\nError: .*nested too deeply \\(limit 3\\)\n")
}
