package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/zephyrtronium/calc"
)

func main() {
	log.SetFlags(0)
	var (
		cfgname, inname, prompt string
		depth, args, bits       int
		echo                    bool
	)
	flag.StringVar(&cfgname, "config", "", "YAML configuration file")
	flag.StringVar(&inname, "in", "", "file of expressions to evaluate, one per line (- for stdin)")
	flag.IntVar(&depth, "depth", calc.DefaultMaxDepth, "maximum expression nesting depth (0 for no limit)")
	flag.IntVar(&args, "args", calc.DefaultMaxArgs, "maximum arguments to one function call (0 for no limit)")
	flag.IntVar(&bits, "bits", calc.DefaultMaxIntBits, "maximum size of integer results in bits (0 for no limit)")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.StringVar(&prompt, "prompt", defaultPrompt, "interactive prompt")
	flag.Parse()

	cfg, err := loadConfig(cfgname)
	if err != nil {
		log.Fatal(err)
	}
	// Flags given explicitly override the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "depth":
			cfg.MaxDepth = depth
		case "args":
			cfg.MaxArgs = args
		case "bits":
			cfg.MaxIntBits = bits
		case "echo":
			cfg.Echo = echo
		case "prompt":
			cfg.Prompt = prompt
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatal(err)
	}

	s := newSession(os.Stdout, cfg)
	switch {
	case flag.NArg() > 0:
		if !s.eval(strings.Join(flag.Args(), " ")) {
			os.Exit(1)
		}
	case inname != "":
		ok, err := s.file(inname)
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			os.Exit(1)
		}
	default:
		if err := s.repl(os.Stdin); err != nil {
			log.Fatal(err)
		}
	}
}

// file evaluates each line of the named file, or of stdin if the name is "-".
func (s *session) file(name string) (bool, error) {
	if name == "-" {
		return s.batch(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return false, fmt.Errorf("input: %w", err)
	}
	defer f.Close()
	return s.batch(f)
}
