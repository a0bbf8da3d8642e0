package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/g-m-twostay/go-bset/BSet"
	"github.com/g-m-twostay/go-bset/log"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"go.uber.org/zap"
)

const historyName = ".bset_history"

// parse reads a token as an int, then a float, then a text value. Quoted tokens are always text.
func parse(tok string) BSet.Value {
	if s, err := strconv.Unquote(tok); err == nil {
		return BSet.TextValue(s)
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return BSet.IntValue(i)
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return BSet.FloatValue(f)
	}
	return BSet.TextValue(tok)
}

func kindOf(name string) (BSet.Kind, bool) {
	for k := BSet.Int; k <= BSet.Object; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

type session struct {
	set *BSet.BSet
	out io.Writer
}

const help = `add V...      add values; "quoted" tokens are text
remove V...   remove values
has V...      membership
len           number of members
list          all members
sorted KIND   int or float members in order
mem           estimated bytes
cap           numeric table slots
help          this text
quit          leave`

// exec runs one command line and reports whether the session should continue.
func (s *session) exec(line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return true
	}
	cmd, vals := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "add":
		for _, tok := range vals {
			if err := s.set.Add(parse(tok)); err != nil {
				fmt.Fprintln(s.out, "(error)", err)
			}
		}
		fmt.Fprintln(s.out, "OK")
	case "remove", "rm":
		for _, tok := range vals {
			if err := s.set.Remove(parse(tok)); err != nil {
				fmt.Fprintln(s.out, "(error)", err)
			}
		}
		fmt.Fprintln(s.out, "OK")
	case "has":
		for _, tok := range vals {
			fmt.Fprintln(s.out, s.set.Contains(parse(tok)))
		}
	case "len":
		fmt.Fprintln(s.out, s.set.Len())
	case "list":
		s.set.Range(func(v BSet.Value) bool {
			fmt.Fprintf(s.out, "%s\t%s\n", v.Kind(), v)
			return true
		})
	case "sorted":
		k, ok := BSet.Int, true
		if len(vals) > 0 {
			k, ok = kindOf(vals[0])
		}
		if !ok || (k != BSet.Int && k != BSet.Float) {
			fmt.Fprintln(s.out, "(error) sorted takes int or float")
			return true
		}
		for _, v := range s.set.Sorted(k) {
			fmt.Fprintln(s.out, v)
		}
	case "mem":
		fmt.Fprintln(s.out, s.set.Footprint())
	case "cap":
		fmt.Fprintln(s.out, s.set.Capacity())
	case "help", "?":
		fmt.Fprintln(s.out, help)
	case "quit", "exit":
		return false
	default:
		fmt.Fprintf(s.out, "(error) unknown command '%s'\n", cmd)
	}
	return true
}

func (s *session) pipe(in io.Reader) {
	sc := bufio.NewScanner(in)
	for sc.Scan() && s.exec(sc.Text()) {
	}
}

func (s *session) repl(logger *zap.Logger) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	var history string
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, historyName)
		if f, err := os.Open(history); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	for {
		l, err := line.Prompt("bset> ")
		if err != nil {
			if err != io.EOF && err != liner.ErrPromptAborted {
				logger.Error("prompt", zap.Error(err))
			}
			break
		}
		if strings.TrimSpace(l) != "" {
			line.AppendHistory(l)
		}
		if !s.exec(l) {
			break
		}
	}
	if history != "" {
		if f, err := os.Create(history); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}
}

func main() {
	var (
		cfgPath  = flag.String("config", "", "BSet TOML config")
		logLevel = flag.String("log", "warn", "log level")
		dev      = flag.Bool("dev", false, "development logging")
	)
	flag.Parse()

	logger, err := log.New(*logLevel, *dev)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	cfg := BSet.DefaultConfig()
	if *cfgPath != "" {
		if cfg, err = BSet.LoadConfig(*cfgPath); err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}
	cfg.Logger = logger
	set, err := BSet.New(cfg)
	if err != nil {
		logger.Fatal("create set", zap.Error(err))
	}
	s := &session{set: set, out: os.Stdout}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		s.repl(logger)
	} else {
		s.pipe(os.Stdin)
	}
}
