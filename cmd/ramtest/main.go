package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/cornelk/hashmap"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/g-m-twostay/go-bset/BSet"
	"github.com/g-m-twostay/go-bset/log"
	"github.com/google/btree"
	"github.com/petar/GoLLRB/llrb"
	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

// contender builds a set from vs and returns its membership test. The test keeps the set reachable.
type contender struct {
	name  string
	build func(vs []int64) (has func(int64) bool, capacity uint)
}

func bsetContender(cfg BSet.Config) contender {
	return contender{"bset", func(vs []int64) (func(int64) bool, uint) {
		u, err := BSet.New(cfg)
		if err != nil {
			panic(err)
		}
		for _, v := range vs {
			_ = u.Add(BSet.IntValue(v))
		}
		return func(v int64) bool { return u.Contains(BSet.IntValue(v)) }, u.Capacity()
	}}
}

var contenders = []contender{
	{"map", func(vs []int64) (func(int64) bool, uint) {
		m := make(map[int64]struct{})
		for _, v := range vs {
			m[v] = struct{}{}
		}
		return func(v int64) bool {
			_, ok := m[v]
			return ok
		}, 0
	}},
	{"haxmap", func(vs []int64) (func(int64) bool, uint) {
		m := haxmap.New[int64, struct{}]()
		for _, v := range vs {
			m.Set(v, struct{}{})
		}
		return func(v int64) bool {
			_, ok := m.Get(v)
			return ok
		}, 0
	}},
	{"cornelk", func(vs []int64) (func(int64) bool, uint) {
		m := hashmap.New[int64, struct{}]()
		for _, v := range vs {
			m.Set(v, struct{}{})
		}
		return func(v int64) bool {
			_, ok := m.Get(v)
			return ok
		}, 0
	}},
	{"xsync", func(vs []int64) (func(int64) bool, uint) {
		m := xsync.NewMapOf[int64, struct{}]()
		for _, v := range vs {
			m.Store(v, struct{}{})
		}
		return func(v int64) bool {
			_, ok := m.Load(v)
			return ok
		}, 0
	}},
	{"gods", func(vs []int64) (func(int64) bool, uint) {
		s := hashset.New()
		for _, v := range vs {
			s.Add(v)
		}
		return func(v int64) bool { return s.Contains(v) }, 0
	}},
	{"btree", func(vs []int64) (func(int64) bool, uint) {
		t := btree.NewOrderedG[int64](32)
		for _, v := range vs {
			t.ReplaceOrInsert(v)
		}
		return t.Has, 0
	}},
	{"llrb", func(vs []int64) (func(int64) bool, uint) {
		t := llrb.New()
		for _, v := range vs {
			t.ReplaceOrInsert(llrb.Int(v))
		}
		return func(v int64) bool { return t.Has(llrb.Int(v)) }, 0
	}},
}

type result struct {
	build    time.Duration
	lookup   time.Duration
	heap     uint64
	capacity uint
}

func heapInUse() uint64 {
	runtime.GC()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return ms.HeapAlloc
}

func measure(c contender, vs, probes []int64, rounds int) (r result) {
	before := heapInUse()
	t0 := time.Now()
	has, capacity := c.build(vs)
	r.build = time.Since(t0)
	if after := heapInUse(); after > before {
		r.heap = after - before
	}
	r.capacity = capacity
	t0 = time.Now()
	for range rounds {
		for _, v := range probes {
			if !has(v) {
				panic(fmt.Sprintf("%s lost %d", c.name, v))
			}
		}
	}
	r.lookup = time.Since(t0)
	runtime.KeepAlive(has)
	return
}

func ratio(a, b float64) string {
	if b == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", a/b)
}

func main() {
	var (
		cfgPath  = flag.String("config", "", "BSet TOML config")
		table    = flag.String("table", "", "numeric table engine, chain or probe; overrides the config")
		minExp   = flag.Int("min", 3, "smallest run has 10^min items")
		maxExp   = flag.Int("max", 7, "largest run has 10^max items")
		nProbes  = flag.Int("lookups", 100, "distinct members looked up")
		rounds   = flag.Int("rounds", 1000, "times each member is looked up")
		seed     = flag.Int64("seed", 1, "random seed")
		only     = flag.Bool("bset-only", false, "skip everything but the native map baseline")
		logLevel = flag.String("log", "info", "log level")
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
	if *table != "" {
		cfg.IntTable = *table
	}
	cfg.Logger = logger
	cs := []contender{bsetContender(cfg), contenders[0]}
	if !*only {
		cs = append(cs, contenders[1:]...)
	}

	r := rand.New(rand.NewSource(*seed))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "items\tset\tbuild\tlookup slow\tmem ratio\tcapacity\tfill\t")
	for exp := *minExp; exp <= *maxExp; exp++ {
		n := int(math.Pow10(exp))
		vs := make([]int64, n)
		for i := range vs {
			vs[i] = r.Int63()
		}
		probes := vs[:min(*nProbes, n)]
		logger.Info("run", zap.Int("items", n), zap.String("int-table", cfg.IntTable))

		base := measure(cs[1], vs, probes, *rounds)
		for _, c := range cs {
			res := base
			if c.name != "map" {
				res = measure(c, vs, probes, *rounds)
			}
			fill := "-"
			if res.capacity > 0 {
				fill = fmt.Sprintf("%.3f", float64(n)/float64(res.capacity))
			}
			fmt.Fprintf(w, "%d\t%s\t%v\t%s\t%s\t%d\t%s\t\n", n, c.name, res.build.Round(time.Microsecond),
				ratio(float64(res.lookup), float64(base.lookup)), ratio(float64(base.heap), float64(res.heap)),
				res.capacity, fill)
		}
		w.Flush()
	}
}
