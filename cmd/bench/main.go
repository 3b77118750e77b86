package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	"github.com/arcsignal/reactor/reactor"
	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "bench",
		Usage: "benchmark the reactor propagation engine",
		Commands: []*cli.Command{
			{
				Name:   "micro",
				Usage:  "width x height grid propagation cost, profiled",
				Action: runMicro,
			},
			{
				Name:   "topology",
				Usage:  "layered dependency graph throughput under several topologies",
				Action: runTopology,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	widths  = []int{1, 10, 100, 1_000}
	heights = []int{1, 10, 100, 1_000}
	iters   = 100
)

// configFingerprint gives every benchmark row a short, stable label
// derived from its shape, so rows of the same shape from two runs can
// be matched by hash.
func configFingerprint(w, h, iters int) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%d:%d:%d", w, h, iters))
}

func runMicro(ctx context.Context, cmd *cli.Command) error {
	f, err := os.Create("default.pgo")
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		return err
	}
	defer pprof.StopCPUProfile()

	tbl := table.NewWriter()
	tbl.SetTitle("reactor propagate")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "fingerprint", "avg", "min", "p75", "p99", "max"})

	for _, w := range widths {
		for _, h := range heights {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			sys := reactor.New()
			src := reactor.MakeSignal(sys, 1)
			for i := 0; i < w; i++ {
				last := reactor.MakeComputed(sys, func() (int, error) {
					return src.Get() + 1, nil
				})
				for j := 1; j < h; j++ {
					prev := last
					last = reactor.MakeComputed(sys, func() (int, error) {
						v, err := prev.Get()
						return v + 1, err
					})
				}
				final := last
				if _, err := reactor.MakeEffect(sys, func() (func(), error) {
					_, err := final.Get()
					return nil, err
				}); err != nil {
					return err
				}
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				if err := src.Set(src.Peek() + 1); err != nil {
					return err
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					fmt.Sprintf("%x", configFingerprint(w, h, iters)),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	return nil
}

type topologyConfig struct {
	name           string
	width          int64
	totalLayers    int64
	staticFraction float64
	nSources       int64
	readFraction   float64
	iterations     int64
}

func runTopology(ctx context.Context, cmd *cli.Command) error {
	cfgs := []topologyConfig{
		{name: "simple component", width: 10, totalLayers: 5, staticFraction: 1, nSources: 2, readFraction: 0.2, iterations: 60_000},
		{name: "dynamic component", width: 10, totalLayers: 10, staticFraction: 0.75, nSources: 6, readFraction: 0.2, iterations: 5_000},
		{name: "large web app", width: 1_000, totalLayers: 12, staticFraction: 0.95, nSources: 4, readFraction: 1, iterations: 1_000},
		{name: "wide dense", width: 1_000, totalLayers: 5, staticFraction: 1, nSources: 25, readFraction: 1, iterations: 500},
		{name: "deep", width: 5, totalLayers: 200, staticFraction: 1, nSources: 3, readFraction: 1, iterations: 200},
	}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"fingerprint", "test", "size", "nSources", "read%", "static%", "nTimes", "time", "updateRate"})

	for _, cfg := range cfgs {
		sum, count, duration, err := runTopologyOnce(cfg)
		if err != nil {
			return err
		}
		updateRate := float64(count) / (float64(duration) / float64(time.Millisecond))

		tbl.Append([]string{
			fmt.Sprintf("%x", configFingerprint(int(cfg.width), int(cfg.totalLayers), int(cfg.iterations))),
			cfg.name,
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			fmt.Sprint(cfg.readFraction),
			fmt.Sprint(cfg.staticFraction),
			humanize.Comma(cfg.iterations),
			fmt.Sprint(duration),
			humanize.Comma(int64(updateRate)) + fmt.Sprintf(" (sum=%d)", sum),
		})
	}

	tbl.Render()
	return nil
}

// readable lets runTopologyOnce treat a row of Signals (layer 0) and a
// row of Computeds (every later layer) through the same slice type.
type readable interface {
	read() (int, error)
}

type signalReadable struct{ s reactor.Signal[int] }

func (r signalReadable) read() (int, error) { return r.s.Get(), nil }

type computedReadable struct{ c reactor.Computed[int] }

func (r computedReadable) read() (int, error) { return r.c.Get() }

// runTopologyOnce builds a width x totalLayers graph of computeds over
// nSources neighbouring parents each, a randomly chosen staticFraction of which always
// read every parent and the rest of which conditionally skip one
// (exercising dynamic dependency tracking), then drives it iterations
// times and reads back a readFraction-sized sample of the leaf layer.
func runTopologyOnce(cfg topologyConfig) (sum int, count int64, duration time.Duration, err error) {
	sys := reactor.New()

	sources := make([]reactor.Signal[int], cfg.width)
	prevRow := make([]readable, cfg.width)
	for i := range sources {
		sources[i] = reactor.MakeSignal(sys, i)
		prevRow[i] = signalReadable{s: sources[i]}
	}

	random := rand.New(rand.NewSource(0))
	var leaves []readable

	for layer := int64(1); layer < cfg.totalLayers; layer++ {
		row := make([]readable, len(prevRow))
		fixedPrev := prevRow
		for i := range fixedPrev {
			idx := i
			isStatic := random.Float64() < cfg.staticFraction
			nSources := cfg.nSources
			if isStatic {
				c := reactor.MakeComputed(sys, func() (int, error) {
					count++
					total := 0
					for k := int64(0); k < nSources; k++ {
						total += mustRead(fixedPrev[(idx+int(k))%len(fixedPrev)])
					}
					return total, nil
				})
				row[idx] = computedReadable{c: c}
			} else {
				c := reactor.MakeComputed(sys, func() (int, error) {
					count++
					first := mustRead(fixedPrev[idx%len(fixedPrev)])
					shouldDrop := first&1 > 0
					total := first
					for k := int64(1); k < nSources; k++ {
						if shouldDrop && k == 1 {
							continue
						}
						total += mustRead(fixedPrev[(idx+int(k))%len(fixedPrev)])
					}
					return total, nil
				})
				row[idx] = computedReadable{c: c}
			}
		}
		if layer == cfg.totalLayers-1 {
			leaves = row
		}
		prevRow = row
	}

	skipCount := int(math.Round(float64(len(leaves)) * (1 - cfg.readFraction)))
	readLeaves := leaves
	if skipCount > 0 && skipCount < len(leaves) {
		readLeaves = leaves[:len(leaves)-skipCount]
	}

	start := time.Now()
	for i := int64(0); i < cfg.iterations; i++ {
		idx := int(i) % len(sources)
		if err := sources[idx].Set(int(i) + idx); err != nil {
			return 0, 0, 0, err
		}
		for _, leaf := range readLeaves {
			if _, err := leaf.read(); err != nil {
				return 0, 0, 0, err
			}
		}
	}
	duration = time.Since(start)

	for _, leaf := range readLeaves {
		v, err := leaf.read()
		if err != nil {
			return 0, 0, 0, err
		}
		sum += v
	}
	return sum, count, duration, nil
}

func mustRead(r readable) int {
	v, _ := r.read()
	return v
}
