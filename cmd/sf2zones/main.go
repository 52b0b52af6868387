// Command sf2zones prints the preset and instrument zones of a SoundFont
// bank that sound for a given key and velocity.
//
//	sf2zones -k 60 -v 100 --format text piano.sf2
package main

import (
	"io"
	"log"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/husafan/soundfont"
	"github.com/husafan/soundfont/internal/config"
	"github.com/husafan/soundfont/internal/report"
)

var traceKeys = []string{"soundfont.sf2", "soundfont.zone"}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("sf2zones: %v", err)
	}
	setupTracing(cfg.Trace, os.Stderr, traceKeys...)

	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("sf2zones: %+v", err)
	}
}

func run(cfg *config.Config, w io.Writer) error {
	f, err := os.Open(cfg.File)
	if err != nil {
		return err
	}
	defer f.Close()

	sf, err := soundfont.Load(f)
	if err != nil {
		return err
	}
	r := report.Build(sf, uint8(cfg.Key), uint8(cfg.Velocity), report.Filter{
		Bank:    cfg.Bank,
		Program: cfg.Program,
	})
	if cfg.Format == "text" {
		return r.WriteText(w)
	}
	return r.WriteYAML(w)
}

// traceSelector hands out one tracer per key; other keys get a no-op tracer.
type traceSelector map[string]tracing.Trace

func (s traceSelector) Select(key string) tracing.Trace {
	if t, ok := s[key]; ok {
		return t
	}
	return tracing.NoOpTrace()
}

// setupTracing routes the named tracers to w through the Go logger at the
// given level ("error", "info" or "debug").
func setupTracing(level string, w io.Writer, keys ...string) {
	sel := make(traceSelector, len(keys))
	for _, key := range keys {
		t := gologadapter.New()
		t.SetOutput(w)
		t.SetTraceLevel(tracing.TraceLevelFromString(level))
		sel[key] = t
	}
	tracing.SetTraceSelector(sel)
}
