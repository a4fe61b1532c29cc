package metrics

import (
	"github.com/communityshield/dispatch/core/dispatch/logging"
	"github.com/communityshield/dispatch/core/factory"
	coremetrics "github.com/communityshield/dispatch/core/metrics"
)

// RegisterBuiltinSinks wires the built-in sink factories into the core
// registry. app calls it once at startup.
func RegisterBuiltinSinks() error {
	if err := coremetrics.RegisterSink("nop", func(map[string]any) (coremetrics.Sink, error) {
		return coremetrics.NopSink{}, nil
	}); err != nil {
		return err
	}
	if err := coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.Sink, error) {
		return NewPromSink()
	}); err != nil {
		return err
	}
	if err := coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.Sink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	}); err != nil {
		return err
	}
	return coremetrics.RegisterSink("jsonl", func(conf map[string]any) (coremetrics.Sink, error) {
		store, err := openJournal(conf)
		if err != nil {
			return nil, err
		}
		return NewJournalSink(store), nil
	})
}

func openJournal(conf map[string]any) (logging.LogStore, error) {
	var c JournalConfig
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	if c.Path == "" {
		c.Path = "dispatch.log"
	}
	return logging.NewJSONLStore(c.Path)
}

// JournalStore opens a read handle on the journal named in the sink list.
// The boolean result is false when no jsonl sink is configured.
func JournalStore(sinks []factory.ModuleConfig) (logging.LogStore, bool, error) {
	for _, m := range sinks {
		if m.Type != "jsonl" {
			continue
		}
		store, err := openJournal(m.Conf)
		if err != nil {
			return nil, false, err
		}
		return store, true, nil
	}
	return nil, false, nil
}
