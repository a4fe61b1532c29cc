package ingest

import (
	"context"
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/communityshield/dispatch/core/logger"
	"github.com/communityshield/dispatch/core/model"
)

const (
	reportBuffer = 64
	// seenLimit bounds the dedup set; the oldest entries are dropped once
	// the limit is reached.
	seenLimit = 1024
)

// MQTTSource buffers raw reports published on a broker topic. External feeds
// (radio gateways, social media monitors, sensor bridges) publish JSON
// RawReport payloads; the dispatch loop drains them one per cycle.
type MQTTSource struct {
	cli     paho.Client
	topic   string
	log     logger.Logger
	reports chan model.RawReport
	seen    map[string]struct{}
	order   []string
}

// NewMQTTSource subscribes to the report topic on an already-connected
// client. Malformed payloads and duplicate report ids are dropped with a log
// line.
func NewMQTTSource(cli paho.Client, topic string, qos byte, log logger.Logger) (*MQTTSource, error) {
	s := &MQTTSource{
		cli:     cli,
		topic:   topic,
		log:     log,
		reports: make(chan model.RawReport, reportBuffer),
		seen:    make(map[string]struct{}),
	}
	if token := cli.Subscribe(topic, qos, s.handle); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return s, nil
}

func (s *MQTTSource) handle(_ paho.Client, m paho.Message) {
	var raw model.RawReport
	if err := json.Unmarshal(m.Payload(), &raw); err != nil {
		s.log.Errorf("invalid report payload on %s: %v", m.Topic(), err)
		return
	}
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}
	if raw.Timestamp.IsZero() {
		raw.Timestamp = time.Now()
	}
	if s.duplicate(raw.ID) {
		s.log.Debugf("duplicate report %s dropped", raw.ID)
		return
	}
	select {
	case s.reports <- raw:
	default:
		s.log.Warnf("report buffer full, dropping %s", raw.ID)
	}
}

// duplicate records the id and reports whether it was already seen. The
// handler runs on the Paho router goroutine, one message at a time, so no
// extra locking is needed.
func (s *MQTTSource) duplicate(id string) bool {
	if _, ok := s.seen[id]; ok {
		return true
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
	if len(s.order) > seenLimit {
		delete(s.seen, s.order[0])
		s.order = s.order[1:]
	}
	return false
}

// Next blocks until a report arrives or the context is canceled.
func (s *MQTTSource) Next(ctx context.Context) (model.RawReport, error) {
	select {
	case raw := <-s.reports:
		return raw, nil
	case <-ctx.Done():
		return model.RawReport{}, ctx.Err()
	}
}

// TryNext returns a buffered report without blocking.
func (s *MQTTSource) TryNext() (model.RawReport, bool) {
	select {
	case raw := <-s.reports:
		return raw, true
	default:
		return model.RawReport{}, false
	}
}

// Close drops the subscription. The client connection is owned by the
// caller.
func (s *MQTTSource) Close() error {
	token := s.cli.Unsubscribe(s.topic)
	token.Wait()
	return token.Error()
}
