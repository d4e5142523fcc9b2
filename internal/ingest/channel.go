package ingest

import (
	"context"

	"github.com/LinkHawk/LinkHawk/internal/bus"
)

// ChannelSource feeds the bus from an in-process Go channel of raw event
// payloads. It shares the decode path with KafkaSource and stands in for it
// when no broker is available.
type ChannelSource struct {
	in  <-chan []byte
	bus *bus.EventBus
}

// NewChannelSource creates a source reading payloads from in.
func NewChannelSource(in <-chan []byte, eventBus *bus.EventBus) *ChannelSource {
	return &ChannelSource{in: in, bus: eventBus}
}

// Start consumes payloads until ctx is cancelled or in is closed. Payloads
// that fail to decode are dropped.
func (s *ChannelSource) Start(ctx context.Context) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case value, ok := <-s.in:
				if !ok {
					return
				}
				ev, err := decodeEvent(value)
				if err != nil {
					continue
				}
				s.bus.PublishInbound(ev)
			}
		}
	}()
	return nil
}
