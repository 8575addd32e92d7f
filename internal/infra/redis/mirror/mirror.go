package infra_redis_mirror

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/scrumpoker/internal/model"
)

// Driver republishes room broadcasts on redis pub/sub, one channel per room.
// Publish never blocks; a full queue drops the event.
type Driver struct {
	client *redis.Client
	prefix string
	queue  chan message

	logger *slog.Logger
}

type message struct {
	channel string
	payload []byte
}

type envelopeDTO struct {
	Room    model.RoomCode  `json:"room"`
	Type    model.EventType `json:"type"`
	Payload any             `json:"payload"`
	At      time.Time       `json:"at"`
}

func New(
	client *redis.Client,
	prefix string,
	buffer int,
) *Driver {
	return &Driver{
		client: client,
		prefix: prefix,
		queue:  make(chan message, buffer),
		logger: slog.Default(),
	}
}

func (d *Driver) Channel(code model.RoomCode) string {
	if d.prefix != "" {
		return d.prefix + ":room:" + string(code)
	}
	return "room:" + string(code)
}

func (d *Driver) Publish(code model.RoomCode, event model.Event) {
	payload, err := json.Marshal(envelopeDTO{
		Room:    code,
		Type:    event.Type,
		Payload: event.Payload,
		At:      time.Now().UTC(),
	})
	if err != nil {
		d.logger.Error("failed to encode mirrored event", "room", code, "error", err)
		return
	}

	select {
	case d.queue <- message{channel: d.Channel(code), payload: payload}:
	default:
		d.logger.Warn("mirror queue full, dropping event", "room", code, "event", event.Type)
	}
}

// Run publishes queued events until ctx is done, then drains what is left.
func (d *Driver) Run(ctx context.Context) {
	for {
		select {
		case m := <-d.queue:
			d.publish(m)
		case <-ctx.Done():
			for {
				select {
				case m := <-d.queue:
					d.publish(m)
				default:
					return
				}
			}
		}
	}
}

func (d *Driver) publish(m message) {
	if err := d.client.Publish(m.channel, m.payload).Err(); err != nil {
		d.logger.Error("failed to mirror event", "channel", m.channel, "error", err)
	}
}
