package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playpool/kolkhoz/internal/store"
	"github.com/redis/go-redis/v9"
)

// TableEventsChannel carries table updates between server instances
const TableEventsChannel = "table_events"

// RedisPublisher publishes table updates to Redis instead of the local hub.
// Every instance, this one included, relays them through
// StartTableEventSubscriber.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(update store.Update) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("[REDIS] error marshaling update for table %s: %v", update.TableID, err)
		return
	}
	if err := p.rdb.Publish(context.Background(), TableEventsChannel, data).Err(); err != nil {
		log.Printf("[REDIS] publish failed for table %s: %v", update.TableID, err)
	}
}

type eventEnvelope struct {
	Type    string `json:"type"`
	TableID string `json:"table_id"`
	Action  string `json:"action"`
}

// relayPayload routes one raw channel payload to the table's watchers
func relayPayload(hub *Hub, payload string) {
	var env eventEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Printf("[WS] invalid table event payload: %v", err)
		return
	}
	if env.TableID == "" {
		log.Printf("[WS] table event without table_id (type=%s)", env.Type)
		return
	}

	switch env.Type {
	case store.UpdateTableState:
		hub.BroadcastRaw(env.TableID, []byte(payload))
	default:
		log.Printf("[WS] unknown table event type: %s", env.Type)
	}
}

// StartTableEventSubscriber relays the table_events channel into hub
func StartTableEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; table event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, TableEventsChannel)
	ch := pubsub.Channel()
	go func() {
		<-ctx.Done()
		pubsub.Close()
	}()
	go func() {
		log.Printf("[WS] %s subscriber started", TableEventsChannel)
		for msg := range ch {
			relayPayload(hub, msg.Payload)
		}
		log.Printf("[WS] %s subscriber stopped", TableEventsChannel)
	}()
}
