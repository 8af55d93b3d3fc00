package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	domainchat "thriftee/internal/domain/chat"
	domainitems "thriftee/internal/domain/items"
	domainrequests "thriftee/internal/domain/requests"
)

// Topics derives the event topic names from a shared prefix.
type Topics struct {
	Prefix string
}

func (t Topics) ItemCreated() string    { return t.Prefix + ".item.created" }
func (t Topics) ItemSold() string       { return t.Prefix + ".item.sold" }
func (t Topics) ItemDeleted() string    { return t.Prefix + ".item.deleted" }
func (t Topics) RequestCreated() string { return t.Prefix + ".request.created" }
func (t Topics) ChatMessage() string    { return t.Prefix + ".chat.message" }

// EventPublisher fans domain events out to Kafka. Publish failures are
// logged, never surfaced: the write that triggered the event already
// committed.
type EventPublisher struct {
	Producer *Producer
	Topics   Topics
	Logger   *slog.Logger
}

type itemEvent struct {
	ItemID   string `json:"item_id"`
	SellerID string `json:"seller_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Price    int64  `json:"price,omitempty"`
	City     string `json:"city,omitempty"`
	At       int64  `json:"at"`
}

type requestEvent struct {
	RequestID string `json:"request_id"`
	BuyerID   string `json:"buyer_id"`
	Title     string `json:"title"`
	Budget    int64  `json:"budget"`
	City      string `json:"city"`
	At        int64  `json:"at"`
}

// ChatMessageEvent is the wire payload relayed to websocket subscribers.
type ChatMessageEvent struct {
	MessageID string `json:"message_id"`
	RoomID    string `json:"room_id"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	At        int64  `json:"at"`
}

func (p *EventPublisher) ItemCreated(ctx context.Context, item *domainitems.Item) {
	p.publish(ctx, p.Topics.ItemCreated(), string(item.ID), itemEvent{
		ItemID:   string(item.ID),
		SellerID: item.SellerID,
		Name:     item.Name,
		Price:    item.Price,
		City:     item.City,
		At:       item.CreatedAt.UnixMilli(),
	})
}

func (p *EventPublisher) ItemSold(ctx context.Context, item *domainitems.Item) {
	p.publish(ctx, p.Topics.ItemSold(), string(item.ID), itemEvent{
		ItemID:   string(item.ID),
		SellerID: item.SellerID,
		At:       time.Now().UnixMilli(),
	})
}

func (p *EventPublisher) ItemDeleted(ctx context.Context, id domainitems.ID) {
	p.publish(ctx, p.Topics.ItemDeleted(), string(id), itemEvent{
		ItemID: string(id),
		At:     time.Now().UnixMilli(),
	})
}

func (p *EventPublisher) RequestCreated(ctx context.Context, request *domainrequests.Request) {
	p.publish(ctx, p.Topics.RequestCreated(), string(request.ID), requestEvent{
		RequestID: string(request.ID),
		BuyerID:   request.BuyerID,
		Title:     request.Title,
		Budget:    request.Budget,
		City:      request.City,
		At:        request.CreatedAt.UnixMilli(),
	})
}

func (p *EventPublisher) MessageSent(ctx context.Context, message *domainchat.Message) {
	p.publish(ctx, p.Topics.ChatMessage(), string(message.RoomID), ChatMessageEvent{
		MessageID: message.ID,
		RoomID:    string(message.RoomID),
		SenderID:  message.SenderID,
		Content:   message.Content,
		At:        message.CreatedAt.UnixMilli(),
	})
}

func (p *EventPublisher) publish(ctx context.Context, topic, key string, payload any) {
	if p.Producer == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		p.logError(topic, err)
		return
	}
	if err := p.Producer.Publish(ctx, topic, key, body); err != nil {
		p.logError(topic, err)
	}
}

func (p *EventPublisher) logError(topic string, err error) {
	if p.Logger != nil {
		p.Logger.Error("event publish failed", "topic", topic, "error", err)
	}
}

// ChatFanout subscribes to the chat message topic and relays payloads to a
// local broadcaster, typically the websocket hub.
type ChatFanout struct {
	Broadcast func(roomID string, payload []byte)
	Logger    *slog.Logger
}

func (f ChatFanout) Handle(_ context.Context, msg *sarama.ConsumerMessage) error {
	var event ChatMessageEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		if f.Logger != nil {
			f.Logger.Warn("chat event decode failed", "topic", msg.Topic, "error", err)
		}
		// malformed payloads are dropped, not retried
		return nil
	}
	if f.Broadcast != nil {
		f.Broadcast(event.RoomID, msg.Value)
	}
	return nil
}
