package messaging

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	brokers []string

	// mu guards writers; handlers publish concurrently and the map is
	// populated lazily on first use of each topic.
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

func (kp *KafkaProducer) getWriter(topic string) *kafka.Writer {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(kp.brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	kp.writers[topic] = writer
	return writer
}

func (kp *KafkaProducer) SendMessage(ctx context.Context, topic, key string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	}

	return kp.getWriter(topic).WriteMessages(ctx, message)
}

func (kp *KafkaProducer) Close() {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	for _, writer := range kp.writers {
		writer.Close()
	}
}

// Event types for async processing
type OrderPlacedEvent struct {
	OrderID     string      `json:"order_id"`
	IdentityKey string      `json:"identity_key"`
	TotalItems  int         `json:"total_items"`
	TotalAmount float64     `json:"total_amount"`
	Lines       []OrderLine `json:"lines"`
}

type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type StockDepletedEvent struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
}
