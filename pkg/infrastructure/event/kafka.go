package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/common/domain"
)

// KafkaDispatcher publishes domain events for downstream consumers such as
// sales analytics. Dispatch failures are reported to the caller but callers
// treat dispatch as best-effort.
type KafkaDispatcher struct {
	writer *kafkago.Writer
}

func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkago.LeastBytes{},
		},
	}
}

func (d *KafkaDispatcher) Dispatch(e domain.Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = d.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(e.Type()),
		Value: value,
		Time:  time.Now(),
	})
	return errors.Wrap(err, "publish event")
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
