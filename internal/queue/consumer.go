package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartEventConsumer connects to RabbitMQ, declares the sync.completed
// and penalty.issued queues (durable), and starts consuming both.
// Each message is appended to logs/events.log in a single-line,
// human-friendly format. The function runs a reconnect loop with
// backoff; it keeps running and logs any processing errors while
// rejecting the offending message so the server continues operating.
func StartEventConsumer() error {
	url := brokerURL()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("event-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("event-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("event-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{SyncCompletedQueue, PenaltyIssuedQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	syncMsgs, err := ch.Consume(SyncCompletedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	penaltyMsgs, err := ch.Consume(PenaltyIssuedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case d, ok := <-syncMsgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			handle(d, formatSyncCompleted)
		case d, ok := <-penaltyMsgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			handle(d, formatPenaltyIssued)
		}
	}
}

func handle(d amqp.Delivery, format func([]byte) (string, error)) {
	line, err := format(d.Body)
	if err != nil {
		log.Printf("event-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	if err := appendLogLine(line); err != nil {
		log.Printf("event-consumer: write log failed: %v", err)
		_ = d.Nack(false, true) // requeue, the disk may recover
		return
	}
	_ = d.Ack(false)
}

func formatSyncCompleted(body []byte) (string, error) {
	var ev SyncCompletedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", fmt.Errorf("decode sync event: %w", err)
	}
	return fmt.Sprintf("[%s] sync %s status=%s updated=%d ids=%s by=%s",
		ev.Timestamp, ev.Source, ev.Status, ev.MoviesUpdated,
		strings.Join(ev.MovieIDs, ","), ev.TriggeredBy), nil
}

func formatPenaltyIssued(body []byte) (string, error) {
	var ev PenaltyIssuedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", fmt.Errorf("decode penalty event: %w", err)
	}
	return fmt.Sprintf("[%s] penalty %s user=%s by=%s reason=%q",
		ev.IssuedAt, ev.PenaltyID, ev.UserID, ev.IssuedBy, ev.Reason), nil
}

func appendLogLine(line string) error {
	dir := "logs"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "events.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, line)
	return err
}
