package queue

import (
	"context"
	"encoding/json"
	"time"

	errwrap "github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const routingKeyRefreshed = "report.refreshed"

// ReportEvent is the summary published after each completed report refresh
// so downstream consumers (alerting, dashboards) can react without polling.
type ReportEvent struct {
	ConnectionID        int64     `json:"connection_id"`
	TotalQueryCount     int64     `json:"total_query_count"`
	RejectedRecordCount int       `json:"rejected_record_count"`
	WindowStart         time.Time `json:"window_start"`
	WindowEnd           time.Time `json:"window_end"`
	RefreshedAt         time.Time `json:"refreshed_at"`
}

// Publisher sends report events to an AMQP topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	funcName := "queue.NewPublisher"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errwrap.Wrap(err, funcName)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errwrap.Wrap(err, funcName)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errwrap.Wrap(err, funcName)
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) PublishRefresh(ctx context.Context, ev ReportEvent) error {
	funcName := "Publisher.PublishRefresh"

	body, err := json.Marshal(ev)
	if err != nil {
		return errwrap.Wrap(err, funcName)
	}

	return errwrap.Wrap(p.ch.PublishWithContext(ctx, p.exchange, routingKeyRefreshed, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	}), funcName)
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}
