// Package jetstream connects the watchdog to the NATS JetStream heartbeat stream
// and exposes its durable pull consumer as a heartbeat.Source.
package jetstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/config"
	"github.com/openshift-online/watchdog/pkg/heartbeat"
	"github.com/openshift-online/watchdog/pkg/logger"
)

// drainTimeout bounds how long Close waits for pending acks to be flushed.
const drainTimeout = 10 * time.Second

var _ heartbeat.Source = &Client{}

type Client struct {
	config *config.MessageBrokerConfig
	log    *zap.SugaredLogger

	// closed is closed by the connection's ClosedHandler
	closed   chan struct{}
	conn     *nats.Conn
	js       jetstream.JetStream
	consumer jetstream.Consumer
}

// NewClient connects to the NATS server. The connection reconnects on its own,
// only the first dial failure is returned.
func NewClient(cfg *config.MessageBrokerConfig) (*Client, error) {
	log := logger.Named("jetstream")
	closed := make(chan struct{})

	opts := []nats.Option{
		nats.Name(cfg.ClientName),
		nats.Timeout(cfg.ConnectTimeout),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warnf("disconnected from nats: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("reconnected to nats %s", nc.ConnectedUrlRedacted())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			close(closed)
		}),
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to create jetstream context: %w", err)
	}
	log.Infof("connected to nats %s", conn.ConnectedUrlRedacted())

	return &Client{
		config: cfg,
		log:    log,
		closed: closed,
		conn:   conn,
		js:     js,
	}, nil
}

// EnsureStream creates the heartbeat stream when it does not exist yet.
// An existing stream is used as is.
func (c *Client) EnsureStream(ctx context.Context) error {
	_, err := c.js.Stream(ctx, c.config.StreamName)
	if err == nil {
		c.log.Debugf("stream %s already exists", c.config.StreamName)
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("unable to look up stream %s: %w", c.config.StreamName, err)
	}

	_, err = c.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:      c.config.StreamName,
		Subjects:  []string{c.config.FilterSubject()},
		MaxAge:    c.config.StreamMaxAge,
		Retention: jetstream.LimitsPolicy,
		Storage:   jetstream.FileStorage,
	})
	// another replica may have created it first
	if errors.Is(err, jetstream.ErrStreamNameAlreadyInUse) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("unable to create stream %s: %w", c.config.StreamName, err)
	}
	c.log.Infof("created stream %s for subjects %s", c.config.StreamName, c.config.FilterSubject())
	return nil
}

// EnsureConsumer binds the client to the durable pull consumer, creating it when absent.
// EnsureStream must have succeeded before.
func (c *Client) EnsureConsumer(ctx context.Context) error {
	stream, err := c.js.Stream(ctx, c.config.StreamName)
	if err != nil {
		return fmt.Errorf("unable to look up stream %s: %w", c.config.StreamName, err)
	}

	consumer, err := stream.Consumer(ctx, c.config.DurableName)
	if err != nil {
		if !errors.Is(err, jetstream.ErrConsumerNotFound) {
			return fmt.Errorf("unable to look up consumer %s: %w", c.config.DurableName, err)
		}
		consumer, err = stream.CreateConsumer(ctx, jetstream.ConsumerConfig{
			Durable:       c.config.DurableName,
			AckPolicy:     jetstream.AckExplicitPolicy,
			FilterSubject: c.config.FilterSubject(),
			AckWait:       c.config.AckWait,
			MaxDeliver:    c.config.MaxDeliver,
		})
		if err != nil {
			return fmt.Errorf("unable to create consumer %s: %w", c.config.DurableName, err)
		}
		c.log.Infof("created durable consumer %s on stream %s", c.config.DurableName, c.config.StreamName)
	}

	c.consumer = consumer
	return nil
}

// Fetch pulls up to batch messages, waiting at most maxWait. An empty batch is not an error.
func (c *Client) Fetch(ctx context.Context, batch int, maxWait time.Duration) ([]heartbeat.Message, error) {
	if c.consumer == nil {
		return nil, fmt.Errorf("consumer %s is not bound", c.config.DurableName)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := c.consumer.Fetch(batch, jetstream.FetchMaxWait(maxWait))
	if err != nil {
		return nil, fmt.Errorf("unable to fetch from %s: %w", c.config.DurableName, err)
	}

	msgs := make([]heartbeat.Message, 0, batch)
	for msg := range b.Messages() {
		msgs = append(msgs, &message{Msg: msg})
	}
	if err := b.Error(); err != nil && !errors.Is(err, nats.ErrTimeout) {
		// keep what was received, it is handled and acked normally
		if len(msgs) == 0 {
			return nil, fmt.Errorf("unable to fetch from %s: %w", c.config.DurableName, err)
		}
		c.log.Warnf("fetch from %s ended early: %v", c.config.DurableName, err)
	}
	return msgs, nil
}

// Connected reports whether the NATS connection is currently up.
func (c *Client) Connected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Publish sends one heartbeat on <prefix>.<name> and waits for the stream to store it.
func (c *Client) Publish(ctx context.Context, hb *api.Heartbeat) error {
	data, err := heartbeat.Encode(hb)
	if err != nil {
		return fmt.Errorf("unable to encode heartbeat of %s: %w", hb.Name, err)
	}
	subject := c.config.HeartbeatSubject(hb.Name)
	ack, err := c.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("unable to publish heartbeat on %s: %w", subject, err)
	}
	c.log.Debugf("published heartbeat on %s, stream %s sequence %d", subject, ack.Stream, ack.Sequence)
	return nil
}

// Close drains the connection and returns once it is closed, so pending acks are
// flushed before the process exits. It gives up after drainTimeout.
func (c *Client) Close() {
	if c.conn == nil || c.conn.IsClosed() {
		return
	}
	if !c.conn.IsDraining() {
		if err := c.conn.Drain(); err != nil {
			c.log.Errorf("unable to drain nats connection: %v", err)
			c.conn.Close()
			return
		}
	}
	if !c.awaitClosed(drainTimeout) {
		c.log.Warnf("nats connection not drained after %s, closing", drainTimeout)
		c.conn.Close()
	}
}

func (c *Client) awaitClosed(timeout time.Duration) bool {
	if c.closed == nil {
		return true
	}
	select {
	case <-c.closed:
		return true
	case <-time.After(timeout):
		return false
	}
}

// message adds the delivery count of the JetStream metadata to a jetstream.Msg.
type message struct {
	jetstream.Msg
}

func (m *message) NumDelivered() uint64 {
	meta, err := m.Metadata()
	if err != nil {
		return 0
	}
	return meta.NumDelivered
}
