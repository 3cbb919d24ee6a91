package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/openshift-online/watchdog/pkg/constants"
)

// MessageBrokerConfig configures the NATS JetStream connection, the heartbeat stream, and the
// durable pull consumer the watchdog reads heartbeats from.
type MessageBrokerConfig struct {
	// Disable runs the watchdog without a broker, the state table then only reflects the registry.
	Disable bool `json:"disable"`

	URL          string `json:"url"`
	URLFile      string `json:"url_file"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	UserNameFile string `json:"username_file"`
	PasswordFile string `json:"password_file"`
	ClientName   string `json:"client_name"`

	StreamName     string        `json:"stream_name"`
	SubjectPrefix  string        `json:"subject_prefix"`
	StreamMaxAge   time.Duration `json:"stream_max_age"`
	DurableName    string        `json:"durable_name"`
	AckWait        time.Duration `json:"ack_wait"`
	MaxDeliver     int           `json:"max_deliver"`
	BatchSize      int           `json:"batch_size"`
	FetchMaxWait   time.Duration `json:"fetch_max_wait"`
	PullInterval   time.Duration `json:"pull_interval"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
}

func NewMessageBrokerConfig() *MessageBrokerConfig {
	return &MessageBrokerConfig{
		URL:          "nats://localhost:4222",
		URLFile:      "secrets/nats.url",
		UserNameFile: "secrets/nats.user",
		PasswordFile: "secrets/nats.password",
		ClientName:   "watchdog",

		StreamName:     constants.DefaultStreamName,
		SubjectPrefix:  constants.HeartbeatSubjectPrefix,
		StreamMaxAge:   constants.DefaultStreamMaxAge,
		DurableName:    constants.DefaultDurableName,
		AckWait:        constants.DefaultAckWait,
		MaxDeliver:     constants.DefaultMaxDeliver,
		BatchSize:      constants.PullBatchSize,
		FetchMaxWait:   constants.PullMaxWait,
		PullInterval:   constants.PullInterval,
		ConnectTimeout: 5 * time.Second,
	}
}

func (c *MessageBrokerConfig) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.Disable, "disable-message-broker", c.Disable, "Run without consuming heartbeats from NATS")
	fs.StringVar(&c.URLFile, "nats-url-file", c.URLFile, "NATS server URL file")
	fs.StringVar(&c.UserNameFile, "nats-username-file", c.UserNameFile, "NATS username file")
	fs.StringVar(&c.PasswordFile, "nats-password-file", c.PasswordFile, "NATS password file")
	fs.StringVar(&c.ClientName, "nats-client-name", c.ClientName, "Name the watchdog announces to the NATS server")
	fs.StringVar(&c.StreamName, "heartbeat-stream", c.StreamName, "JetStream stream holding heartbeat messages")
	fs.StringVar(&c.SubjectPrefix, "heartbeat-subject-prefix", c.SubjectPrefix, "Subject namespace of heartbeat messages, senders publish to <prefix>.<sender>")
	fs.DurationVar(&c.StreamMaxAge, "heartbeat-stream-max-age", c.StreamMaxAge, "Retention window of the heartbeat stream when it has to be created")
	fs.StringVar(&c.DurableName, "heartbeat-durable", c.DurableName, "Durable pull consumer name")
	fs.DurationVar(&c.AckWait, "heartbeat-ack-wait", c.AckWait, "Time the broker waits for an ack before redelivering a heartbeat")
	fs.IntVar(&c.MaxDeliver, "heartbeat-max-deliver", c.MaxDeliver, "Maximum deliveries of one heartbeat message before the broker gives up on it")
	fs.IntVar(&c.BatchSize, "heartbeat-batch-size", c.BatchSize, "Number of heartbeat messages pulled per fetch")
	fs.DurationVar(&c.FetchMaxWait, "heartbeat-fetch-max-wait", c.FetchMaxWait, "Maximum time one fetch waits for messages")
	fs.DurationVar(&c.PullInterval, "heartbeat-pull-interval", c.PullInterval, "Interval between two heartbeat fetches")
	fs.DurationVar(&c.ConnectTimeout, "nats-connect-timeout", c.ConnectTimeout, "NATS connection timeout")
}

func (c *MessageBrokerConfig) ReadFiles() error {
	if err := readFileIfExists(c.URLFile, func(file string) error { return readFileValueString(file, &c.URL) }); err != nil {
		return err
	}
	if err := readFileIfExists(c.UserNameFile, func(file string) error { return readFileValueString(file, &c.Username) }); err != nil {
		return err
	}
	if err := readFileIfExists(c.PasswordFile, func(file string) error { return readFileValueString(file, &c.Password) }); err != nil {
		return err
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("heartbeat batch size must be positive, got %d", c.BatchSize)
	}
	return nil
}

// FilterSubject is the wildcard subject matching every heartbeat sender.
func (c *MessageBrokerConfig) FilterSubject() string {
	return c.SubjectPrefix + ".>"
}

// HeartbeatSubject is the subject a server publishes its heartbeats on.
func (c *MessageBrokerConfig) HeartbeatSubject(name string) string {
	return c.SubjectPrefix + "." + name
}
