package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/promo/core/discount"
	"github.com/kilianp07/promo/infra/logger"
)

const (
	statusOnline  = "online"
	statusOffline = "offline"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Announcer publishes discount announcements as JSON on an MQTT topic.
type Announcer struct {
	cli        pahoClient
	topic      string
	status     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

var _ discount.Announcer = (*Announcer)(nil)

type message struct {
	Festival     string `json:"festival"`
	PricePercent int    `json:"price_percent"`
	Text         string `json:"text"`
	Timestamp    int64  `json:"timestamp"`
}

// NewAnnouncer connects to the broker and marks the announcer online.
func NewAnnouncer(cfg Config) (*Announcer, error) {
	cfg.SetDefaults()
	cfg.Enabled = true
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_announcer")
	a := &Announcer{
		topic:      cfg.AnnouncementTopic(),
		status:     cfg.StatusTopic(),
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Publish(a.status, 1, true, statusOnline); token.Wait() && token.Error() != nil {
			log.Errorf("status publish error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	a.cli = c
	return a, nil
}

// Announce publishes the announcement, retrying with exponential backoff.
func (a *Announcer) Announce(an discount.Announcement) error {
	payload, err := json.Marshal(message{
		Festival:     an.Festival,
		PricePercent: an.PricePercent,
		Text:         an.Text,
		Timestamp:    time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		token := a.cli.Publish(a.topic, a.qos, a.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			a.log.Debugf("announced %q on %s", an.Festival, a.topic)
			return nil
		}
		a.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < a.maxRetries {
			time.Sleep(a.backoff * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("mqtt publish %s: %w", a.topic, publishErr)
}

// Close marks the announcer offline and disconnects.
func (a *Announcer) Close() error {
	if a.cli == nil || !a.cli.IsConnected() {
		return nil
	}
	token := a.cli.Publish(a.status, 1, true, statusOffline)
	token.Wait()
	a.cli.Disconnect(250)
	return token.Error()
}
