// Package remote queries a pretrained foundational forecasting model served
// over a websocket endpoint. The model's weights and inference internals stay
// on the serving side; this client only ships context windows out and forecast
// matrices back.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ettlab/ettcast/pkg/forecast"
	"github.com/ettlab/ettcast/pkg/frame"
)

var (
	ErrNotFitted      = errors.New("no training view supplied")
	ErrRemote         = errors.New("remote model error")
	ErrMalformedReply = errors.New("malformed forecast response")
)

const defaultTimeout = 2 * time.Minute

type Client struct {
	conn   *connection
	logger *zap.Logger

	model         string
	freq          forecast.Freq
	contextLength int
	timeout       time.Duration

	ids      []string
	window   [][]float64
	anchor   time.Time
	interval time.Duration
}

type ClientOption func(*Client)

// WithModel selects the served checkpoint, e.g. "amazon/chronos-t5-small".
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithFreq(freq forecast.Freq) ClientOption {
	return func(c *Client) { c.freq = freq }
}

// WithContextLength caps how many trailing observations of the training view
// are sent as model context. Zero means the server's default.
func WithContextLength(n int) ClientOption {
	return func(c *Client) { c.contextLength = n }
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// SetContextLength adjusts the context cap for subsequent Fit calls, used when
// sweeping context lengths over one connection.
func (c *Client) SetContextLength(n int) {
	c.contextLength = n
}

// Dial connects to a model-serving endpoint, e.g. "ws://localhost:8765/forecast".
func Dial(logger *zap.Logger, endpoint string, opts ...ClientOption) (*Client, error) {
	wsConn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to dial %q: %w", endpoint, err)
	}

	conn := newConnection(wsConn, logger)
	conn.start()

	client := &Client{
		conn:    conn,
		logger:  logger,
		freq:    forecast.FreqHourly,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) Close() {
	c.conn.stop()
}

// Fit captures the training view as model context. No training happens here;
// the pretrained model consumes the context at inference time.
func (c *Client) Fit(_ context.Context, train *frame.Frame) error {
	if train.Len() < 1 {
		return fmt.Errorf("%w: empty training view", ErrNotFitted)
	}
	if c.contextLength > 0 && c.contextLength < train.Len() {
		train = train.Tail(c.contextLength)
	}

	interval := time.Hour
	if train.Len() > 1 {
		interval = train.Timestamps()[1].Sub(train.Timestamps()[0])
	}

	c.ids = train.SeriesNames()
	c.window = make([][]float64, len(c.ids))
	for i, id := range c.ids {
		values, _ := train.Series(id)
		c.window[i] = values
	}
	c.anchor = train.End().Add(interval)
	c.interval = interval
	return nil
}

// Predict requests a horizon-step forecast for every series of the training
// view and validates the reply is rectangular.
func (c *Client) Predict(ctx context.Context, horizon int) (*forecast.Result, error) {
	if c.window == nil {
		return nil, ErrNotFitted
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &forecastRequest{
		RequestID:     uuid.Must(uuid.NewV7()).String(),
		Model:         c.model,
		Freq:          string(c.freq),
		Horizon:       horizon,
		ContextLength: c.contextLength,
		SeriesIDs:     c.ids,
		Context:       c.window,
	}

	resp, err := sendReceive(ctx, c.conn, req)
	if err != nil {
		return nil, fmt.Errorf("unable to perform forecast request: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, resp.Error)
	}
	if len(resp.Values) != len(c.ids) {
		return nil, fmt.Errorf("%w: %d rows for %d series", ErrMalformedReply, len(resp.Values), len(c.ids))
	}
	for i, row := range resp.Values {
		if len(row) != horizon {
			return nil, fmt.Errorf("%w: row %d has %d steps, want %d", ErrMalformedReply, i, len(row), horizon)
		}
	}

	return &forecast.Result{
		SeriesIDs: c.ids,
		Values:    resp.Values,
		Anchor:    c.anchor,
		Interval:  c.interval,
	}, nil
}
