package remote

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrRequestTimeout = errors.New("forecast request timed out")

type connection struct {
	conn   *websocket.Conn
	logger *zap.Logger

	ctx       context.Context
	ctxCancel context.CancelFunc

	writeChan chan *forecastRequest
	pending   sync.Map // map[string]chan *forecastResponse
}

func newConnection(conn *websocket.Conn, logger *zap.Logger) *connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &connection{
		conn:      conn,
		logger:    logger,
		ctx:       ctx,
		ctxCancel: cancel,
		writeChan: make(chan *forecastRequest, 16),
	}
}

func (c *connection) start() {
	go c.read()
	go c.write()
}

func (c *connection) stop() {
	c.ctxCancel()
	_ = c.conn.Close()
}

func (c *connection) read() {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				c.logger.Warn("cannot read data", zap.Error(err))
				time.Sleep(1 * time.Second) // prevent tight loop
				return
			}

			var resp forecastResponse
			if err := json.Unmarshal(message, &resp); err != nil {
				c.logger.Warn("unmarshal failed", zap.Error(err))
				continue
			}

			c.logger.Debug("read", zap.String("request_id", resp.RequestID))

			if ch, ok := c.pending.LoadAndDelete(resp.RequestID); ok {
				select {
				case ch.(chan *forecastResponse) <- &resp:
				default: // drop if blocked
				}
			}
		}
	}
}

func (c *connection) write() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case req, ok := <-c.writeChan:
			if !ok {
				return
			}

			c.logger.Debug("write",
				zap.String("request_id", req.RequestID),
				zap.String("model", req.Model))

			data, err := json.Marshal(req)
			if err != nil {
				c.logger.Warn("failed to marshal request", zap.Error(err))
				continue
			}

			if err = c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Warn("failed to write to connection", zap.Error(err))
				time.Sleep(1 * time.Second) // prevent tight loop
				continue
			}
		}
	}
}

func sendReceive(ctx context.Context, c *connection, req *forecastRequest) (*forecastResponse, error) {
	respChan := make(chan *forecastResponse, 1)
	c.pending.Store(req.RequestID, respChan)
	defer c.pending.Delete(req.RequestID)

	select {
	case c.writeChan <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case resp := <-respChan:
		return resp, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrRequestTimeout
		}
		return nil, ctx.Err()
	case <-c.ctx.Done():
		return nil, errors.New("connection closed")
	}
}
