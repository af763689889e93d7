package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ettlab/ettcast/pkg/frame"
)

var t0 = time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC)

// newFakeServer serves forecast requests by answering each request with the
// matrix handle produces.
func newFakeServer(t *testing.T, handle func(req forecastRequest) forecastResponse) string {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func(conn *websocket.Conn) {
			_ = conn.Close()
		}(conn)

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req forecastRequest
			if err := json.Unmarshal(message, &req); err != nil {
				return
			}
			resp := handle(req)
			resp.RequestID = req.RequestID
			data, _ := json.Marshal(resp)
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func trainFrame(t *testing.T, n int) *frame.Frame {
	t.Helper()
	timestamps := make([]time.Time, n)
	values := make([]float64, n)
	for i := range timestamps {
		timestamps[i] = t0.Add(time.Duration(i) * time.Hour)
		values[i] = float64(i)
	}
	f, err := frame.New(timestamps, map[string][]float64{"OT": values})
	if err != nil {
		t.Fatalf("frame.New failed: %v", err)
	}
	return f
}

func TestClient_Predict(t *testing.T) {
	var seen forecastRequest
	endpoint := newFakeServer(t, func(req forecastRequest) forecastResponse {
		seen = req
		values := make([][]float64, len(req.SeriesIDs))
		for i := range values {
			row := make([]float64, req.Horizon)
			for j := range row {
				row[j] = float64(j + 1)
			}
			values[i] = row
		}
		return forecastResponse{Values: values}
	})

	client, err := Dial(zap.NewNop(), endpoint,
		WithModel("test-model"),
		WithContextLength(4),
		WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	train := trainFrame(t, 10)
	if err := client.Fit(context.Background(), train); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	result, err := client.Predict(context.Background(), 3)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if seen.Model != "test-model" {
		t.Errorf("expected model test-model, got %q", seen.Model)
	}
	if len(seen.Context) != 1 || len(seen.Context[0]) != 4 {
		t.Fatalf("expected context truncated to 4 points, got %v", seen.Context)
	}
	if seen.Context[0][0] != 6 {
		t.Errorf("expected context window [6..9], got %v", seen.Context[0])
	}

	if len(result.Values) != 1 || len(result.Values[0]) != 3 {
		t.Fatalf("unexpected result shape %v", result.Values)
	}
	if !result.Anchor.Equal(train.End().Add(time.Hour)) {
		t.Errorf("expected anchor one interval past training end, got %s", result.Anchor)
	}
}

func TestClient_PredictRemoteError(t *testing.T) {
	endpoint := newFakeServer(t, func(req forecastRequest) forecastResponse {
		return forecastResponse{Error: "model overloaded"}
	})

	client, err := Dial(zap.NewNop(), endpoint, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	if err := client.Fit(context.Background(), trainFrame(t, 5)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := client.Predict(context.Background(), 2); !errors.Is(err, ErrRemote) {
		t.Errorf("expected ErrRemote, got %v", err)
	}
}

func TestClient_PredictMalformedReply(t *testing.T) {
	endpoint := newFakeServer(t, func(req forecastRequest) forecastResponse {
		// One step short of the requested horizon.
		return forecastResponse{Values: [][]float64{make([]float64, req.Horizon-1)}}
	})

	client, err := Dial(zap.NewNop(), endpoint, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	if err := client.Fit(context.Background(), trainFrame(t, 5)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := client.Predict(context.Background(), 2); !errors.Is(err, ErrMalformedReply) {
		t.Errorf("expected ErrMalformedReply, got %v", err)
	}
}

func TestClient_PredictBeforeFit(t *testing.T) {
	client := &Client{}

	if _, err := client.Predict(context.Background(), 2); !errors.Is(err, ErrNotFitted) {
		t.Errorf("expected ErrNotFitted, got %v", err)
	}
}
