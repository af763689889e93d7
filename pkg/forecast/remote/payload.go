package remote

// Wire types for the model-serving endpoint. Requests and responses are JSON
// text messages correlated by request id.

type forecastRequest struct {
	RequestID     string      `json:"request_id"`
	Model         string      `json:"model"`
	Freq          string      `json:"freq"`
	Horizon       int         `json:"horizon"`
	ContextLength int         `json:"context_length,omitempty"`
	SeriesIDs     []string    `json:"series_ids"`
	Context       [][]float64 `json:"context"`
}

type forecastResponse struct {
	RequestID string      `json:"request_id"`
	Error     string      `json:"error,omitempty"`
	Values    [][]float64 `json:"values"`
}
