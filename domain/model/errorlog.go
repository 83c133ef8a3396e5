package model

import "time"

// ErrorLogEntry is one diagnostic record in the bounded error log.
type ErrorLogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Context    string    `json:"context"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Payload    string    `json:"payload,omitempty"`
}
