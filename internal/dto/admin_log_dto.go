package dto

import "time"

// --- Log DTOs ---

type LogListResponse struct {
	Id        string    `json:"id"` // MD5 hash of the log line
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
