package dto

import (
	"time"

	"community-resources-be/pkg/correction"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/search"
	"community-resources-be/pkg/store"
)

type CreateChatSessionRequest struct {
	Category string `json:"category" validate:"max=64"`
}

type SubmitQueryRequest struct {
	Text string `json:"text" validate:"max=500"`
}

type TogglePinRequest struct {
	RecordId string `json:"record_id" validate:"required,max=64"`
}

type SwitchCategoryRequest struct {
	Category string `json:"category" validate:"required,max=64"`
}

// SetFiltersRequest replaces the explicit filters. An empty field clears
// that filter.
type SetFiltersRequest struct {
	Zip      string `json:"zip" validate:"max=10"`
	Days     string `json:"days" validate:"max=64"` // e.g. "Mon-Wed" or "Sat, Sun"
	Service  string `json:"service" validate:"max=64"`
	Language string `json:"language" validate:"max=32"`
}

type FiltersDTO struct {
	Zip      string   `json:"zip,omitempty"`
	Days     []string `json:"days"`
	Service  string   `json:"service,omitempty"`
	Language string   `json:"language,omitempty"`
}

type ChatSessionResponse struct {
	Id                string                 `json:"id"`
	State             string                 `json:"state"`
	Category          resource.Category      `json:"category"`
	ExplicitFilters   FiltersDTO             `json:"explicit_filters"`
	Pins              []store.Pin            `json:"pins"`
	History           []store.Message        `json:"history"`
	RecentSearches    []string               `json:"recent_searches"`
	ShownCount        int                    `json:"shown_count"`
	PendingCorrection *correction.Suggestion `json:"pending_correction,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

type ChatReplyResponse struct {
	SessionId         string                 `json:"session_id"`
	State             string                 `json:"state"`
	Kind              string                 `json:"kind"` // "results" | "exhausted" | "correction_prompt" | "clarification" | "no_previous_query" | "empty"
	Message           string                 `json:"message"`
	Category          resource.Category      `json:"category"`
	Query             string                 `json:"query,omitempty"`
	Results           []resource.Record      `json:"results"`
	HasMore           bool                   `json:"has_more"`
	Remaining         int                    `json:"remaining"`
	AllExhausted      bool                   `json:"all_exhausted"`
	AppliedFilters    []search.AppliedFilter `json:"applied_filters"`
	DiscardedFilters  []search.AppliedFilter `json:"discarded_filters,omitempty"`
	UnknownZip        string                 `json:"unknown_zip,omitempty"`
	Suggestion        *correction.Suggestion `json:"suggestion,omitempty"`
	SuggestedCategory resource.Category      `json:"suggested_category,omitempty"`
	TrustedLinks      []resource.TrustedLink `json:"trusted_links,omitempty"`
	Dataset           *DatasetInfoDTO        `json:"dataset,omitempty"`
}

type TogglePinResponse struct {
	Pinned bool        `json:"pinned"`
	Pin    store.Pin   `json:"pin"`
	Pins   []store.Pin `json:"pins"`
}

// TranscriptEntry is one turn as written to the transcript log.
type TranscriptEntry struct {
	SessionId string            `json:"session_id"`
	Category  resource.Category `json:"category"`
	UserText  string            `json:"user_text"`
	ReplyKind string            `json:"reply_kind"`
	RecordIds []string          `json:"record_ids,omitempty"`
	State     string            `json:"state"`
	At        time.Time         `json:"at"`
}
