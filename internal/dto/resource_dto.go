package dto

import (
	"time"

	"community-resources-be/pkg/resource"
)

type CategoryResponse struct {
	Id          resource.Category `json:"id"`
	DisplayName string            `json:"display_name"`
	Code        string            `json:"code"`
}

type DatasetInfoDTO struct {
	Source        resource.Source `json:"source"`
	FetchedAt     time.Time       `json:"fetched_at"`
	Records       int             `json:"records"`
	SkippedBlocks int             `json:"skipped_blocks"`
}

type DatasetStatusResponse struct {
	Category      resource.Category `json:"category"`
	DisplayName   string            `json:"display_name"`
	Loaded        bool              `json:"loaded"`
	Source        resource.Source   `json:"source,omitempty"`
	FetchedAt     *time.Time        `json:"fetched_at,omitempty"`
	ExpiresAt     *time.Time        `json:"expires_at,omitempty"`
	Records       int               `json:"records"`
	SkippedBlocks int               `json:"skipped_blocks"`
	SourceHash    string            `json:"source_hash,omitempty"`
	Error         string            `json:"error,omitempty"`
}

type FilterOptionsResponse struct {
	Options resource.FilterOptions `json:"options"`
	Dataset DatasetInfoDTO         `json:"dataset"`
}

type RecordResponse struct {
	Record  resource.Record `json:"record"`
	Dataset DatasetInfoDTO  `json:"dataset"`
}
