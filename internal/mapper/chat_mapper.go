package mapper

import (
	"community-resources-be/internal/dto"
	"community-resources-be/pkg/chat/executor"
	"community-resources-be/pkg/correction"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/search"
	"community-resources-be/pkg/store"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) FiltersToDTO(f search.Filters) dto.FiltersDTO {
	return dto.FiltersDTO{
		Zip:      f.ZIP,
		Days:     f.Days.Strings(),
		Service:  f.Service,
		Language: f.Language,
	}
}

func (m *ChatMapper) SessionToResponse(s *store.Session) *dto.ChatSessionResponse {
	if s == nil {
		return nil
	}

	var pending *correction.Suggestion
	if s.Pending != nil {
		p := s.Pending.Suggestion
		pending = &p
	}

	return &dto.ChatSessionResponse{
		Id:                s.ID,
		State:             s.State,
		Category:          s.Category,
		ExplicitFilters:   m.FiltersToDTO(s.ExplicitFilters),
		Pins:              nonNil(s.Pins),
		History:           nonNil(s.History),
		RecentSearches:    nonNil(s.Recent[s.Category]),
		ShownCount:        len(s.ShownIDs[s.Category]),
		PendingCorrection: pending,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func (m *ChatMapper) ReplyToResponse(s *store.Session, r executor.Reply) *dto.ChatReplyResponse {
	return &dto.ChatReplyResponse{
		SessionId:         s.ID,
		State:             s.State,
		Kind:              string(r.Kind),
		Message:           r.Message,
		Category:          r.Category,
		Query:             r.Query,
		Results:           nonNil(r.Results),
		HasMore:           r.HasMore,
		Remaining:         r.Remaining,
		AllExhausted:      r.Kind == executor.KindExhausted,
		AppliedFilters:    nonNil(r.Applied),
		DiscardedFilters:  r.Discarded,
		UnknownZip:        r.UnknownZIP,
		Suggestion:        r.Suggestion,
		SuggestedCategory: r.SuggestedCategory,
		TrustedLinks:      r.TrustedLinks,
		Dataset:           m.DatasetInfoToDTO(r.Dataset),
	}
}

func (m *ChatMapper) DatasetInfoToDTO(info *executor.DatasetInfo) *dto.DatasetInfoDTO {
	if info == nil {
		return nil
	}
	return &dto.DatasetInfoDTO{
		Source:        info.Source,
		FetchedAt:     info.FetchedAt,
		Records:       info.Records,
		SkippedBlocks: info.SkippedBlocks,
	}
}

func (m *ChatMapper) DatasetToInfo(ds *resource.Dataset) dto.DatasetInfoDTO {
	return dto.DatasetInfoDTO{
		Source:        ds.Source,
		FetchedAt:     ds.FetchedAt,
		Records:       len(ds.Records),
		SkippedBlocks: ds.SkippedBlocks,
	}
}

func (m *ChatMapper) TranscriptEntry(s *store.Session, userText string, r executor.Reply) dto.TranscriptEntry {
	return dto.TranscriptEntry{
		SessionId: s.ID,
		Category:  r.Category,
		UserText:  userText,
		ReplyKind: string(r.Kind),
		RecordIds: r.IDs(),
		State:     s.State,
		At:        s.UpdatedAt,
	}
}

// nonNil keeps empty lists as [] in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
