package service

import (
	"context"
	"fmt"

	"community-resources-be/internal/dto"
	"community-resources-be/internal/mapper"
	"community-resources-be/pkg/resource"
)

type IResourceService interface {
	ListCategories(ctx context.Context) []dto.CategoryResponse
	GetFilterOptions(ctx context.Context, category string) (*dto.FilterOptionsResponse, error)
	GetRecord(ctx context.Context, category string, recordId string) (*dto.RecordResponse, error)
}

type resourceService struct {
	datasets IDatasetService
	mapper   *mapper.ChatMapper
}

func NewResourceService(datasets IDatasetService) IResourceService {
	return &resourceService{
		datasets: datasets,
		mapper:   mapper.NewChatMapper(),
	}
}

func (s *resourceService) ListCategories(ctx context.Context) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(resource.Categories))
	for _, c := range resource.Categories {
		out = append(out, dto.CategoryResponse{Id: c, DisplayName: c.DisplayName(), Code: c.Code()})
	}
	return out
}

// GetFilterOptions lists the ZIPs, languages, services and days present in
// the category's dataset.
func (s *resourceService) GetFilterOptions(ctx context.Context, category string) (*dto.FilterOptionsResponse, error) {
	c, err := resource.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	ds, err := s.datasets.Get(ctx, c)
	if err != nil {
		return nil, err
	}
	return &dto.FilterOptionsResponse{Options: ds.Options(), Dataset: s.mapper.DatasetToInfo(ds)}, nil
}

func (s *resourceService) GetRecord(ctx context.Context, category string, recordId string) (*dto.RecordResponse, error) {
	c, err := resource.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	ds, err := s.datasets.Get(ctx, c)
	if err != nil {
		return nil, err
	}
	rec, ok := ds.Record(recordId)
	if !ok {
		return nil, fmt.Errorf("%w: %s", resource.ErrRecordNotFound, recordId)
	}
	return &dto.RecordResponse{Record: *rec, Dataset: s.mapper.DatasetToInfo(ds)}, nil
}
