package service

import (
	"context"
	"time"

	"community-resources-be/internal/dto"
	"community-resources-be/internal/pkg/logger"
	"community-resources-be/pkg/resource"

	"github.com/samber/lo"
)

const adminModule = "AdminService"

// logTimeLayout matches zapcore.ISO8601TimeEncoder.
const logTimeLayout = "2006-01-02T15:04:05.000Z0700"

type IAdminService interface {
	// Datasets
	RefreshCategory(ctx context.Context, category string) (*dto.DatasetStatusResponse, error)
	ClearAllCaches(ctx context.Context) ([]dto.DatasetStatusResponse, error)
	WarmAll(ctx context.Context) []dto.DatasetStatusResponse
	GetDatasetStatus(ctx context.Context) []dto.DatasetStatusResponse

	// Logs
	GetSystemLogs(ctx context.Context, page, limit int, module string) ([]*dto.LogListResponse, error)
	GetTranscript(ctx context.Context, page, limit int) ([]*dto.LogDetailResponse, error)
}

type adminService struct {
	datasets   IDatasetService
	logs       logger.IReadableLogger
	transcript logger.IReadableLogger
	logger     logger.ILogger
}

func NewAdminService(datasets IDatasetService, logs, transcript logger.IReadableLogger, log logger.ILogger) IAdminService {
	return &adminService{
		datasets:   datasets,
		logs:       logs,
		transcript: transcript,
		logger:     log,
	}
}

// RefreshCategory re-fetches and re-parses one category immediately.
func (s *adminService) RefreshCategory(ctx context.Context, category string) (*dto.DatasetStatusResponse, error) {
	c, err := resource.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if _, err := s.datasets.Refresh(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info(adminModule, "Category refreshed", map[string]interface{}{"category": c})

	st, _ := lo.Find(s.datasets.Status(ctx), func(st dto.DatasetStatusResponse) bool { return st.Category == c })
	return &st, nil
}

func (s *adminService) ClearAllCaches(ctx context.Context) ([]dto.DatasetStatusResponse, error) {
	if err := s.datasets.ClearAll(ctx); err != nil {
		return nil, err
	}
	return s.datasets.Status(ctx), nil
}

func (s *adminService) WarmAll(ctx context.Context) []dto.DatasetStatusResponse {
	return s.datasets.Warm(ctx)
}

func (s *adminService) GetDatasetStatus(ctx context.Context) []dto.DatasetStatusResponse {
	return s.datasets.Status(ctx)
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, module string) ([]*dto.LogListResponse, error) {
	page, limit = normalizePage(page, limit)
	logs, err := s.logs.GetLogs(module, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, toLogListResponse(l))
	}
	return res, nil
}

// GetTranscript pages through the chat transcript, newest first.
func (s *adminService) GetTranscript(ctx context.Context, page, limit int) ([]*dto.LogDetailResponse, error) {
	page, limit = normalizePage(page, limit)
	logs, err := s.transcript.GetLogs(TranscriptModule, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogDetailResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, &dto.LogDetailResponse{LogListResponse: *toLogListResponse(l), Details: l.Details})
	}
	return res, nil
}

func toLogListResponse(l logger.LogEntry) *dto.LogListResponse {
	ts, _ := time.Parse(logTimeLayout, l.Timestamp)
	return &dto.LogListResponse{
		Id:        l.Id,
		Level:     l.Level,
		Module:    l.Module,
		Message:   l.Message,
		CreatedAt: ts,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
