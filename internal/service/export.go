package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/webitel/video-exporter/internal/cache"
	"github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/internal/exporter"
	"github.com/webitel/video-exporter/internal/metrics"
	"github.com/webitel/video-exporter/internal/model"
	"github.com/webitel/video-exporter/internal/store"
)

// Submitter sends a post snapshot to the video API. *exporter.Client implements it.
type Submitter interface {
	Submit(ctx context.Context, record model.PostRecord, creds model.Credentials) (*model.ExportResult, error)
}

type ExportService interface {
	Export(ctx context.Context, postID int64) (*model.ExportResult, error)
	GetExportStatus(ctx context.Context, postID int64) (*model.PostExport, error)
	ListErrors(ctx context.Context) ([]model.ErrorLogEntry, error)
}

type ExportServiceImpl struct {
	posts    store.PostStore
	settings store.SettingsStore
	errorLog cache.ErrorLog
	client   Submitter
	siteURL  string
	metrics  *metrics.ExportMetrics
	log      *slog.Logger
	now      func() time.Time
}

type ExportServiceConfig struct {
	Posts    store.PostStore
	Settings store.SettingsStore
	ErrorLog cache.ErrorLog
	Client   Submitter
	SiteURL  string
	Metrics  *metrics.ExportMetrics
	Log      *slog.Logger
}

func NewExportService(cfg ExportServiceConfig) (ExportService, error) {
	if cfg.Posts == nil || cfg.Settings == nil || cfg.ErrorLog == nil || cfg.Client == nil {
		return nil, errors.Internal("store, error log or client is nil in ExportService")
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &ExportServiceImpl{
		posts:    cfg.Posts,
		settings: cfg.Settings,
		errorLog: cfg.ErrorLog,
		client:   cfg.Client,
		siteURL:  cfg.SiteURL,
		metrics:  cfg.Metrics,
		log:      log,
		now:      time.Now,
	}, nil
}

// Export snapshots the post, submits it and records the outcome: the result
// against the post on success, an error log entry on failure.
func (s *ExportServiceImpl) Export(ctx context.Context, postID int64) (*model.ExportResult, error) {
	if postID <= 0 {
		return nil, errors.BadRequest("post id is required", errors.WithID("export.post_id"))
	}

	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		if errors.IsNotFound(err) {
			s.metrics.IncExport("not_found")
			return nil, errors.NotFound("post not found", errors.WithID("export.post_not_found"), errors.WithCause(err))
		}
		return nil, errors.Internal("unable to load post", errors.WithID("export.load_post"), errors.WithCause(err))
	}

	// Read on every export so settings changes apply immediately.
	creds, err := s.settings.GetCredentials(ctx)
	if err != nil {
		return nil, errors.Internal("unable to load settings", errors.WithID("export.load_settings"), errors.WithCause(err))
	}
	if !creds.Configured() {
		s.metrics.IncExport("not_configured")
		return nil, configurationError()
	}

	now := s.now()
	record := model.PostRecord{
		Title:            post.Title,
		Content:          post.Content,
		Excerpt:          post.Excerpt,
		FeaturedImageURL: post.FeaturedImageURL,
		PostID:           post.ID,
		SiteURL:          s.siteURL,
		Timestamp:        now.Format(model.TimestampLayout),
	}

	start := time.Now()
	result, err := s.client.Submit(ctx, record, creds)
	s.metrics.ObserveExport(time.Since(start))
	if err != nil {
		if exporter.IsConfiguration(err) {
			s.metrics.IncExport("not_configured")
			return nil, configurationError()
		}
		s.metrics.IncExport("api_failure")
		s.log.ErrorContext(ctx, "video_exporter.export.failed",
			slog.Int64("post_id", postID),
			slog.String("error", err.Error()),
		)
		s.logError(ctx, postID, err.Error())
		return nil, errors.New(err.Error(),
			errors.WithID("export.api_failure"),
			errors.WithStatus(http.StatusBadGateway),
			errors.WithCause(err),
		)
	}

	if err := s.posts.SaveExportResult(ctx, postID, result); err != nil {
		s.metrics.IncExport("persist_failure")
		s.log.ErrorContext(ctx, "video_exporter.export.save_result_failed",
			slog.Int64("post_id", postID),
			slog.String("export_id", result.ExportID),
			slog.String("error", err.Error()),
		)
		return nil, errors.Internal("export was sent but its status could not be saved",
			errors.WithID("export.save_result"),
			errors.WithCause(err),
		)
	}

	s.metrics.IncExport("succeeded")
	s.log.InfoContext(ctx, "video_exporter.export.submitted",
		slog.Int64("post_id", postID),
		slog.String("status", string(result.Status)),
		slog.String("export_id", result.ExportID),
	)
	return result, nil
}

func (s *ExportServiceImpl) GetExportStatus(ctx context.Context, postID int64) (*model.PostExport, error) {
	if postID <= 0 {
		return nil, errors.BadRequest("post id is required", errors.WithID("export.post_id"))
	}
	rec, err := s.posts.GetExportResult(ctx, postID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("post has not been exported", errors.WithID("export.status_not_found"), errors.WithCause(err))
		}
		return nil, errors.Internal("unable to load export status", errors.WithID("export.load_status"), errors.WithCause(err))
	}
	return rec, nil
}

func (s *ExportServiceImpl) ListErrors(ctx context.Context) ([]model.ErrorLogEntry, error) {
	entries, err := s.errorLog.ListErrors(ctx)
	if err != nil {
		return nil, errors.Internal("unable to load error log", errors.WithID("export.list_errors"), errors.WithCause(err))
	}
	return entries, nil
}

// logError never fails the request: the API error is what the editor needs to see.
func (s *ExportServiceImpl) logError(ctx context.Context, postID int64, message string) {
	entry := model.ErrorLogEntry{
		Timestamp: s.now().Format(model.TimestampLayout),
		PostID:    postID,
		Message:   message,
	}
	if err := s.errorLog.AppendError(ctx, entry); err != nil {
		s.metrics.IncErrorLog("failed")
		s.log.ErrorContext(ctx, "video_exporter.export.error_log_failed",
			slog.Int64("post_id", postID),
			slog.String("error", err.Error()),
		)
		return
	}
	s.metrics.IncErrorLog("ok")
}

func configurationError() error {
	return errors.New(exporter.NotConfiguredMessage,
		errors.WithID("export.not_configured"),
		errors.WithStatus(http.StatusPreconditionFailed),
	)
}
