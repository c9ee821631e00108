package model

type ExportStatus string

const (
	ExportStatusPending   ExportStatus = "pending"
	ExportStatusSucceeded ExportStatus = "succeeded"
	ExportStatusFailed    ExportStatus = "failed"
	ExportStatusUnknown   ExportStatus = "unknown"
)

// ExportResult is what the video API reported for a submission.
// Status is passed through as returned, so values outside the constants above are legal.
type ExportResult struct {
	Status   ExportStatus `json:"status" db:"status"`
	ExportID string       `json:"export_id" db:"export_id"`
}

// PostExport is an ExportResult persisted against its post.
type PostExport struct {
	PostID    int64        `json:"post_id" db:"post_id"`
	Status    ExportStatus `json:"status" db:"status"`
	ExportID  string       `json:"export_id" db:"export_id"`
	UpdatedAt int64        `json:"updated_at" db:"updated_at"`
}
