package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	dberr "github.com/webitel/video-exporter/internal/errors"
	"github.com/webitel/video-exporter/internal/model"
	"github.com/webitel/video-exporter/internal/store"
)

const (
	postsTable       = "posts"
	postExportsTable = "video_exporter.post_exports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Post struct {
	storage *Store
}

func (p *Post) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	db, err := p.storage.Database()
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Select(
			"id",
			"title",
			"content",
			"excerpt",
			"COALESCE(featured_image_url, '')",
		).
		From(postsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, dberr.NewDBInternalError("get_post", err)
	}

	var post model.Post
	err = db.QueryRow(ctx, query, args...).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.FeaturedImageURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dberr.NewDBNotFoundError("get_post", fmt.Sprintf("no post found for id=%d", id))
		}
		return nil, dberr.NewDBInternalError("get_post", err)
	}
	return &post, nil
}

// SaveExportResult upserts the result, so the last export of a post wins.
func (p *Post) SaveExportResult(ctx context.Context, postID int64, result *model.ExportResult) error {
	db, err := p.storage.Database()
	if err != nil {
		return err
	}

	query, args, err := psql.
		Insert(postExportsTable).
		Columns("post_id", "status", "export_id", "updated_at").
		Values(postID, string(result.Status), result.ExportID, time.Now().UnixMilli()).
		Suffix("ON CONFLICT (post_id) DO UPDATE SET " +
			"status = EXCLUDED.status, " +
			"export_id = EXCLUDED.export_id, " +
			"updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return dberr.NewDBInternalError("save_export_result", err)
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return mapPgError("save_export_result", err)
	}
	return nil
}

func (p *Post) GetExportResult(ctx context.Context, postID int64) (*model.PostExport, error) {
	db, err := p.storage.Database()
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Select("post_id", "status", "export_id", "updated_at").
		From(postExportsTable).
		Where(sq.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return nil, dberr.NewDBInternalError("get_export_result", err)
	}

	var (
		rec    model.PostExport
		status string
	)
	err = db.QueryRow(ctx, query, args...).Scan(&rec.PostID, &status, &rec.ExportID, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dberr.NewDBNotFoundError("get_export_result",
				fmt.Sprintf("post %d has not been exported", postID))
		}
		return nil, dberr.NewDBInternalError("get_export_result", err)
	}
	rec.Status = model.ExportStatus(status)
	return &rec, nil
}

func NewPostStore(s *Store) (store.PostStore, error) {
	if s == nil {
		return nil, dberr.NewDBInternalError("new_store", errors.New("store is nil"))
	}
	return &Post{storage: s}, nil
}
