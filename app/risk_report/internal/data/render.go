package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/risk_report/app/risk_report/internal/biz"
)

type renderRepo struct {
	data *Data
	log  *log.Helper
}

func NewRenderRepo(data *Data, logger log.Logger) biz.RenderRepo {
	return &renderRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *renderRepo) SaveRun(ctx context.Context, run *biz.RenderRun) error {
	if !r.data.Enabled() {
		return nil
	}
	_, err := r.data.db.ExecContext(ctx, `
		INSERT INTO render_runs (id, po_number, factory_name, city, language, file_name, pages, size_bytes, diagnostics, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID, run.PONumber, run.FactoryName, run.City, run.Language, run.FileName,
		run.Pages, run.SizeBytes, run.Diagnostics, run.CreatedAt,
	)
	return err
}

func (r *renderRepo) ListRuns(ctx context.Context, page, pageSize int) ([]*biz.RenderRun, int, error) {
	if !r.data.Enabled() {
		return []*biz.RenderRun{}, 0, nil
	}
	offset := (page - 1) * pageSize

	rows, err := r.data.db.QueryContext(ctx, `
		SELECT id, po_number, factory_name, city, language, file_name, pages, size_bytes, diagnostics, created_at
		FROM render_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	runs := make([]*biz.RenderRun, 0, pageSize)
	for rows.Next() {
		var run biz.RenderRun
		if err := rows.Scan(&run.ID, &run.PONumber, &run.FactoryName, &run.City, &run.Language,
			&run.FileName, &run.Pages, &run.SizeBytes, &run.Diagnostics, &run.CreatedAt); err != nil {
			return nil, 0, err
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.data.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM render_runs`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}
