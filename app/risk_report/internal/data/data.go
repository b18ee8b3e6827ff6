package data

import (
	"database/sql"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"

	"github.com/iWorld-y/risk_report/app/risk_report/internal/conf"
)

// Data 持有数据库连接。db 为 nil 表示未启用持久化，各仓库退化为空实现。
type Data struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS render_runs (
	id UUID PRIMARY KEY,
	po_number TEXT NOT NULL,
	factory_name TEXT NOT NULL,
	city TEXT NOT NULL,
	language TEXT NOT NULL,
	file_name TEXT NOT NULL,
	pages INTEGER NOT NULL,
	size_bytes INTEGER NOT NULL,
	diagnostics INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS translations (
	source TEXT NOT NULL,
	lang TEXT NOT NULL,
	translation TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (source, lang)
);
`

func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)
	if c == nil || c.Database == nil || c.Database.Source == "" {
		helper.Info("database not configured, persistence disabled")
		return &Data{}, func() {}, nil
	}

	driver := c.Database.Driver
	if driver == "" {
		driver = "postgres"
	}
	db, err := sql.Open(driver, c.Database.Source)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to init schema: %w", err)
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		db.Close()
	}
	return &Data{db: db}, cleanup, nil
}

// Enabled 是否连接了数据库
func (d *Data) Enabled() bool {
	return d != nil && d.db != nil
}
