package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/risk_report/app/risk_report/pkg/assessment"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/translate"
)

// translationStore 翻译缓存的持久化实现
type translationStore struct {
	data *Data
	log  *log.Helper
}

func NewTranslationStore(data *Data, logger log.Logger) translate.Store {
	return &translationStore{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (s *translationStore) LoadTranslations(ctx context.Context) ([]translate.Entry, error) {
	if !s.data.Enabled() {
		return nil, nil
	}
	rows, err := s.data.db.QueryContext(ctx, `SELECT source, lang, translation FROM translations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []translate.Entry
	for rows.Next() {
		var (
			e    translate.Entry
			lang string
		)
		if err := rows.Scan(&e.Text, &lang, &e.Translation); err != nil {
			return nil, err
		}
		e.Target = assessment.Language(lang)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *translationStore) SaveTranslation(ctx context.Context, e translate.Entry) error {
	if !s.data.Enabled() {
		return nil
	}
	_, err := s.data.db.ExecContext(ctx, `
		INSERT INTO translations (source, lang, translation)
		VALUES ($1, $2, $3)
		ON CONFLICT (source, lang) DO UPDATE SET translation = EXCLUDED.translation`,
		e.Text, string(e.Target), e.Translation,
	)
	return err
}
