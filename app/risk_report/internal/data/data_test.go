package data

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/risk_report/app/risk_report/internal/biz"
	"github.com/iWorld-y/risk_report/app/risk_report/internal/conf"
	"github.com/iWorld-y/risk_report/app/risk_report/pkg/translate"
)

func TestNewDataDisabled(t *testing.T) {
	for _, c := range []*conf.Data{nil, {}, {Database: &conf.Database{Driver: "postgres"}}} {
		d, cleanup, err := NewData(c, log.DefaultLogger)
		if err != nil {
			t.Fatalf("NewData(%+v) error = %v", c, err)
		}
		cleanup()
		if d.Enabled() {
			t.Errorf("NewData(%+v) enabled without a source", c)
		}
	}
}

func TestReposWithoutDatabase(t *testing.T) {
	d := &Data{}
	ctx := context.Background()

	runs := NewRenderRepo(d, log.DefaultLogger)
	if err := runs.SaveRun(ctx, &biz.RenderRun{ID: "x"}); err != nil {
		t.Errorf("SaveRun() error = %v", err)
	}
	list, total, err := runs.ListRuns(ctx, 1, 10)
	if err != nil || total != 0 || len(list) != 0 {
		t.Errorf("ListRuns() = %v, %d, %v", list, total, err)
	}

	store := NewTranslationStore(d, log.DefaultLogger)
	if err := store.SaveTranslation(ctx, translate.Entry{Translation: "x"}); err != nil {
		t.Errorf("SaveTranslation() error = %v", err)
	}
	entries, err := store.LoadTranslations(ctx)
	if err != nil || len(entries) != 0 {
		t.Errorf("LoadTranslations() = %v, %v", entries, err)
	}
}
