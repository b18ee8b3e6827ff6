package diag

import (
	"errors"
	"sync"
	"testing"
)

func TestCollectorDedup(t *testing.T) {
	c := NewCollector()
	timeout := errors.New("request timeout")

	if !c.Add(Diagnostic{Kind: TranslationUnavailable, Subject: "Brand:", Err: timeout}) {
		t.Error("first diagnostic should be new")
	}
	if c.Add(Diagnostic{Kind: TranslationUnavailable, Subject: "Style:", Err: timeout}) {
		t.Error("same kind and error should be deduplicated")
	}
	c.Add(Diagnostic{Kind: FontRegistrationFailed, Subject: "simsun.ttf", Err: timeout})
	c.Add(Diagnostic{Kind: TranslationUnavailable, Subject: "a"})
	c.Add(Diagnostic{Kind: TranslationUnavailable, Subject: "b"})

	items := c.Items()
	if len(items) != 4 {
		t.Fatalf("Items() len = %d, want 4: %v", len(items), items)
	}
	if items[0].Subject != "Brand:" {
		t.Errorf("first kept subject = %q", items[0].Subject)
	}
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	err := errors.New("boom")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(Diagnostic{Kind: TranslationUnavailable, Subject: "x", Err: err})
		}()
	}
	wg.Wait()
	if n := len(c.Items()); n != 1 {
		t.Errorf("Items() len = %d, want 1", n)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Kind: FontRegistrationFailed, Subject: "msyh.ttf", Err: errors.New("no Han glyphs")}
	if got, want := d.String(), "font_registration_failed: msyh.ttf: no Han glyphs"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := Kind(9).String(); got != "kind(9)" {
		t.Errorf("Kind(9).String() = %q", got)
	}
}
