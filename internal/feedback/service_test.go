package feedback

import (
	"reflect"
	"testing"

	"github.com/lazypower/oracle/internal/store"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(db)
}

func TestServiceGetIsStable(t *testing.T) {
	svc := testService(t)

	a, err := svc.Get("inst")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b, _ := svc.Get("inst")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("consecutive Get differ:\n%+v\n%+v", a, b)
	}

	svc.Submit("inst", Reaction{Theme: "worthiness", Reaction: Love})
	a, _ = svc.Get("inst")
	b, _ = svc.Get("inst")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("consecutive Get differ after submit")
	}
	if a.Preferences["worthiness"] != 1 {
		t.Errorf("preferences.worthiness = %d, want 1", a.Preferences["worthiness"])
	}
}

func TestServiceIsolatesInstallations(t *testing.T) {
	svc := testService(t)

	svc.Submit("a", Reaction{Theme: "release", Reaction: Love})
	b, _ := svc.Get("b")
	if len(b.Preferences) != 0 {
		t.Errorf("installation b saw a's feedback: %+v", b.Preferences)
	}
}

func TestServiceRejectsWithoutWriting(t *testing.T) {
	svc := testService(t)

	svc.SetLanguage("x", "es")
	if err := svc.SetLanguage("x", "klingon"); err == nil {
		t.Fatal("expected error")
	}
	st, _ := svc.Get("x")
	if st.Language != "es" {
		t.Errorf("language = %q, want es", st.Language)
	}
}

func TestServiceRecordThemeAndGeo(t *testing.T) {
	svc := testService(t)

	if err := svc.RecordTheme("", "decision"); err != nil {
		t.Fatalf("RecordTheme: %v", err)
	}
	if err := svc.SetGeo("", Geo{Region: "asia", TimeZone: "Asia/Seoul"}); err != nil {
		t.Fatalf("SetGeo: %v", err)
	}
	st, _ := svc.Get(DefaultInstallation)
	if len(st.Last10Themes) != 1 || st.Last10Themes[0] != "decision" {
		t.Errorf("window = %v", st.Last10Themes)
	}
	if st.Geo.Region != "asia" {
		t.Errorf("region = %q", st.Geo.Region)
	}
}
