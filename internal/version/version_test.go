package version

import (
	"strings"
	"testing"
)

func TestString_IncludesAllFields(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })

	Version, Commit, Date = "v1.2.3", "abc1234", "2026-10-01T00:00:00Z"
	got := String()
	for _, want := range []string{"v1.2.3", "abc1234", "2026-10-01T00:00:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
	if Short() != "v1.2.3" {
		t.Errorf("Short() = %q", Short())
	}
}
