package feed

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ferro-labs/carefinder/providers"
)

func TestParse_NormalizesRecord(t *testing.T) {
	data := `[{"name":{"first":"A","last":"B"},"addresses":[{"address":"1 Main St","zip":"33101 ","phone":"555"}],"specialty":"GP","plans":["X"]}]`

	got, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []providers.Provider{{
		Name:              "A B",
		Address:           "1 Main St",
		ZipCode:           "33101",
		Specialty:         "GP",
		InsuranceAccepted: []string{"X"},
		Contact:           "555",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParse_WellFormedRecordCount(t *testing.T) {
	for _, n := range []int{0, 1, 7, 120} {
		records := make([]string, n)
		for i := range records {
			records[i] = fmt.Sprintf(`{"name":{"first":" F%d","last":"L%d "},"addresses":[{"address":"%d Ocean Dr","zip":" 3310%d ","phone":"555-0%d"}],"specialty":"Cardiology","plans":["PPO","HMO"]}`, i, i, i, i%10, i)
		}
		got, err := Parse([]byte("[" + strings.Join(records, ",") + "]"))
		if err != nil {
			t.Fatalf("n=%d: Parse() error: %v", n, err)
		}
		if len(got) != n {
			t.Fatalf("n=%d: got %d providers", n, len(got))
		}
		for i, p := range got {
			if p.Name != strings.TrimSpace(p.Name) || p.Name != fmt.Sprintf("F%d L%d", i, i) {
				t.Errorf("n=%d: name %q not trimmed", n, p.Name)
			}
			if p.ZipCode != strings.TrimSpace(p.ZipCode) {
				t.Errorf("n=%d: zip %q not trimmed", n, p.ZipCode)
			}
		}
	}
}

func TestParse_NumericZipAndPhone(t *testing.T) {
	got, err := Parse([]byte(`[{"name":{"first":"A"},"addresses":[{"address":"x","zip":33101,"phone":3055550100}]}]`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got[0].ZipCode != "33101" {
		t.Errorf("ZipCode = %q, want 33101", got[0].ZipCode)
	}
	if got[0].Contact != "3055550100" {
		t.Errorf("Contact = %q", got[0].Contact)
	}
	if got[0].Name != "A" {
		t.Errorf("Name = %q, want A", got[0].Name)
	}
}

func TestParse_MissingFields(t *testing.T) {
	got, err := Parse([]byte(`[{}, {"addresses":[]}, "not-an-object", 42]`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d providers, want 2 (non-objects skipped)", len(got))
	}
	for _, p := range got {
		if p.Name != "" || p.Address != "" || p.ZipCode != "" || p.Contact != "" {
			t.Errorf("expected empty fields, got %+v", p)
		}
		if p.InsuranceAccepted == nil || len(p.InsuranceAccepted) != 0 {
			t.Errorf("InsuranceAccepted = %#v, want empty non-nil slice", p.InsuranceAccepted)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{invalid`},
		{"html", `<html>maintenance</html>`},
		{"object root", `{"providers":[]}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrMalformedFeed) {
				t.Fatalf("Parse() error = %v, want ErrMalformedFeed", err)
			}
		})
	}
}
