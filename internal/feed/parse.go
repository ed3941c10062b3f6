package feed

import (
	"fmt"
	"strings"

	"github.com/ferro-labs/carefinder/providers"
	"github.com/tidwall/gjson"
)

// Parse normalizes a feed document: a JSON array of provider records.
// Entries that are not JSON objects are skipped.
func Parse(data []byte) ([]providers.Provider, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedFeed
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: top-level value is %s, want array", ErrMalformedFeed, root.Type)
	}

	out := make([]providers.Provider, 0, len(root.Array()))
	root.ForEach(func(_, record gjson.Result) bool {
		if record.IsObject() {
			out = append(out, normalize(record))
		}
		return true
	})
	return out, nil
}

// normalize maps one feed record onto a Provider. Only the first address
// entry is used; absent fields become empty strings.
func normalize(record gjson.Result) providers.Provider {
	first := record.Get("name.first").String()
	last := record.Get("name.last").String()
	addr := record.Get("addresses.0")

	return providers.Provider{
		Name:              strings.TrimSpace(first + " " + last),
		Address:           addr.Get("address").String(),
		Specialty:         record.Get("specialty").String(),
		InsuranceAccepted: plans(record.Get("plans")),
		Contact:           addr.Get("phone").String(),
		ZipCode:           strings.TrimSpace(addr.Get("zip").String()),
	}
}

func plans(v gjson.Result) []string {
	out := []string{}
	switch {
	case v.IsArray():
		for _, p := range v.Array() {
			out = append(out, p.String())
		}
	case v.Exists() && v.Type != gjson.Null:
		out = append(out, v.String())
	}
	return out
}
