package analytics

import (
	"errors"
	"reflect"
	"testing"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		ok     bool
	}{
		{"defaults are valid", func(*Options) {}, true},
		{"zero half-life disables decay", func(o *Options) { o.DecayHalfLifeDays = 0 }, true},
		{"negative half-life", func(o *Options) { o.DecayHalfLifeDays = -1 }, false},
		{"zero folder depth", func(o *Options) { o.FolderDepth = 0 }, false},
		{"threshold above one", func(o *Options) { o.CoverageThreshold = 1.5 }, false},
		{"negative threshold", func(o *Options) { o.CoverageThreshold = -0.2 }, false},
		{"threshold bounds", func(o *Options) { o.CoverageThreshold = 1.0 }, true},
		{"zero percentile", func(o *Options) { o.BottleneckPercentile = 0 }, false},
		{"negative inactivity", func(o *Options) { o.InactivityDays = -5 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidOption) {
				t.Errorf("err = %v, want ErrInvalidOption", err)
			}
		})
	}
}

func TestCategoryOrderFixed(t *testing.T) {
	_, order := DefaultOptions().categories()
	if order[0] != "feat" || order[1] != "fix" {
		t.Fatalf("order = %v, want feat then fix first", order)
	}
	rest := order[2:]
	sorted := append([]string(nil), rest...)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1] > sorted[i] {
			t.Errorf("rest of categories not alphabetical: %v", rest)
		}
	}
	// other is always present as the unmatched bucket.
	found := false
	for _, cat := range order {
		if cat == "other" {
			found = true
		}
	}
	if !found {
		t.Errorf("order = %v, missing other bucket", order)
	}
}

func TestCategoriesCustomMap(t *testing.T) {
	opts := DefaultOptions()
	opts.CategoryPrefixes = map[string]string{"feat": "feat", "sec": "security"}
	prefixes, order := opts.categories()
	if prefixes["sec"] != "security" {
		t.Errorf("prefixes = %v, want custom mapping honored", prefixes)
	}
	want := []string{"feat", "other", "security"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}
