package resolve

import (
	"reflect"
	"testing"
)

func TestPrefix(t *testing.T) {
	ids := []string{
		"a1b2c3d4-0000-0000-0000-000000000001",
		"a1f9e8d7-0000-0000-0000-000000000002",
		"b7c6d5e4-0000-0000-0000-000000000003",
	}

	tests := []struct {
		name    string
		prefix  string
		want    Kind
		wantIDs []string
	}{
		{"unique short prefix", "b7", One, []string{ids[2]}},
		{"ambiguous prefix", "a1", Ambiguous, []string{ids[0], ids[1]}},
		{"longer prefix disambiguates", "a1b", One, []string{ids[0]}},
		{"no match", "zz", None, nil},
		{"empty prefix never matches", "", None, nil},
		{"full identifier matches itself", ids[1], One, []string{ids[1]}},
		{"case sensitive", "A1", None, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Prefix(tt.prefix, ids)
			if got.Kind != tt.want {
				t.Fatalf("Kind: got %v, want %v", got.Kind, tt.want)
			}
			if !reflect.DeepEqual(got.IDs, tt.wantIDs) {
				t.Errorf("IDs: got %v, want %v", got.IDs, tt.wantIDs)
			}
		})
	}
}

func TestResolutionID(t *testing.T) {
	one := Resolution{Kind: One, IDs: []string{"abc"}}
	if got := one.ID(); got != "abc" {
		t.Errorf("ID: got %q, want abc", got)
	}
	amb := Resolution{Kind: Ambiguous, IDs: []string{"a", "b"}}
	if got := amb.ID(); got != "" {
		t.Errorf("ID of ambiguous resolution: got %q, want empty", got)
	}
	if got := (Resolution{Kind: None}).ID(); got != "" {
		t.Errorf("ID of empty resolution: got %q, want empty", got)
	}
}

func TestPrefixAmbiguousSorted(t *testing.T) {
	ids := []string{"ab-late", "aa-early", "ac-mid"}
	got := Prefix("a", ids)
	want := []string{"aa-early", "ab-late", "ac-mid"}
	if got.Kind != Ambiguous || !reflect.DeepEqual(got.IDs, want) {
		t.Errorf("got %v %v, want Ambiguous %v", got.Kind, got.IDs, want)
	}
}
