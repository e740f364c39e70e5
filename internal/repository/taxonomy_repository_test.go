package repository

import (
	"reflect"
	"testing"
)

func TestSplitSet(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"khasi", []string{"khasi"}},
		{"khasi,garo", []string{"khasi", "garo"}},
		{"khasi, ,garo,", []string{"khasi", "garo"}},
	}
	for _, tc := range cases {
		if got := splitSet(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitSet(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMergeSetAddsLowercasedSorted(t *testing.T) {
	set, added := mergeSet([]string{"garo", "khasi"}, "  Mising ")
	if !added {
		t.Fatal("expected new value to report added")
	}
	if !reflect.DeepEqual(set, []string{"garo", "khasi", "mising"}) {
		t.Fatalf("set = %v", set)
	}
}

func TestMergeSetDeduplicates(t *testing.T) {
	set, added := mergeSet([]string{"garo", "khasi"}, "KHASI")
	if added {
		t.Fatal("duplicate should not report added")
	}
	if !reflect.DeepEqual(set, []string{"garo", "khasi"}) {
		t.Fatalf("set = %v", set)
	}
}

func TestMergeSetIgnoresEmpty(t *testing.T) {
	set, added := mergeSet([]string{"garo"}, "   ")
	if added {
		t.Fatal("blank value should not report added")
	}
	if !reflect.DeepEqual(set, []string{"garo"}) {
		t.Fatalf("set = %v", set)
	}
}
