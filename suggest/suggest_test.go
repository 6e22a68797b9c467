package suggest_test

import (
	"fmt"
	"testing"

	"github.com/func/hcl/suggest"
)

func ExampleString() {
	userProvided := "regoin"
	candidates := []string{"region", "retries", "rule"}

	suggestion := suggest.String(userProvided, candidates)
	fmt.Printf("Did you mean %q?", suggestion)
	// Output: Did you mean "region"?
}

func TestString(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		candidates []string
		want       string
	}{
		{"Exact", "foo", []string{"bar", "foo"}, "foo"},
		{"OneEdit", "boo", []string{"bar", "foo"}, "foo"},
		{"NoMatch", "zz", []string{"bar", "foo"}, ""},
		{"Closest", "retriex", []string{"retries", "regions"}, "retries"},
		{"Long", "max_retry_cont", []string{"max_retry_count", "max_rate"}, "max_retry_count"},
		{"TieBreaksAlphabetically", "ac", []string{"ad", "ab"}, "ab"},
		{"Empty", "x", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := suggest.String(tt.input, tt.candidates)
			if got != tt.want {
				t.Errorf("String(%q, %v) got = %q, want = %q", tt.input, tt.candidates, got, tt.want)
			}
		})
	}
}
