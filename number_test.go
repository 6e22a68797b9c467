package hcl_test

import (
	"testing"

	"github.com/func/hcl"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		str     string
		isInt   bool
		wantErr bool
	}{
		{name: "Int", input: "42", str: "42", isInt: true},
		{name: "Zero", input: "0", str: "0", isInt: true},
		{name: "LargeUint", input: "18446744073709551615", str: "18446744073709551615", isInt: true},
		{name: "OverflowsToFloat", input: "18446744073709551616", str: "1.8446744073709552e+19"},
		{name: "Float", input: "1.5", str: "1.5"},
		{name: "Exponent", input: "1.5e2", str: "150.0"},
		{name: "NegativeExponent", input: "25e-2", str: "0.25"},
		{name: "Empty", input: "", wantErr: true},
		{name: "Junk", input: "12abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := hcl.ParseNumber(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseNumber(%q) err = nil, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNumber(%q) err = %v", tt.input, err)
			}
			if got := n.String(); got != tt.str {
				t.Errorf("String() got = %q, want = %q", got, tt.str)
			}
			if got := n.IsInt(); got != tt.isInt {
				t.Errorf("IsInt() got = %t, want = %t", got, tt.isInt)
			}
		})
	}
}

func TestNumberNegate(t *testing.T) {
	tests := []struct {
		name string
		n    *hcl.Number
		want string
	}{
		{name: "Positive", n: hcl.IntNumber(3), want: "-3"},
		{name: "Negative", n: hcl.IntNumber(-3), want: "3"},
		{name: "Zero", n: hcl.IntNumber(0), want: "0"},
		{name: "Float", n: hcl.FloatNumber(1.5), want: "-1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.n.Negate().String()
			if got != tt.want {
				t.Errorf("Negate() got = %q, want = %q", got, tt.want)
			}
		})
	}
}

func TestNumberEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *hcl.Number
		want bool
	}{
		{name: "Ints", a: hcl.IntNumber(1), b: hcl.IntNumber(1), want: true},
		{name: "IntFloat", a: hcl.IntNumber(2), b: hcl.FloatNumber(2.0), want: true},
		{name: "Different", a: hcl.IntNumber(1), b: hcl.IntNumber(2), want: false},
		{name: "Uint", a: hcl.UintNumber(7), b: hcl.IntNumber(7), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() got = %t, want = %t", got, tt.want)
			}
		})
	}
}

func TestFloatNumberNonFinite(t *testing.T) {
	if n := hcl.FloatNumber(1.0); n == nil {
		t.Error("FloatNumber(1.0) = nil, want number")
	}
	nan := 0.0
	if n := hcl.FloatNumber(nan / nan); n != nil {
		t.Errorf("FloatNumber(NaN) = %v, want nil", n)
	}
}

func TestNumberAccessors(t *testing.T) {
	n := hcl.UintNumber(1 << 63)
	if _, ok := n.AsInt64(); ok {
		t.Error("AsInt64() ok for value above int64 range")
	}
	if u, ok := n.AsUint64(); !ok || u != 1<<63 {
		t.Errorf("AsUint64() got = %d, %t", u, ok)
	}
	if f := hcl.IntNumber(-2).AsFloat64(); f != -2 {
		t.Errorf("AsFloat64() got = %v, want -2", f)
	}
}
