package utils

import (
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "Backpack",
			in:   "Sauce Labs Backpack",
			want: "sauce-labs-backpack",
		},
		{
			name: "Hyphenated",
			in:   "Sauce Labs Bolt T-Shirt",
			want: "sauce-labs-bolt-t-shirt",
		},
		{
			name: "Punctuation",
			in:   "Test.allTheThings() T-Shirt (Red)",
			want: "test.allthethings()-t-shirt-(red)",
		},
		{
			name: "ExtraWhitespace",
			in:   "  Sauce   Labs Onesie ",
			want: "sauce-labs-onesie",
		},
		{
			name: "Empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{name: "Plain", in: "$29.99", want: 29.99},
		{name: "Labelled", in: "Total: $32.39", want: 32.39},
		{name: "Whole", in: "$7", want: 7},
		{name: "NoDollar", in: "29.99", wantErr: true},
		{name: "Garbage", in: "$abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParsePrice(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(29.99); got != "$29.99" {
		t.Errorf("FormatPrice(29.99) = %q", got)
	}
	if got := FormatPrice(7); got != "$7.00" {
		t.Errorf("FormatPrice(7) = %q", got)
	}
}
