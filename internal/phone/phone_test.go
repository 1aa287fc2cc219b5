package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0712345678", "254712345678"},
		{"0112345678", "254112345678"},
		{"254712345678", "254712345678"},
		{"254112345678", "254112345678"},
		{"712345678", "254712345678"},
		{"112345678", "254112345678"},
		{"+254 712 345 678", "254712345678"},
		{"0712-345-678", "254712345678"},
		{" 0712345678 ", "254712345678"},
	}
	for _, tc := range cases {
		got, err := Normalize(tc.in)
		if err != nil {
			t.Errorf("Normalize(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"12345",
		"0812345678",     // 08 is not a Kenyan mobile prefix
		"255712345678",   // Tanzanian country code
		"25471234567",    // too short
		"2547123456789",  // too long
		"07123456789",    // 11 digits
		"hello",
	}
	for _, in := range cases {
		if _, err := Normalize(in); err == nil {
			t.Errorf("Normalize(%q) accepted an invalid number", in)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("0712345678") {
		t.Error("Valid(0712345678) = false, want true")
	}
	if Valid("0812345678") {
		t.Error("Valid(0812345678) = true, want false")
	}
}
