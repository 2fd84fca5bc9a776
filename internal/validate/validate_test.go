package validate

import "testing"

func TestIsValidSpanishTaxID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"12345678Z", true},  // NIF, correct control letter
		{"12345678A", false}, // NIF, wrong control letter
		{"X1234567L", true},  // NIE
		{"Y1234567X", true},  // NIE with Y prefix (maps to 1)
		{"X1234567T", false},
		{"A58818501", true},  // CIF, A requires numeric control
		{"A58818502", false}, // mutated control digit
		{"B12345678", false}, // 8 digits after the letter, wrong shape
		{"P1234567D", true},  // CIF, P requires control letter (sum=26 → 4 → D)
		{"P12345674", false}, // same body with numeric control must fail for P
		{"G12345674", true},  // G accepts either form
		{"G1234567D", true},
		{"a58818501", true}, // lowercased input is normalized
		{"12345678-Z", true},
		{"", false},
		{"notanid", false},
	}
	for _, c := range cases {
		if got := IsValidSpanishTaxID(c.id); got != c.want {
			t.Errorf("IsValidSpanishTaxID(%q) = %v, want %v", c.id, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"a@b.c", true},
		{"a@b", false},
		{"a.b.com", false},
		{"pedro.garcia@textil.es", true},
		{"con espacios@b.c", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsValidEmail(c.email); got != c.want {
			t.Errorf("IsValidEmail(%q) = %v, want %v", c.email, got, c.want)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"612345678", true},
		{"912 345 678", true},
		{"512345678", false}, // must start with 6/7/8/9
		{"61234567", false},  // 8 digits
		{"6123456789", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsValidPhone(c.phone); got != c.want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", c.phone, got, c.want)
		}
	}
}
