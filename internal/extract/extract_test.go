package extract

import "testing"

func TestMinimumCount(t *testing.T) {
	n, ok := MinimumCount("minimum 3 projets similaires réalisés", `projets?`)
	if !ok || n != 3 {
		t.Fatalf("expected (3, true), got (%d, %v)", n, ok)
	}

	n, ok = MinimumCount("Minimum 10 salariés pour assurer les délais", `salariés|employés|personnes`)
	if !ok || n != 10 {
		t.Fatalf("expected (10, true), got (%d, %v)", n, ok)
	}

	if _, ok := MinimumCount("une solide expérience", `projets?`); ok {
		t.Fatal("expected a miss on text without a minimum requirement")
	}
}

func TestCount(t *testing.T) {
	n, ok := Count("5 projets similaires dans le nucléaire", `projets?`)
	if !ok || n != 5 {
		t.Fatalf("expected (5, true), got (%d, %v)", n, ok)
	}

	n, ok = Count("réalisation d'1 projet pilote", `projets?`)
	if !ok || n != 1 {
		t.Fatalf("expected (1, true), got (%d, %v)", n, ok)
	}

	if _, ok := Count("aucune référence", `projets?`); ok {
		t.Fatal("expected a miss on text without a count")
	}
}

func TestMonetaryAmount(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"12M€", 12_000_000},
		{"500k€", 500_000},
		{"500 K", 500_000},
		{"2,5m€", 2_500_000},
		{"75000€", 75_000},
		{"CA : 3.2 M€ en 2023", 3_200_000},
	}

	for _, tc := range cases {
		got, ok := MonetaryAmount(tc.text)
		if !ok {
			t.Fatalf("%q: expected a match", tc.text)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.text, tc.want, got)
		}
	}

	if _, ok := MonetaryAmount("non communiqué"); ok {
		t.Fatal("expected a miss on text without an amount")
	}
}

func TestDepartmentToken(t *testing.T) {
	code, name := DepartmentToken("75 - Paris")
	if code != "75" || name != "paris" {
		t.Fatalf("unexpected token: (%q, %q)", code, name)
	}

	code, name = DepartmentToken("971-Guadeloupe")
	if code != "971" || name != "guadeloupe" {
		t.Fatalf("unexpected token: (%q, %q)", code, name)
	}

	code, name = DepartmentToken("  Île-de-France ")
	if code != "" || name != "île-de-france" {
		t.Fatalf("unexpected token without code: (%q, %q)", code, name)
	}
}

func TestDepartmentCodes(t *testing.T) {
	codes := DepartmentCodes("intervention sur les départements 75, 92 et 971")
	if len(codes) != 3 || codes[0] != "75" || codes[1] != "92" || codes[2] != "971" {
		t.Fatalf("unexpected codes: %v", codes)
	}

	if codes := DepartmentCodes("toute la France"); len(codes) != 0 {
		t.Fatalf("expected no codes, got %v", codes)
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(5, 3); got != 100 {
		t.Fatalf("expected capped 100, got %d", got)
	}

	if got := Ratio(2, 4); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}

	if got := Ratio(1, 3); got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}

	if got := Ratio(3, 0); got != 0 {
		t.Fatalf("expected 0 for missing requirement, got %d", got)
	}
}
