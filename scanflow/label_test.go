package scanflow

import "testing"

func TestParseLabel_Valid(t *testing.T) {
	label, err := ParseLabel("P1;5;LOT1;;;;DN001")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if label.PartNo != "P1" || label.Qty != 5 || label.LotNo != "LOT1" || label.DNNumber != "DN001" {
		t.Fatalf("unexpected label: %+v", label)
	}
}

func TestParseLabel_IgnoresMiddleFields(t *testing.T) {
	label, err := ParseLabel("P2;1;LOTX;carrier;box;weight;DN777;trailing")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if label.PartNo != "P2" || label.DNNumber != "DN777" {
		t.Fatalf("unexpected label: %+v", label)
	}
}

func TestParseLabel_Rejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"too few fields", "P1;5;LOT1;DN001"},
		{"zero qty", "P1;0;LOT1;;;;DN001"},
		{"negative qty", "P1;-2;LOT1;;;;DN001"},
		{"non-numeric qty", "P1;five;LOT1;;;;DN001"},
		{"empty part", ";5;LOT1;;;;DN001"},
		{"empty lot", "P1;5;;;;;DN001"},
		{"empty dn", "P1;5;LOT1;;;;"},
	}
	for _, tc := range cases {
		if _, err := ParseLabel(tc.raw); err != ErrInvalidFormat {
			t.Fatalf("%s: expected ErrInvalidFormat, got %v", tc.name, err)
		}
	}
}

func TestLooksLikeDN(t *testing.T) {
	if !LooksLikeDN("DN001234") {
		t.Fatalf("expected DN001234 to match")
	}
	if !LooksLikeDN("dn001234") {
		t.Fatalf("prefix match must be case-insensitive")
	}
	if LooksLikeDN("DN0012") {
		t.Fatalf("short value must not match")
	}
	if LooksLikeDN("XX001234") {
		t.Fatalf("wrong prefix must not match")
	}
}

func TestLooksLikeLabel(t *testing.T) {
	if !LooksLikeLabel("P1;50;LOTABC;;;;DN00123") {
		t.Fatalf("expected label heuristic to match")
	}
	if LooksLikeLabel("P1;5;L;DN1") {
		t.Fatalf("short value must not match")
	}
	if LooksLikeLabel("this is twenty characters") {
		t.Fatalf("value without delimiter must not match")
	}
}
