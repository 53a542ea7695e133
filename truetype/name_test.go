package truetype

import (
	"testing"

	xsfnt "golang.org/x/image/font/sfnt"
)

func TestNameMatchesOracle(t *testing.T) {
	f := parseGoRegular(t)
	oracle := oracleFont(t)
	var buf xsfnt.Buffer

	want, err := oracle.Name(&buf, xsfnt.NameIDFamily)
	if err != nil {
		t.Fatalf("oracle Name: %v", err)
	}
	if got := f.FamilyName(); got != want {
		t.Errorf("FamilyName = %q, want %q", got, want)
	}

	want, err = oracle.Name(&buf, xsfnt.NameIDFull)
	if err != nil {
		t.Fatalf("oracle Name: %v", err)
	}
	if got := f.FullName(); got != want {
		t.Errorf("FullName = %q, want %q", got, want)
	}
}

func TestNameAccessorsOnMissingTable(t *testing.T) {
	f := &Font{}
	if f.FamilyName() != "" || f.FullName() != "" || f.PostScriptName() != "" {
		t.Error("missing name table should yield empty names")
	}
}
