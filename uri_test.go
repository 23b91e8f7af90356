package shttp

import "testing"

func checkDecode(t *testing.T, encoded, decoded string) {
	t.Helper()
	if got := DecodePath(encoded); got != decoded {
		t.Fatalf("DecodePath(%q) = %q, want %q", encoded, got, decoded)
	}
}

func TestDecodePath_Invariants(t *testing.T) {
	checkDecode(t, "", "")
	checkDecode(t, "foo", "foo")
	checkDecode(t, "%", "%")
	checkDecode(t, "%xyz", "%xyz")
	checkDecode(t, "address%", "address%")
	checkDecode(t, "20% discount", "20% discount")
	checkDecode(t, "100%!", "100%!")
}

func TestDecodePath_SingleByte(t *testing.T) {
	checkDecode(t, "%20", " ")
	checkDecode(t, "two%20words", "two words")
	checkDecode(t, "two%20%20spaces", "two  spaces")
	checkDecode(t, "%40label", "@label")
	checkDecode(t, "label%40", "label@")
}

func TestDecodePath_MultiByte(t *testing.T) {
	checkDecode(t, "%C2%A3", "£")
	checkDecode(t, "Price: %C2%A357", "Price: £57")
	checkDecode(t, "%E2%82%AC", "€")
	checkDecode(t, "Price: %E2%82%AC79", "Price: €79")
	checkDecode(t, "Currencies:%20$%E2%82%AC%C2%A3", "Currencies: $€£")
}
