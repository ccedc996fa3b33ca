package node

import "testing"

func TestDerive_OrderSensitive(t *testing.T) {
	a := Derive(Root, HashLabel("a"))
	b := Derive(Root, HashLabel("b"))
	if a == b {
		t.Fatalf("distinct labels derived the same node")
	}

	// Swapping parent and label-hash bytes must change the result.
	ab := Derive(a, LabelHash(b))
	ba := Derive(b, LabelHash(a))
	if ab == ba {
		t.Fatalf("derive is not order-sensitive")
	}
}

func TestDerive_MatchesDeriveLabel(t *testing.T) {
	org := Derive(Root, HashLabel("cork"))
	got, err := DeriveLabel(Root, "cork")
	if err != nil {
		t.Fatalf("DeriveLabel: %v", err)
	}
	if got != org {
		t.Fatalf("DeriveLabel diverged from Derive+HashLabel")
	}
}

func TestDeriveLabel_InvalidLabel(t *testing.T) {
	if _, err := DeriveLabel(Root, "Bad-Label"); err == nil {
		t.Fatalf("expected invalid label error")
	}
}

func TestParse_HexRoundTrip(t *testing.T) {
	n := Derive(Root, HashLabel("cork"))
	got, err := Parse(n.String())
	if err != nil {
		t.Fatalf("Parse(hex): %v", err)
	}
	if got != n {
		t.Fatalf("hex round trip mismatch")
	}
}

func TestParse_CIDRoundTrip(t *testing.T) {
	n := Derive(Root, HashLabel("cork"))
	c := n.CID()
	if !c.Defined() {
		t.Fatalf("expected defined CID")
	}
	got, err := Parse(c.String())
	if err != nil {
		t.Fatalf("Parse(cid): %v", err)
	}
	if got != n {
		t.Fatalf("CID round trip mismatch")
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, s := range []string{"", "zz", "not-a-node", "bafybad"} {
		if _, err := Parse(s); err == nil {
			t.Fatalf("Parse(%q): expected error", s)
		}
	}
}
