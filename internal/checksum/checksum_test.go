package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum = %s", got)
	}
}

func TestFields_Boundaries(t *testing.T) {
	if Fields("ab", "c") == Fields("a", "bc") {
		t.Error("field boundaries ignored")
	}
	if Fields("a", "b") != Fields("a", "b") {
		t.Error("digest not stable")
	}
	if Fields() == Fields("") {
		t.Error("empty part should change the digest")
	}
}
