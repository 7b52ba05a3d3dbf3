package normalize

import "testing"

func TestEmail(t *testing.T) {
	in := "  Some.Guy@Example.COM  "
	want := "some.guy@example.com"
	got := Email(in)
	if got != want {
		t.Fatalf("normalize.Email(%q) = %q, want %q", in, got, want)
	}
}
