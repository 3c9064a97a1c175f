package tgui

import "testing"

func TestEsc(t *testing.T) {
	t.Parallel()
	if got := Esc(`<b> & "q"`); got != "&lt;b&gt; &amp; &#34;q&#34;" {
		t.Fatalf("Esc = %q", got)
	}
}

func TestWrappers(t *testing.T) {
	t.Parallel()
	if got := B("a<b"); got != "<b>a&lt;b</b>" {
		t.Fatalf("B = %q", got)
	}
	if got := I("x"); got != "<i>x</i>" {
		t.Fatalf("I = %q", got)
	}
}

func TestJoinHSkipsBlanks(t *testing.T) {
	t.Parallel()
	got := JoinH("\n", B("title"), H(""), H("  "), Esc("body"))
	if got != "<b>title</b>\nbody" {
		t.Fatalf("JoinH = %q", got)
	}
}
