package errs

import (
	"testing"

	"github.com/pkg/errors"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		kind     Kind
	}{
		{Config("merge coding not supported"), ErrConfig, KindConfig},
		{Exhausted("read beyond %d bytes", 4), ErrExhausted, KindExhausted},
		{Range("cmax %d", 0), ErrRange, KindRange},
	}
	all := []error{ErrConfig, ErrExhausted, ErrRange}
	for _, tc := range tests {
		wrapped := errors.Wrapf(tc.err, "stream %d", 1)
		for _, s := range all {
			want := s == tc.sentinel
			if got := errors.Is(wrapped, s); got != want {
				t.Errorf("errors.Is(%q, %q) = %t; want %t",
					wrapped, s, got, want)
			}
		}
		if k := KindOf(wrapped); k != tc.kind {
			t.Errorf("KindOf(%q) = %s; want %s", wrapped, k, tc.kind)
		}
	}
}

func TestKindOfForeign(t *testing.T) {
	if k := KindOf(errors.New("foo")); k != 0 {
		t.Fatalf("KindOf(foreign) = %s; want 0", k)
	}
}

func TestErrorString(t *testing.T) {
	err := Range("split unit size %d", 16)
	const want = "gabac: parameter out of range: split unit size 16"
	if err.Error() != want {
		t.Fatalf("err.Error() = %q; want %q", err.Error(), want)
	}
	if ErrConfig.Error() != "gabac: configuration error" {
		t.Fatalf("ErrConfig.Error() = %q", ErrConfig.Error())
	}
}
