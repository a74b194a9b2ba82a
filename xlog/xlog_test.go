package xlog

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNilLogger(t *testing.T) {
	var l Logger
	Print(l, "a")
	Printf(l, "%d", 1)
	Println(l, "b")
}

func TestStdLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	l := log.New(buf, "", 0)
	Printf(l, "bin %d", 1)
	if s := buf.String(); s != "bin 1\n" {
		t.Fatalf("output %q; want %q", s, "bin 1\n")
	}
}

func TestZerolog(t *testing.T) {
	buf := new(bytes.Buffer)
	zl := zerolog.New(buf).Level(zerolog.DebugLevel)
	l := Zerolog(zl, "cabac")
	Println(l, "state", 3)
	s := buf.String()
	for _, want := range []string{`"level":"debug"`,
		`"component":"cabac"`, `"message":"state 3"`} {
		if !strings.Contains(s, want) {
			t.Errorf("output %q doesn't contain %q", s, want)
		}
	}

	buf.Reset()
	l = Zerolog(zl.Level(zerolog.InfoLevel), "cabac")
	Print(l, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug message written at info level: %q", buf)
	}
}
