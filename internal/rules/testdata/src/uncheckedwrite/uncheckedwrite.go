package uncheckedwrite

import (
	"bytes"
	"io"
	"os"
	"strings"
)

type sink struct{}

func (sink) Write(p []byte) (int, error) { return len(p), nil }

type logger struct{}

func (logger) Write(s string) {}

func writes(w io.Writer, f *os.File, data []byte) error {
	w.Write(data)      // want `error returned by Writer.Write is not checked`
	f.Write(data)      // want `error returned by File.Write is not checked`
	sink{}.Write(data) // want `error returned by sink.Write is not checked`
	logger{}.Write("ignored")

	var buf bytes.Buffer
	buf.Write(data)
	var sb strings.Builder
	sb.Write(data)

	_, _ = w.Write(data)
	if _, err := f.Write(data); err != nil {
		return err
	}
	return nil
}
