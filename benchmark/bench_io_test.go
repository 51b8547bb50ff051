//nolint:testpackage // using package name 'benchmark' to access unexported fields for testing
package benchmark

import (
	"bytes"
	"io"
	"testing"

	snapio "github.com/dzonerzy/go-argline/io"
)

// Category: io

func BenchmarkIO_Style(b *testing.B) {
	m := snapio.New().WithOut(io.Discard).ForceColor()
	style := snapio.NewStyle().Fg(snapio.Cyan).Bold()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = style.Sprint(m, "hello world")
	}
}

func BenchmarkIO_Logger(b *testing.B) {
	m := snapio.New().WithOut(io.Discard).WithErr(io.Discard).NoColor()
	logger := snapio.NewLogger(m).WithFormat(snapio.LogFormatTagged)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("parsed %d tokens", i)
	}
}

func BenchmarkKeyDecoder(b *testing.B) {
	// Plain text, Up, Ctrl+Right, Delete, an SS3 Home and Enter.
	input := []byte("abc\x1b[A\x1b[1;5C\x1b[3~\x1bOH\r")
	r := bytes.NewReader(nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Reset(input)
		d := snapio.NewKeyDecoder(r)
		for {
			if _, err := d.ReadKey(); err != nil {
				break
			}
		}
	}
}

func BenchmarkVirtualConsole_Write(b *testing.B) {
	console := snapio.NewVirtualConsole(80, 24)
	line := "the quick brown fox jumps over the lazy dog\n"
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		console.Write(line)
	}
}
