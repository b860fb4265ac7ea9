package output

import (
	"io"
	"os"
)

// Printer writes dispatcher output chunks.
type Printer interface {
	Print(chunks []string) error
}

// StdoutPrinter writes chunks to stdout exactly as produced, with no
// extra buffering or reformatting. An empty chunk list writes nothing,
// not even a trailing newline.
type StdoutPrinter struct {
	// Writer overrides the destination, for tests. Nil means stdout.
	Writer io.Writer
}

func (p StdoutPrinter) Print(chunks []string) error {
	w := p.Writer
	if w == nil {
		w = os.Stdout
	}
	for _, chunk := range chunks {
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
	}
	return nil
}
