package procexec

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"strings"
)

// lineAccumulator collects the lines of one stream. Each accumulator is owned
// by exactly one reader goroutine, so it needs no locking.
type lineAccumulator struct {
	b strings.Builder
}

func (a *lineAccumulator) add(line string) {
	a.b.WriteString(line)
	a.b.WriteByte('\n')
}

func (a *lineAccumulator) String() string {
	return a.b.String()
}

// drain reads r line by line until EOF, appending each line to acc and
// forwarding it to onLine when set. A trailing line without a terminator is
// kept. Reads interrupted by Run closing the pipe are not errors.
func drain(r io.Reader, acc *lineAccumulator, onLine func(string)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = trimLineEnd(line)
			acc.add(line)
			if onLine != nil {
				onLine(line)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, fs.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func trimLineEnd(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
