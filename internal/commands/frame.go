package commands

import (
	"bytes"
	"io"
)

const clearScreen = "\x1b[H\x1b[2J"

// screenFrame collects one redraw of the watch output and hands it to the
// terminal in a single write. A terminal frame starts by homing the cursor
// and clearing the screen; a JSON frame is written as is.
type screenFrame struct {
	buf      bytes.Buffer
	terminal bool
}

func newScreenFrame(terminal bool) *screenFrame {
	f := &screenFrame{terminal: terminal}
	f.reset()
	return f
}

func (f *screenFrame) reset() {
	f.buf.Reset()
	if f.terminal {
		f.buf.WriteString(clearScreen)
	}
}

func (f *screenFrame) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

// empty reports whether nothing but the clear prefix was written.
func (f *screenFrame) empty() bool {
	if f.terminal {
		return f.buf.Len() == len(clearScreen)
	}
	return f.buf.Len() == 0
}

// flush writes the frame to w and starts the next one. An empty frame is
// dropped so the screen is never cleared without a board to replace it.
func (f *screenFrame) flush(w io.Writer) error {
	defer f.reset()
	if f.empty() {
		return nil
	}
	_, err := w.Write(f.buf.Bytes())
	return err
}
