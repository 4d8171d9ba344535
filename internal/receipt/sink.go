package receipt

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// cut is the ESC/POS full-cut command (GS V 0).
const cut = "\x1dV\x00"

type Sink interface {
	Print(ctx context.Context, r Receipt) error
}

// FileSink writes one text file per receipt into Dir.
type FileSink struct {
	Dir string
	now func() time.Time
}

func NewFileSink(dir string) *FileSink { return &FileSink{Dir: dir, now: time.Now} }

func (s *FileSink) Print(_ context.Context, r Receipt) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("receipt dir: %w", err)
	}
	var first int64
	if len(r.OrderIDs) > 0 {
		first = r.OrderIDs[0]
	}
	name := fmt.Sprintf("receipt_%d_%s.txt", first, s.now().Format("20060102_150405.000"))
	return os.WriteFile(filepath.Join(s.Dir, name), []byte(Render(r)), 0o644)
}

// PrinterSink streams the rendered receipt to a raw TCP receipt printer (port 9100
// style) and ends with a paper cut.
type PrinterSink struct {
	Addr    string
	Timeout time.Duration
}

func NewPrinterSink(addr string, timeout time.Duration) *PrinterSink {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &PrinterSink{Addr: addr, Timeout: timeout}
}

func (s *PrinterSink) Print(ctx context.Context, r Receipt) error {
	d := net.Dialer{Timeout: s.Timeout}
	conn, err := d.DialContext(ctx, "tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("dial printer %s: %w", s.Addr, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(s.Timeout))
	if _, err := conn.Write([]byte(Render(r) + "\n\n\n" + cut)); err != nil {
		return fmt.Errorf("write printer %s: %w", s.Addr, err)
	}
	return nil
}
