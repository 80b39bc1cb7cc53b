package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/signintech/gopdf"

	"github.com/healthport/kiosk/internal/logger"
)

// ErrNoFont is returned when none of the font paths can be loaded.
var ErrNoFont = errors.New("no usable TTF font")

// DefaultFontPaths are tried after any configured font.
var DefaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
}

const (
	fontName   = "DejaVu"
	lineWidth  = 500
	lineHeight = 14
)

// PDF renders the receipt on an A4 page using the first loadable font.
func (r Receipt) PDF(fontPaths ...string) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	loaded := false
	for _, path := range append(fontPaths, DefaultFontPaths...) {
		if path == "" {
			continue
		}
		if err := pdf.AddTTFFont(fontName, path); err == nil {
			loaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !loaded {
		return nil, fmt.Errorf("%w: %v", ErrNoFont, fontErr)
	}

	lines := r.Lines()
	if err := pdf.SetFont(fontName, "", 18); err != nil {
		return nil, err
	}
	pdf.SetX(40)
	pdf.SetY(40)
	_ = pdf.Cell(nil, lines[0])
	pdf.Br(28)

	if err := pdf.SetFont(fontName, "", 11); err != nil {
		return nil, err
	}
	for _, line := range lines[1:] {
		if line == "" {
			pdf.Br(lineHeight / 2)
			continue
		}
		wrapped, err := pdf.SplitText(line, lineWidth)
		if err != nil {
			wrapped = []string{line}
		}
		for _, l := range wrapped {
			pdf.SetX(40)
			_ = pdf.Cell(nil, l)
			pdf.Br(lineHeight)
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Writer saves receipts under a directory.
type Writer struct {
	dir      string
	fontPath string
	log      logger.ILogger
}

func NewWriter(dir, fontPath string, log logger.ILogger) *Writer {
	if log == nil {
		log = logger.Nop{}
	}
	return &Writer{dir: dir, fontPath: fontPath, log: log}
}

// Save writes receipt_<number>.txt and, when a font is available,
// receipt_<number>.pdf. It returns the files written.
func (w *Writer) Save(r Receipt) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt dir: %w", err)
	}

	base := filepath.Join(w.dir, "receipt_"+r.Number)
	textPath := base + ".txt"
	if err := os.WriteFile(textPath, []byte(r.Text()), 0o644); err != nil {
		return nil, fmt.Errorf("write receipt: %w", err)
	}
	written := []string{textPath}

	data, err := r.PDF(w.fontPath)
	if err != nil {
		w.log.Warn("report", "pdf receipt skipped", map[string]interface{}{"receipt": r.Number, "error": err.Error()})
		return written, nil
	}
	pdfPath := base + ".pdf"
	if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
		return written, fmt.Errorf("write pdf receipt: %w", err)
	}
	w.log.Info("report", "receipt saved", map[string]interface{}{"receipt": r.Number, "dir": w.dir})
	return append(written, pdfPath), nil
}
