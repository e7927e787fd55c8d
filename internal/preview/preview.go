package preview

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/ledongthuc/pdf"

	"ferret/internal/logging"
)

// Kind identifies which rendering path produced a preview.
type Kind int

const (
	KindText Kind = iota
	KindMarkdown
	KindImage
	KindPDF
	KindDocument
	KindVideo
	KindDirectory
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMarkdown:
		return "markdown"
	case KindImage:
		return "image"
	case KindPDF:
		return "pdf"
	case KindDocument:
		return "document"
	case KindVideo:
		return "video"
	case KindDirectory:
		return "directory"
	default:
		return "unsupported"
	}
}

// Preview is a rendered, display-ready representation of a file.
type Preview struct {
	Kind      Kind
	Content   string
	Truncated bool
}

// textLimit caps how much of a text file is read for display.
const textLimit = 5000

var textExtensions = map[string]bool{
	".txt": true, ".log": true, ".json": true, ".yaml": true, ".yml": true,
	".toml": true, ".ini": true, ".csv": true, ".xml": true, ".html": true,
	".css": true, ".js": true, ".ts": true, ".go": true, ".py": true,
	".rs": true, ".c": true, ".h": true, ".sh": true, ".sql": true,
	".cfg": true, ".conf": true, ".env": true,
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

var documentExtensions = map[string]bool{
	".doc": true, ".docx": true, ".odt": true, ".rtf": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true, ".webm": true,
}

// Generator renders previews. The markdown renderer is built once and
// rebuilt on width changes. Generate runs off the event loop while
// SetWidth runs on it, so the mutex covers both.
type Generator struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
	dark     bool
}

func NewGenerator(width int, dark bool) *Generator {
	g := &Generator{dark: dark}
	g.SetWidth(width)
	return g
}

// SetWidth rebuilds the markdown renderer for a new pane width.
func (g *Generator) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.width = width
	if g.dark {
		g.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
	} else {
		g.renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(width),
		)
	}
}

// Generate renders a preview for path. Unreadable or unrecognized files
// come back as KindUnsupported with an explanatory line, never an error
// that would interrupt browsing.
func (g *Generator) Generate(path string) Preview {
	g.mu.Lock()
	defer g.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		return Preview{Kind: KindUnsupported, Content: fmt.Sprintf("Cannot read %s: %v", filepath.Base(path), err)}
	}
	if info.IsDir() {
		return g.directoryPreview(path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".md" || ext == ".markdown":
		return g.markdownPreview(path)
	case imageExtensions[ext]:
		return g.imagePreview(path, info)
	case ext == ".pdf":
		return g.pdfPreview(path)
	case documentExtensions[ext]:
		return documentPreview(path, info, ext)
	case videoExtensions[ext]:
		return videoPreview(path, info, ext)
	case textExtensions[ext]:
		return g.textPreview(path)
	}

	// Unknown extension: sniff the head and treat valid UTF-8 as text.
	if looksLikeText(path) {
		return g.textPreview(path)
	}
	return Preview{
		Kind:    KindUnsupported,
		Content: fmt.Sprintf("%s\n%s, no preview available", filepath.Base(path), humanize.IBytes(uint64(info.Size()))),
	}
}

func (g *Generator) textPreview(path string) Preview {
	f, err := os.Open(path)
	if err != nil {
		return Preview{Kind: KindUnsupported, Content: fmt.Sprintf("Cannot open: %v", err)}
	}
	defer f.Close()

	buf := make([]byte, textLimit+1)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Preview{Kind: KindUnsupported, Content: fmt.Sprintf("Cannot read: %v", err)}
	}

	truncated := n > textLimit
	if truncated {
		n = textLimit
	}
	content := string(buf[:n])
	if truncated {
		content += "\n\n[... truncated ...]"
	}
	return Preview{Kind: KindText, Content: content, Truncated: truncated}
}

func (g *Generator) markdownPreview(path string) Preview {
	raw := g.textPreview(path)
	if raw.Kind != KindText {
		return raw
	}
	if g.renderer == nil {
		return Preview{Kind: KindMarkdown, Content: raw.Content, Truncated: raw.Truncated}
	}
	rendered, err := g.renderer.Render(raw.Content)
	if err != nil {
		logging.Preview("markdown render failed for %s: %v", path, err)
		return Preview{Kind: KindMarkdown, Content: raw.Content, Truncated: raw.Truncated}
	}
	return Preview{Kind: KindMarkdown, Content: rendered, Truncated: raw.Truncated}
}

func (g *Generator) imagePreview(path string, info os.FileInfo) Preview {
	f, err := os.Open(path)
	if err != nil {
		return Preview{Kind: KindUnsupported, Content: fmt.Sprintf("Cannot open: %v", err)}
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Preview{Kind: KindUnsupported, Content: fmt.Sprintf("Unrecognized image: %v", err)}
	}
	content := fmt.Sprintf("%s\n%s image, %dx%d px, %s",
		filepath.Base(path), strings.ToUpper(format), cfg.Width, cfg.Height,
		humanize.IBytes(uint64(info.Size())))
	return Preview{Kind: KindImage, Content: content}
}

// pdfPreviewLimit caps extracted PDF text, matching the text preview cap.
const pdfPreviewLimit = textLimit

func (g *Generator) pdfPreview(path string) Preview {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Preview{Kind: KindUnsupported, Content: fmt.Sprintf("Cannot open PDF: %v", err)}
	}
	defer f.Close()

	pages := r.NumPage()
	header := fmt.Sprintf("%s (%d page(s))\n\n", filepath.Base(path), pages)

	reader, err := r.GetPlainText()
	if err != nil {
		logging.Preview("pdf text extraction failed for %s: %v", path, err)
		return Preview{Kind: KindPDF, Content: header + "[text extraction failed]"}
	}
	var text bytes.Buffer
	if _, err := io.CopyN(&text, reader, pdfPreviewLimit+1); err != nil && err != io.EOF {
		return Preview{Kind: KindPDF, Content: header + "[text extraction failed]"}
	}

	body := text.String()
	truncated := len(body) > pdfPreviewLimit
	if truncated {
		body = body[:pdfPreviewLimit] + "\n\n[... truncated ...]"
	}
	return Preview{Kind: KindPDF, Content: header + body, Truncated: truncated}
}

// documentPreview summarizes word-processor files whose contents are not
// extractable here: format and size only.
func documentPreview(path string, info os.FileInfo, ext string) Preview {
	label := strings.ToUpper(strings.TrimPrefix(ext, "."))
	content := fmt.Sprintf("%s\n%s document, %s",
		filepath.Base(path), label, humanize.IBytes(uint64(info.Size())))
	return Preview{Kind: KindDocument, Content: content}
}

// videoPreview summarizes video files: container and size only.
func videoPreview(path string, info os.FileInfo, ext string) Preview {
	label := strings.ToUpper(strings.TrimPrefix(ext, "."))
	content := fmt.Sprintf("%s\n%s video, %s",
		filepath.Base(path), label, humanize.IBytes(uint64(info.Size())))
	return Preview{Kind: KindVideo, Content: content}
}

func (g *Generator) directoryPreview(path string) Preview {
	entries, err := os.ReadDir(path)
	if err != nil {
		return Preview{Kind: KindUnsupported, Content: fmt.Sprintf("Cannot read directory: %v", err)}
	}
	dirs, files := 0, 0
	for _, e := range entries {
		if e.IsDir() {
			dirs++
		} else {
			files++
		}
	}
	content := fmt.Sprintf("%s%c\n%d folder(s), %d file(s)",
		filepath.Base(path), filepath.Separator, dirs, files)
	return Preview{Kind: KindDirectory, Content: content}
}

// looksLikeText reads the first KB and checks for valid, NUL-free UTF-8.
func looksLikeText(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 1024)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false
	}
	if n == 0 {
		return true
	}
	head := buf[:n]
	if bytes.IndexByte(head, 0) >= 0 {
		return false
	}
	// The read may split a multi-byte rune at the boundary; allow up to
	// three trailing bytes to be dropped before declaring it binary.
	for i := 0; i < 4 && len(head) > 0; i++ {
		if utf8.Valid(head) {
			return true
		}
		head = head[:len(head)-1]
	}
	return false
}
