package metadata

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FileInfo is the stat-derived metadata shown next to a preview.
type FileInfo struct {
	Name       string
	Size       int64
	SizeHuman  string
	MimeType   string
	Modified   time.Time
	IsDir      bool
	Dimensions string // "WxH" for decodable images, empty otherwise
}

// Inspect gathers filesystem metadata for the given path.
func Inspect(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}

	info := &FileInfo{
		Name:      filepath.Base(path),
		Size:      stat.Size(),
		SizeHuman: humanize.IBytes(uint64(stat.Size())),
		MimeType:  mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Modified:  stat.ModTime(),
		IsDir:     stat.IsDir(),
	}

	if strings.HasPrefix(info.MimeType, "image/") {
		if dims, err := imageDimensions(path); err == nil {
			info.Dimensions = dims
		}
	}
	return info, nil
}

// imageDimensions decodes just the image header for its pixel size.
func imageDimensions(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), nil
}
