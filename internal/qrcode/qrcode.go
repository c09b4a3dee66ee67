package qrcode

import (
	"fmt"
	"os"
	"path/filepath"

	qr "github.com/skip2/go-qrcode"
)

// PublicPrefix is the URL path under which generated images are served.
const PublicPrefix = "/public/qrcodes"

const imageSize = 256

// FileGenerator writes one PNG per advisor into dir.
type FileGenerator struct {
	dir     string
	baseURL string
}

// NewFileGenerator creates dir if needed. baseURL is the public origin of the form.
func NewFileGenerator(dir, baseURL string) (*FileGenerator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create qr code dir: %w", err)
	}
	return &FileGenerator{dir: dir, baseURL: baseURL}, nil
}

func (g *FileGenerator) Dir() string {
	return g.dir
}

// FeedbackURL is the address encoded into the advisor's QR code.
func (g *FileGenerator) FeedbackURL(advisorID string) string {
	return fmt.Sprintf("%s/api/feedback/%s", g.baseURL, advisorID)
}

// Generate renders the QR code and returns its public image path.
func (g *FileGenerator) Generate(advisorID string) (string, error) {
	path := filepath.Join(g.dir, advisorID+".png")
	if err := qr.WriteFile(g.FeedbackURL(advisorID), qr.Medium, imageSize, path); err != nil {
		return "", fmt.Errorf("write qr code for %s: %w", advisorID, err)
	}
	return fmt.Sprintf("%s/%s.png", PublicPrefix, advisorID), nil
}
