package llm

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// EncodeImage returns the file at path as a base64 data URL. When maxSide is
// positive and either side exceeds it, the image is downscaled to fit first.
func EncodeImage(path string, maxSide int) (string, error) {
	mime := "image/png"
	format := imaging.PNG
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime, format = "image/jpeg", imaging.JPEG
	}

	var data []byte
	if maxSide > 0 {
		img, err := imaging.Open(path)
		if err != nil {
			return "", fmt.Errorf("open image %s: %w", path, err)
		}
		if b := img.Bounds(); b.Dx() > maxSide || b.Dy() > maxSide {
			img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, format); err != nil {
			return "", fmt.Errorf("encode image %s: %w", path, err)
		}
		data = buf.Bytes()
	} else {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read image %s: %w", path, err)
		}
		data = b
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
