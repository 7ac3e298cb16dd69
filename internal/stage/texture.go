package stage

import (
	"github.com/h2non/filetype"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/logger"
)

// TextureStats reports the texture pass results.
type TextureStats struct {
	Images     int
	FixedMIME  int
	WebP       int
	Unreadable int
}

// FixTextureMIME sniffs every embedded image payload and corrects its
// declared MIME type. Actual recompression is the final compressor's
// job; this pass only makes sure the metadata it sees is truthful, and
// counts how much of the texture set is already WebP.
func FixTextureMIME(doc *gltf.Document) *TextureStats {
	stats := &TextureStats{Images: len(doc.Images)}

	for i, img := range doc.Images {
		data := imageData(doc, img)
		if data == nil {
			stats.Unreadable++
			continue
		}
		kind, err := filetype.Match(data)
		if err != nil || kind == filetype.Unknown {
			stats.Unreadable++
			continue
		}
		if kind.MIME.Value == "image/webp" {
			stats.WebP++
		}
		if img.MimeType != kind.MIME.Value {
			logger.Debug("correcting image mime type",
				zap.Int("image", i),
				zap.String("declared", img.MimeType),
				zap.String("actual", kind.MIME.Value))
			img.MimeType = kind.MIME.Value
			stats.FixedMIME++
		}
	}

	logger.Debug("texture pass",
		zap.Int("images", stats.Images),
		zap.Int("fixedMime", stats.FixedMIME),
		zap.Int("webp", stats.WebP))
	return stats
}

// imageData returns an image's embedded payload, or nil when the image
// is external or its buffer view is out of range.
func imageData(doc *gltf.Document, img *gltf.Image) []byte {
	if img.BufferView == nil {
		return nil
	}
	if int(*img.BufferView) >= len(doc.BufferViews) {
		return nil
	}
	bv := doc.BufferViews[*img.BufferView]
	if int(bv.Buffer) >= len(doc.Buffers) {
		return nil
	}
	buf := doc.Buffers[bv.Buffer].Data
	offset, length := int(bv.ByteOffset), int(bv.ByteLength)
	if offset+length > len(buf) {
		return nil
	}
	return buf[offset : offset+length]
}
