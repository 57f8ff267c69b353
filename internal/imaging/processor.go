// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging processes post images using pure Go libraries.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

const (
	// MaxImageWidth bounds stored post images; larger uploads are scaled down.
	MaxImageWidth = 1600

	// ThumbWidth and ThumbHeight are the cropped feed thumbnail size.
	ThumbWidth  = 400
	ThumbHeight = 260

	jpegQuality = 90
)

// ProcessResult contains the result of processing an uploaded post image.
type ProcessResult struct {
	// FileName is the stored file name (uuid + extension), relative to
	// the uploads directory.
	FileName  string
	ThumbName string
	Width     int
	Height    int
	MimeType  string
	Size      int64
}

// Processor handles post image uploads.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a new image processor storing files under uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{
		uploadDir: uploadDir,
	}
}

// ProcessImage reads an uploaded image, auto-rotates it using the EXIF
// orientation tag, scales it down to MaxImageWidth if needed, and stores
// the image plus a feed thumbnail under random UUID names. EXIF metadata
// is dropped on re-encode.
func (p *Processor) ProcessImage(reader io.Reader) (*ProcessResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	orientation := readExifOrientation(bytes.NewReader(data))
	img = applyOrientation(img, orientation)

	if img.Bounds().Dx() > MaxImageWidth {
		img = imaging.Resize(img, MaxImageWidth, 0, imaging.Lanczos)
	}

	bounds := img.Bounds()

	processed, err := encodeImage(img, format, jpegQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	id := uuid.New().String()
	fileName := id + formatToExt(format)

	if err := p.saveImageFile(fileName, processed); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	// Feed thumbnail, cropped to the fixed card size from the center.
	thumb := imaging.Fill(img, ThumbWidth, ThumbHeight, imaging.Center, imaging.Lanczos)
	thumbData, err := encodeImage(thumb, format, jpegQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	thumbName := id + "_thumb" + formatToExt(format)
	if err := p.saveImageFile(thumbName, thumbData); err != nil {
		return nil, fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return &ProcessResult{
		FileName:  fileName,
		ThumbName: thumbName,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		MimeType:  formatToMimeType(format),
		Size:      int64(len(processed)),
	}, nil
}

// DeleteImage removes a stored image and its thumbnail. Missing files
// are not an error.
func (p *Processor) DeleteImage(fileName string) error {
	safe := filepath.Base(fileName)
	if safe == "." || safe == ".." || safe == "" {
		return fmt.Errorf("invalid filename")
	}

	if err := os.Remove(filepath.Join(p.uploadDir, safe)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	ext := filepath.Ext(safe)
	thumb := strings.TrimSuffix(safe, ext) + "_thumb" + ext
	if err := os.Remove(filepath.Join(p.uploadDir, thumb)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete thumbnail: %w", err)
	}

	return nil
}

// DetectMimeType detects the MIME type of image data.
func (p *Processor) DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image to bytes with the specified format and quality.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	case "webp":
		// WebP decoding is supported but encoding is not in pure Go.
		// Convert to JPEG for output.
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// detectFormat detects the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// Explicitly reject TIFF (CVE-2023-36308 in disintegration/imaging)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}

// formatToExt maps a format to the stored file extension. WebP uploads
// are re-encoded as JPEG.
func formatToExt(format string) string {
	switch format {
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// formatToMimeType converts format string to MIME type.
func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg", "webp":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// saveImageFile creates the upload directory if needed and writes the file.
func (p *Processor) saveImageFile(fileName string, data []byte) error {
	safe := filepath.Base(fileName)
	if safe == "." || safe == ".." || safe == "" {
		return fmt.Errorf("invalid filename")
	}

	if err := os.MkdirAll(p.uploadDir, 0o750); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	target := filepath.Join(p.uploadDir, safe)
	if err := os.WriteFile(target, data, 0o640); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}
