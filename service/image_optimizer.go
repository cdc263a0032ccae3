package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const (
	// DefaultImageCacheDir is where optimized product images are kept
	DefaultImageCacheDir = "cache/images"

	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// Image size variants
const (
	ImageSizeThumb  = "thumb"
	ImageSizeMedium = "medium"
)

// NormalizeImageSize maps unknown sizes to medium
func NormalizeImageSize(size string) string {
	if size == ImageSizeThumb {
		return ImageSizeThumb
	}
	return ImageSizeMedium
}

// ImageCache stores optimized images on disk
type ImageCache struct {
	dir string
}

// NewImageCache creates the cache directory if it doesn't exist
func NewImageCache(dir string) (*ImageCache, error) {
	if dir == "" {
		dir = DefaultImageCacheDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &ImageCache{dir: dir}, nil
}

// Path returns the cache file path for a product image variant
func (c *ImageCache) Path(productID int, index int, size string) string {
	filename := fmt.Sprintf("product_%d_%d_%s.jpg", productID, index, size)
	return filepath.Join(c.dir, filename)
}

// Read returns the cached image, or ok=false when it is not cached
func (c *ImageCache) Read(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Has reports whether path is already cached
func (c *ImageCache) Has(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save writes an image to the cache
func (c *ImageCache) Save(path string, imageData []byte) error {
	if err := os.WriteFile(path, imageData, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Printf("✓ Image cached: %s", path)
	return nil
}

// OptimizeImage converts an image to JPEG, shrinking it to fit the size variant.
// imageData: raw image bytes (PNG, JPEG)
// size: "thumb" or "medium"
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim, quality := maxSizeMedium, qualityMedium
	if NormalizeImageSize(size) == ImageSizeThumb {
		maxDim, quality = maxSizeThumb, qualityThumb
	}

	bounds := img.Bounds()
	var resized image.Image = img
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		// imaging.Fit keeps the aspect ratio inside a maxDim box
		resized = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		log.Printf("🔄 Resizing %s image: %dx%d -> %dx%d", format,
			bounds.Dx(), bounds.Dy(), resized.Bounds().Dx(), resized.Bounds().Dy())
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	log.Printf("✓ Image optimized: size=%s, quality=%d, output_size=%d bytes", size, quality, buf.Len())
	return buf.Bytes(), nil
}
