package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/layout"
	"github.com/ironsheep/raster-bridge/internal/raster"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("raster-bridge.imaging")

// ImageCache provides thread-safe caching of decoded image files.
//
// Images are keyed by the exact path passed to Load and stay cached until
// Evict or Clear is called. Re-importing a cached file skips the decode.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or decodes it from disk. EXIF
// orientation is applied while decoding so rows run top to bottom.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes one image from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo describes an imported image file.
type ImageInfo struct {
	// Element is the full name of the raster element holding the pixels.
	Element string `json:"element"`

	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif" or "unknown", from the file extension.
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit". Imported elements are always
	// 8-bit, so 16-bit sources lose their low byte.
	ColorDepth string `json:"color_depth"`

	// HasAlpha reports an alpha channel in the source. Alpha is not
	// imported.
	HasAlpha bool `json:"has_alpha"`

	FileSizeBytes int64 `json:"file_size_bytes"`
}

// ImportBands is the band count of an imported image: red, green, blue.
const ImportBands = 3

// Import decodes the image at path and stores it in a new top-level raster
// element of h. No window is opened.
//
// Parameters:
//   - h: The host whose model receives the element.
//   - cache: Decoded images, keyed by path.
//   - path: Image file to read (PNG, JPEG, GIF, BMP or TIFF).
//   - name: Element name. When empty, the file's base name is used.
//
// Returns:
//   - *host.RasterElement: The new element, unsigned byte and BSQ with one
//     band per color channel. Its filename is set to path.
//   - *ImageInfo: Dimensions, format and size of the source file, with
//     Element set to the element's full name.
//   - error: Non-nil if the file cannot be read or the element cannot be
//     created.
//
// # Errors
//
// Decode and stat failures are returned wrapped. An element name already
// taken in the model fails creation. When writing the pixels fails, the
// half-built element is destroyed before returning, so the model is
// unchanged on every error path.
func Import(h *host.Host, cache *ImageCache, path, name string) (*host.RasterElement, *ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, nil, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if name == "" {
		name = filepath.Base(path)
	}

	rgba := clone.AsRGBA(img)
	bounds := rgba.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()

	e, err := h.Model.CreateElement(host.ElementSpec{
		Name:       name,
		Rows:       rows,
		Cols:       cols,
		Bands:      ImportBands,
		Encoding:   encoding.Int8u,
		Interleave: layout.BSQ,
	})
	if err != nil {
		return nil, nil, err
	}
	e.SetFilename(path)

	// Compute order for BSQ is [bands, cols, rows]: band fastest, which is
	// the RGBA pixel order without alpha.
	order, err := layout.Compute(layout.BSQ, rows, cols, ImportBands)
	if err != nil {
		h.Model.Destroy(e)
		return nil, nil, err
	}
	pixels := make(encoding.Uint8Slice, 0, order.Len())
	for y := 0; y < rows; y++ {
		row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+cols*4]
		for x := 0; x < cols; x++ {
			pixels = append(pixels, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	if err := raster.Write(e, encoding.Array{Dims: order.Dims(), Data: pixels}, raster.Region{}); err != nil {
		h.Model.Destroy(e)
		return nil, nil, err
	}

	info := describe(img, path, stat.Size())
	info.Element = e.FullName()
	log.Infof("imported %s as %q (%dx%d)", path, info.Element, cols, rows)
	return e, info, nil
}

func describe(img image.Image, path string, size int64) *ImageInfo {
	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: size,
	}
}
