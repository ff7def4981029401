package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"
)

// ImageCache provides thread-safe caching of decoded frames to avoid
// redundant disk reads and repeated luminance conversion.
//
// The cache stores Frame values keyed by their file path. Once a frame is
// loaded, subsequent Load() calls for the same path return the cached copy
// without disk I/O. Cached frames are read-only, so handing the same *Frame
// to several pipeline runs is safe.
//
// # Memory Management
//
// Cached frames remain in memory until explicitly removed via Evict() or
// Clear(). Each frame holds a color and an intensity copy of the image.
type ImageCache struct {
	mu     sync.RWMutex
	frames map[string]*Frame
}

// NewImageCache creates and initializes a new empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		frames: make(map[string]*Frame),
	}
}

// Load retrieves a frame from the cache or decodes it from disk if not cached.
//
// Supported formats are PNG, JPEG, and GIF. The frame is cached using the
// exact path string provided; different spellings of the same file produce
// separate cache entries.
func (c *ImageCache) Load(path string) (*Frame, error) {
	c.mu.RLock()
	if f, ok := c.frames[path]; ok {
		c.mu.RUnlock()
		return f, nil
	}
	c.mu.RUnlock()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	frame, err := NewFrame(img)
	if err != nil {
		return nil, fmt.Errorf("failed to build frame: %w", err)
	}

	c.mu.Lock()
	c.frames[path] = frame
	c.mu.Unlock()

	return frame, nil
}

// Clear removes all frames from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.frames = make(map[string]*Frame)
	c.mu.Unlock()
}

// Evict removes a specific frame from the cache by its path. Useful when a
// capture file is overwritten in place by the camera process.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.frames, path)
	c.mu.Unlock()
}

// FrameInfo contains metadata about a loaded frame file.
type FrameInfo struct {
	// Width is the frame width in pixels.
	Width int `json:"width"`

	// Height is the frame height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "png", "jpeg", "gif", or "unknown".
	// Detection is based on file extension, not file contents.
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadFrameInfo loads a frame into the cache (if not already cached) and
// returns its dimensions, format, and file size.
func LoadFrameInfo(cache *ImageCache, path string) (*FrameInfo, error) {
	frame, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	return &FrameInfo{
		Width:         frame.Width(),
		Height:        frame.Height(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}
