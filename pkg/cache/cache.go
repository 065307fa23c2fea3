// Package cache stores encoded frames (SVG, PNG, JSON, text) keyed by the
// content they were rendered from.
//
// Backends:
//   - [NullCache]: never stores anything
//   - [MemoryCache]: bounded in-process LRU
//   - [FileCache]: one file per entry under a directory
//   - [RedisCache]: shared between server instances
//
// Keys are content addressed. [FrameHash] digests a projected frame and
// [ArtifactKey] adds the encoder settings, so equal keys always mean equal
// bytes no matter which process produced them.
//
//	key := cache.ArtifactKey(cache.FrameHash(frame), cache.ArtifactOpts{Format: "png", Width: 800, Height: 800})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	wferr "github.com/tesserapp/wireframe/pkg/errors"
	"github.com/tesserapp/wireframe/pkg/pipeline"
)

// DefaultTTL is how long entries live when no TTL is given to [Open].
const DefaultTTL = 10 * time.Minute

// Cache stores byte blobs by key. A ttl of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open picks a backend from a spec string:
//
//	"" or "none"     NullCache
//	"memory"         MemoryCache
//	"redis://..."    RedisCache, "rediss://..." for TLS
//	anything else    FileCache in that directory
func Open(ctx context.Context, spec string) (Cache, error) {
	switch {
	case spec == "" || spec == "none":
		return NewNullCache(), nil
	case spec == "memory":
		return NewMemoryCache(DefaultMemoryEntries, DefaultTTL), nil
	case strings.HasPrefix(spec, "redis://") || strings.HasPrefix(spec, "rediss://"):
		c, err := NewRedisCache(ctx, spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	c, err := NewFileCache(spec)
	if err != nil {
		return nil, wferr.Wrap(wferr.CodeInvalidConfig, err, "open cache directory %s", spec)
	}
	return c, nil
}

// ArtifactOpts are the encoder settings that change an artifact's bytes.
type ArtifactOpts struct {
	Format      string  `json:"format"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Background  string  `json:"background,omitempty"`
}

// FrameHash digests a frame's camera and vertices, resolved colors included.
func FrameHash(f pipeline.Frame) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(f)
	for _, v := range f.Vertices {
		_, _ = io.WriteString(h, v.Color.Hex())
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ArtifactKey returns the key of the artifact encoded from the frame with
// the given hash.
func ArtifactKey(frameHash string, opts ArtifactOpts) string {
	return hashKey("artifact", frameHash, opts)
}

// hashKey formats prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}
