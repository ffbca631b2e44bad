package assets

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
	"github.com/ironsheep/imagegen-service/internal/logging"
	"github.com/ironsheep/imagegen-service/internal/textdraw"
)

// Cache is a lazily filled, never evicted store of raw bytes and parsed fonts.
//
// Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	storage Storage
	logger  *slog.Logger

	bytesMu sync.RWMutex
	bytes   map[string][]byte
	bytesSF singleflight.Group

	fontsMu sync.RWMutex
	fonts   map[string]*textdraw.Font
	fontsSF singleflight.Group
}

// NewCache creates an empty cache over storage.
func NewCache(storage Storage, logger *slog.Logger) *Cache {
	return &Cache{
		storage: storage,
		logger:  logging.OrDefault(logger),
		bytes:   make(map[string][]byte),
		fonts:   make(map[string]*textdraw.Font),
	}
}

// GetBytes returns the shared buffer for name, reading it from storage on
// first use. The returned slice must not be modified.
func (c *Cache) GetBytes(ctx context.Context, name string) ([]byte, error) {
	c.bytesMu.RLock()
	if data, ok := c.bytes[name]; ok {
		c.bytesMu.RUnlock()
		return data, nil
	}
	c.bytesMu.RUnlock()

	v, err, _ := c.bytesSF.Do(name, func() (interface{}, error) {
		c.bytesMu.RLock()
		data, ok := c.bytes[name]
		c.bytesMu.RUnlock()
		if ok {
			return data, nil
		}

		data, err := c.storage.Read(context.WithoutCancel(ctx), name)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInput, "assets.bytes", "failed to read asset "+name, err)
		}

		c.bytesMu.Lock()
		c.bytes[name] = data
		c.bytesMu.Unlock()

		c.logger.Debug("asset cached", "name", name, "bytes", len(data))
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// GetFont returns the shared parsed font for name. A malformed font file is
// a configuration defect; callers preload fonts at startup with Preload and
// treat the error as fatal.
func (c *Cache) GetFont(ctx context.Context, name string) (*textdraw.Font, error) {
	c.fontsMu.RLock()
	if f, ok := c.fonts[name]; ok {
		c.fontsMu.RUnlock()
		return f, nil
	}
	c.fontsMu.RUnlock()

	v, err, _ := c.fontsSF.Do(name, func() (interface{}, error) {
		c.fontsMu.RLock()
		cached, ok := c.fonts[name]
		c.fontsMu.RUnlock()
		if ok {
			return cached, nil
		}

		data, err := c.storage.Read(context.WithoutCancel(ctx), name)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInput, "assets.font", "failed to read font "+name, err)
		}
		f, err := textdraw.ParseFont(data)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindDecode, "assets.font", "invalid font "+name, err)
		}

		c.fontsMu.Lock()
		c.fonts[name] = f
		c.fontsMu.Unlock()

		c.logger.Debug("font cached", "name", name, "family", f.Name())
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*textdraw.Font), nil
}

// Preload parses every named font into the cache, stopping at the first failure.
func (c *Cache) Preload(ctx context.Context, fonts ...string) error {
	for _, name := range fonts {
		if name == "" {
			continue
		}
		if _, err := c.GetFont(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
