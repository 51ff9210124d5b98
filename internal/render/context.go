package render

import (
	"fmt"
	"hash/fnv"
	"image"
	"time"

	"github.com/disintegration/imaging"
	gocache "github.com/patrickmn/go-cache"

	"github.com/xiaoguangdong/cover-magic/internal/spring"
)

// assetLoadTimeout bounds how long a render pass waits for a background
// bitmap to come off disk before proceeding without it.
const assetLoadTimeout = 3 * time.Second

// Context owns the mutable per-surface state of the engine: the spring table,
// the icon raster cache, the decoded-background cache and the font registry.
// One Context exists per active canvas and dies with it.
type Context struct {
	Springs *spring.Table
	Fonts   *FontRegistry

	icons  *gocache.Cache
	images *gocache.Cache

	// rasterizations counts icon raster passes, for cache verification.
	rasterizations int
}

func NewContext() *Context {
	return &Context{
		Springs: spring.NewTable(),
		Fonts:   NewFontRegistry(),
		icons:   gocache.New(gocache.NoExpiration, 0),
		images:  gocache.New(gocache.NoExpiration, 0),
	}
}

// IconImage returns the cached raster for an SVG source, rasterizing on the
// first request. An empty source yields (nil, nil). A source that fails to
// rasterize is cached as nil so it is not retried until the source changes.
func (c *Context) IconImage(src string) (*image.RGBA, error) {
	if src == "" {
		return nil, nil
	}
	key := iconCacheKey(src)
	if v, ok := c.icons.Get(key); ok {
		img, _ := v.(*image.RGBA)
		return img, nil
	}
	c.rasterizations++
	img, err := RasterizeSVG(src, iconRasterPx)
	if err != nil {
		c.icons.Set(key, (*image.RGBA)(nil), gocache.NoExpiration)
		return nil, err
	}
	c.icons.Set(key, img, gocache.NoExpiration)
	return img, nil
}

// InvalidateIcons drops every cached icon raster. Called synchronously when
// the icon source changes; the next draw repopulates the cache lazily.
func (c *Context) InvalidateIcons() {
	c.icons.Flush()
}

// BackgroundImage loads and caches a background bitmap. The load is bounded:
// if the file does not decode within assetLoadTimeout the frame proceeds
// without a background image.
func (c *Context) BackgroundImage(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	if v, ok := c.images.Get(path); ok {
		return v.(image.Image), nil
	}

	type result struct {
		img image.Image
		err error
	}
	ch := make(chan result, 1)
	go func() {
		img, err := imaging.Open(path)
		ch <- result{img, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("load background image %s: %w", path, res.err)
		}
		c.images.Set(path, res.img, gocache.NoExpiration)
		return res.img, nil
	case <-time.After(assetLoadTimeout):
		return nil, fmt.Errorf("load background image %s: timed out", path)
	}
}

// InvalidateImages drops every cached background bitmap.
func (c *Context) InvalidateImages() {
	c.images.Flush()
}

func iconCacheKey(src string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(src))
	return fmt.Sprintf("icon:%x", h.Sum64())
}
