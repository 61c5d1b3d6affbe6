package svg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"net/http"
	"path/filepath"
	"strings"
	"text/template"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format
)

// Class names the sheet stylesheet uses to pick a raster filter.
const (
	RasterRootClass  = "png-logo"
	RasterImageClass = "theme-aware"
	FilterLight      = "theme-light"
	FilterDark       = "theme-dark"
)

// rasterTemplate wraps an embedded bitmap with a light and a dark filter.
// The light filter desaturates and dims; the dark filter desaturates and lifts.
var rasterTemplate = template.Must(template.New("raster").Parse(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 {{.Width}} {{.Height}}" width="{{.Width}}" height="{{.Height}}" class="{{.RootClass}}">
  <defs>
    <filter id="{{.FilterLight}}">
      <feColorMatrix type="saturate" values="0"/>
      <feComponentTransfer>
        <feFuncR type="linear" slope="0.8"/>
        <feFuncG type="linear" slope="0.8"/>
        <feFuncB type="linear" slope="0.8"/>
      </feComponentTransfer>
    </filter>
    <filter id="{{.FilterDark}}">
      <feColorMatrix type="saturate" values="0"/>
      <feComponentTransfer>
        <feFuncR type="linear" slope="1.5" intercept="0.2"/>
        <feFuncG type="linear" slope="1.5" intercept="0.2"/>
        <feFuncB type="linear" slope="1.5" intercept="0.2"/>
      </feComponentTransfer>
    </filter>
  </defs>
  <image href="data:{{.MIME}};base64,{{.Data}}" width="{{.Width}}" height="{{.Height}}" class="{{.ImageClass}}" preserveAspectRatio="xMidYMid meet"/>
</svg>`))

// mimeByExtension is consulted when the bitmap header cannot be decoded.
var mimeByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// RasterInfo describes an embedded bitmap.
type RasterInfo struct {
	MIME   string
	Width  float64
	Height float64
	// Decoded is false when the header could not be read and a square box was assumed.
	Decoded bool
}

// InspectRaster reads the bitmap header for its format and size.
// Pixel data is never decoded.
func InspectRaster(data []byte, name string, fallbackSize float64) RasterInfo {
	info := RasterInfo{Width: fallbackSize, Height: fallbackSize}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil && cfg.Width > 0 && cfg.Height > 0 {
		info.MIME = "image/" + format
		info.Width = float64(cfg.Width)
		info.Height = float64(cfg.Height)
		info.Decoded = true
		return info
	}

	if mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(name))]; ok {
		info.MIME = mime
		return info
	}
	info.MIME = http.DetectContentType(data)
	return info
}

// IsRasterName reports whether the file name has a bitmap extension.
func IsRasterName(name string) bool {
	_, ok := mimeByExtension[strings.ToLower(filepath.Ext(name))]
	return ok
}

// WrapRaster embeds a bitmap, unmodified, in the fixed themeable raster template.
func WrapRaster(data []byte, name string, fallbackSize float64) (*Document, RasterInfo, error) {
	info := InspectRaster(data, name, fallbackSize)
	if !strings.HasPrefix(info.MIME, "image/") {
		return nil, info, fmt.Errorf("%w: %s is not a supported image (%s)", ErrMalformedInput, name, info.MIME)
	}

	var buf bytes.Buffer
	err := rasterTemplate.Execute(&buf, map[string]string{
		"Width":       FormatNumber(info.Width),
		"Height":      FormatNumber(info.Height),
		"RootClass":   RasterRootClass,
		"ImageClass":  RasterImageClass,
		"FilterLight": FilterLight,
		"FilterDark":  FilterDark,
		"MIME":        info.MIME,
		"Data":        base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return nil, info, fmt.Errorf("failed to render raster template: %w", err)
	}

	doc, err := Parse(buf.Bytes())
	if err != nil {
		return nil, info, err
	}
	doc.kind = Raster
	return doc, info, nil
}
