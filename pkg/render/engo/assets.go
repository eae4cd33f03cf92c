// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"
)

// hudFontURL is the name the embedded HUD font is registered under.
const hudFontURL = "skyflag/gomono.ttf"

// planePattern is a top-down plane silhouette, nose up.
var planePattern = [][]int{
	{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
	{0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0},
	{0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0},
	{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
}

// AssetManager handles the sprites and fonts of the map scene.
type AssetManager struct {
	planeSprite common.Drawable
	font        *common.Font
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{}
}

// Preload registers the embedded HUD font with engo.
func (am *AssetManager) Preload() error {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(gomono.TTF)); err != nil {
		return fmt.Errorf("loading HUD font: %w", err)
	}
	return nil
}

// LoadAssets builds the textures and the HUD font. It needs an OpenGL
// context, so it runs from Setup.
func (am *AssetManager) LoadAssets() error {
	img := patternImage(planePattern, color.NRGBA{230, 230, 240, 255})
	am.planeSprite = common.NewTextureSingle(common.NewImageObject(img))

	font := &common.Font{URL: hudFontURL, FG: color.White, Size: 14}
	if err := font.CreatePreloaded(); err != nil {
		return fmt.Errorf("creating HUD font: %w", err)
	}
	am.font = font
	return nil
}

// PlaneSprite returns the plane texture, or a triangle before the assets
// are loaded.
func (am *AssetManager) PlaneSprite() common.Drawable {
	if am.planeSprite != nil {
		return am.planeSprite
	}
	return common.Triangle{}
}

// Font returns the HUD font, nil before the assets are loaded.
func (am *AssetManager) Font() *common.Font {
	return am.font
}

// patternImage draws a 2D pixel pattern in c on a transparent image.
func patternImage(pattern [][]int, c color.NRGBA) *image.NRGBA {
	height := len(pattern)
	width := 0
	for _, row := range pattern {
		width = max(width, len(row))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y, row := range pattern {
		for x, pixel := range row {
			if pixel == 1 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}
