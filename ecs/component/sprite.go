package component

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite is the image a renderer draws. Its tint and blending come from the
// entity's Material. With no Image the renderer draws a plain Width x Height
// quad.
type Sprite struct {
	Image     *ebiten.Image
	Width     int
	Height    int
	Source    image.Rectangle
	UseSource bool
	OriginX   float64
	OriginY   float64
}

var SpriteComponent = NewComponent[Sprite]()
