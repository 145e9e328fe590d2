package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"driftline/game"
)

//go:embed assets/car.svg
var carSVGData []byte

// SpriteVehicle is the loaded-asset vehicle. Its footprint comes from the
// SVG's aspect ratio scaled to the configured length; collision is the same
// box as the procedural vehicle.
type SpriteVehicle struct {
	*game.BoxVehicle

	raster image.Image
	image  *ebiten.Image
}

var _ game.Vehicle = (*SpriteVehicle)(nil)

// NewSpriteVehicle rasterises the embedded car at pixelsPerMetre
func NewSpriteVehicle(length, pixelsPerMetre float64, log zerolog.Logger) (*SpriteVehicle, error) {
	return newSpriteVehicle(carSVGData, length, pixelsPerMetre, log)
}

func newSpriteVehicle(svg []byte, length, pixelsPerMetre float64, log zerolog.Logger) (*SpriteVehicle, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parsing vehicle svg: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("vehicle svg has an empty view box")
	}

	width := length * icon.ViewBox.W / icon.ViewBox.H
	pw := max(1, int(math.Round(width*pixelsPerMetre)))
	ph := max(1, int(math.Round(length*pixelsPerMetre)))
	img := rasterize(icon, pw, ph)

	// Optionally save PNG for debugging
	if os.Getenv("DEBUG_SPRITES") == "1" {
		saveDebugPNG(img, "debug_car.png", log)
	}

	log.Debug().Float64("width", width).Float64("length", length).
		Int("px", pw).Int("py", ph).Msg("Vehicle sprite loaded")

	return &SpriteVehicle{
		BoxVehicle: game.NewBoxVehicle(width, length),
		raster:     img,
	}, nil
}

// Image returns the sprite as an ebiten image, uploading it on first use
func (v *SpriteVehicle) Image() *ebiten.Image {
	if v.image == nil {
		v.image = ebiten.NewImageFromImage(v.raster)
	}
	return v.image
}

// rasterize renders the icon into a width x height RGBA image
func rasterize(icon *oksvg.SvgIcon, width, height int) *image.RGBA {
	icon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)
	return img
}

// saveDebugPNG saves a PNG image for debugging purposes
func saveDebugPNG(img image.Image, filename string, log zerolog.Logger) {
	f, err := os.Create(filename)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create debug PNG")
		return
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		log.Warn().Err(err).Msg("Failed to encode debug PNG")
	}
}

// drawVehicle draws the sprite, or a plain box when skin is nil, at the
// vehicle pose
func drawVehicle(screen *ebiten.Image, cam *Camera, v game.Vehicle, skin *SpriteVehicle, width, length float64) {
	p := v.Pose()
	sx, sy := cam.WorldToScreen(p.X, p.Z)

	if skin != nil {
		img := skin.Image()
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
		op.GeoM.Scale(cam.Zoom*skin.Width/float64(b.Dx()), cam.Zoom*skin.Length/float64(b.Dy()))
		op.GeoM.Rotate(p.Heading)
		op.GeoM.Translate(sx, sy)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
		return
	}

	w := game.WallPlacement{CenterX: p.X, CenterZ: p.Z, Angle: p.Heading, Length: length, Thickness: width}
	fillQuad(screen, cam, wallQuad(w), vehicleColor)
}
