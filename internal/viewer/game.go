// Package viewer shows a mesh in an ebiten window using the raster package
// for projection and painter's-order drawing.
package viewer

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/smasonuk/meshpack"
	"github.com/smasonuk/meshpack/internal/reload"
	"github.com/smasonuk/meshpack/raster"
)

const (
	dragScale  = 200.0
	keyTurn    = 0.03
	zoomStep   = 1.1
	spinPerSec = 0.6
)

var (
	background   = color.RGBA{R: 16, G: 16, B: 24, A: 255}
	outlineColor = color.RGBA{R: 100, G: 100, B: 100, A: 20}
	wireColor    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

type Options struct {
	Width, Height int
	// Camera is used as given when its Distance is set; otherwise it is
	// fitted to the mesh, keeping Yaw and Pitch.
	Camera    raster.Camera
	Light     raster.Light
	Texture   *ebiten.Image
	Wireframe bool
	// Reloads, when set, replaces the mesh with each successful result.
	Reloads <-chan reload.Result
	Logger  *slog.Logger
}

type Game struct {
	mesh    *meshpack.Mesh
	cam     raster.Camera
	fitCam  bool
	light   raster.Light
	texture *ebiten.Image
	reloads <-chan reload.Result
	log     *slog.Logger

	width, height int
	wireframe     bool
	spin          bool
	angle         float32

	lastX, lastY int
	dragging     bool

	status string
}

// New returns a game showing m, which may be nil if the model could not be
// loaded.
func New(m *meshpack.Mesh, opts Options) *Game {
	g := &Game{
		cam:       opts.Camera,
		fitCam:    opts.Camera.Distance == 0,
		light:     opts.Light,
		texture:   opts.Texture,
		reloads:   opts.Reloads,
		log:       opts.Logger,
		width:     opts.Width,
		height:    opts.Height,
		wireframe: opts.Wireframe,
	}
	if g.log == nil {
		g.log = slog.Default()
	}
	if g.light == (raster.Light{}) {
		g.light = raster.DefaultLight()
	}
	g.setMesh(m)
	return g
}

func (g *Game) setMesh(m *meshpack.Mesh) {
	g.mesh = m
	if g.fitCam {
		fitted := raster.FitCamera(m)
		fitted.Yaw, fitted.Pitch = g.cam.Yaw, g.cam.Pitch
		g.cam = fitted
	}
	if m == nil {
		g.status = "no model loaded"
		return
	}
	g.status = fmt.Sprintf("%s: %d triangles in %d parts", m.Source(), m.TriangleCount(), m.NumSubmeshes())
}

// applyReload swaps in a reloaded mesh. A failed reload keeps the current
// mesh on screen and reports the error.
func (g *Game) applyReload(r reload.Result) {
	if r.Err != nil {
		g.log.Error("keeping previous model", slog.Any("err", r.Err))
		g.status = "reload failed: " + r.Err.Error()
		return
	}
	g.setMesh(r.Mesh)
}

// model spins the mesh about its own centre.
func (g *Game) model() mgl32.Mat4 {
	if g.angle == 0 {
		return mgl32.Ident4()
	}
	c := g.mesh.Center()
	return mgl32.Translate3D(c.X(), c.Y(), c.Z()).
		Mul4(mgl32.HomogRotate3DY(g.angle)).
		Mul4(mgl32.Translate3D(-c.X(), -c.Y(), -c.Z()))
}

func (g *Game) Update() error {
	select {
	case r, ok := <-g.reloads:
		if ok {
			g.applyReload(r)
		} else {
			g.reloads = nil
		}
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.wireframe = !g.wireframe
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.spin = !g.spin
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.fitCam = true
		g.setMesh(g.mesh)
	}
	if g.spin {
		g.angle += spinPerSec / float32(ebiten.TPS())
	}

	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		g.cam.Orbit(-keyTurn, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		g.cam.Orbit(keyTurn, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		g.cam.Orbit(0, keyTurn)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		g.cam.Orbit(0, -keyTurn)
	}

	if _, yoff := ebiten.Wheel(); yoff > 0 {
		g.cam.Zoom(1 / zoomStep)
	} else if yoff < 0 {
		g.cam.Zoom(zoomStep)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.lastX, g.lastY = ebiten.CursorPosition()
	}
	if g.dragging {
		x, y := ebiten.CursorPosition()
		g.cam.Orbit(-float32(x-g.lastX)/dragScale, float32(y-g.lastY)/dragScale)
		g.lastX, g.lastY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	for _, p := range raster.Project(g.mesh, g.model(), g.cam, g.width, g.height, g.light) {
		switch {
		case g.wireframe:
			drawPolygonOutline(screen, p.Points, 1, wireColor)
		case p.Textured && g.texture != nil:
			fillTexturedPolygon(screen, g.texture, p.Points, p.Brightness)
		default:
			fillConvexPolygon(screen, p.Points, p.Color)
			drawPolygonOutline(screen, p.Points, 1, outlineColor)
		}
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nFPS: %0.2f  [W]ire [R]otate [F]it", g.status, ebiten.ActualFPS()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
