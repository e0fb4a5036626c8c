package main

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"careerxr/internal/scene"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var keyBindings = []struct {
	key  ebiten.Key
	code scene.KeyCode
}{
	{ebiten.KeyW, scene.KeyW},
	{ebiten.KeyA, scene.KeyA},
	{ebiten.KeyS, scene.KeyS},
	{ebiten.KeyD, scene.KeyD},
	{ebiten.KeyQ, scene.KeyQ},
	{ebiten.KeyE, scene.KeyE},
}

var (
	floorColor     = color.RGBA{236, 236, 230, 255}
	gridColor      = color.RGBA{220, 220, 215, 255}
	wallColor      = color.RGBA{110, 110, 120, 255}
	doorColor      = color.RGBA{186, 140, 90, 255}
	doorOpenColor  = color.RGBA{186, 140, 90, 90}
	characterColor = color.RGBA{90, 150, 230, 255}
	cameraColor    = color.RGBA{230, 90, 90, 255}
)

type Game struct {
	world  *scene.World
	logger *log.Logger
	snap   scene.Snapshot

	locked       bool
	lastX, lastY int
	screenW      int
	screenH      int
}

func NewGame(w *scene.World, logger *log.Logger) *Game {
	return &Game{world: w, logger: logger, snap: w.Snapshot(), screenW: ScreenWidth, screenH: ScreenHeight}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if !g.locked {
			return ebiten.Termination
		}
		g.setLocked(false)
	}

	for _, b := range keyBindings {
		switch {
		case inpututil.IsKeyJustPressed(b.key):
			g.world.Enqueue(scene.KeyInput(b.code, true))
		case inpututil.IsKeyJustReleased(b.key):
			g.world.Enqueue(scene.KeyInput(b.code, false))
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.world.Enqueue(scene.CameraInput(scene.CameraToggle))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.world.Enqueue(scene.CameraInput(scene.CameraOrbit))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.world.Enqueue(scene.CameraInput(scene.CameraFollow))
	}

	// Clicking captures the cursor the way a browser grants pointer lock.
	if !g.locked && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.setLocked(true)
	}

	x, y := ebiten.CursorPosition()
	if g.locked && (x != g.lastX || y != g.lastY) {
		g.world.Enqueue(scene.MouseInput(float32(x-g.lastX), float32(y-g.lastY)))
	}
	g.lastX, g.lastY = x, y

	g.snap = g.world.Step(time.Second / TickRate)
	return nil
}

func (g *Game) setLocked(locked bool) {
	g.locked = locked
	if locked {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	g.lastX, g.lastY = ebiten.CursorPosition()
	g.world.Enqueue(scene.PointerLockInput(locked))
	g.logger.Printf("[Viewer] pointer lock | locked=%t", locked)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{40, 40, 48, 255})
	vp := newViewport(g.world.Layout.Floor, g.screenW, g.screenH)

	fx, fy := vp.project(-g.world.Layout.Floor.Width/2, -g.world.Layout.Floor.Depth/2)
	fw, fd := g.world.Layout.Floor.Width*vp.scale, g.world.Layout.Floor.Depth*vp.scale
	vector.DrawFilledRect(screen, fx, fy, fw, fd, floorColor, false)
	for x := float32(1); x < g.world.Layout.Floor.Width; x++ {
		sx, _ := vp.project(-g.world.Layout.Floor.Width/2+x, 0)
		vector.StrokeLine(screen, sx, fy, sx, fy+fd, 1, gridColor, false)
	}
	for z := float32(1); z < g.world.Layout.Floor.Depth; z++ {
		_, sy := vp.project(0, -g.world.Layout.Floor.Depth/2+z)
		vector.StrokeLine(screen, fx, sy, fx+fw, sy, 1, gridColor, false)
	}

	for _, b := range g.world.Layout.Walls {
		g.drawBox(screen, vp, scene.BoxCollider(b.Name, scene.V3(b.Center[0], b.Center[1], b.Center[2]), scene.V3(b.Size[0], b.Size[1], b.Size[2])), wallColor)
	}
	for _, d := range g.world.Doors {
		c := doorColor
		if d.Open {
			c = doorOpenColor
		}
		g.drawBox(screen, vp, d.Collider, c)
	}

	ch := g.snap.Character
	cx, cy := vp.project(ch.Position.X, ch.Position.Z)
	r := math32.Max(g.world.Character.Half.X*vp.scale, 4)
	vector.DrawFilledCircle(screen, cx, cy, r, characterColor, true)
	hx := cx + math32.Sin(ch.Heading)*r*2
	hy := cy + math32.Cos(ch.Heading)*r*2
	vector.StrokeLine(screen, cx, cy, hx, hy, 2, characterColor, true)

	cam := g.snap.Camera
	kx, ky := vp.project(cam.Position.X, cam.Position.Z)
	vector.DrawFilledCircle(screen, kx, ky, 4, cameraColor, true)
	vector.StrokeLine(screen, kx, ky, kx-math32.Sin(cam.Yaw)*12, ky-math32.Cos(cam.Yaw)*12, 1, cameraColor, true)

	ebitenutil.DebugPrint(screen, g.hud())
}

func (g *Game) drawBox(screen *ebiten.Image, vp viewport, c scene.Collider, clr color.Color) {
	lo, hi := c.Min(), c.Max()
	x, y := vp.project(lo.X, lo.Z)
	vector.DrawFilledRect(screen, x, y, (hi.X-lo.X)*vp.scale, (hi.Z-lo.Z)*vp.scale, clr, false)
}

func (g *Game) hud() string {
	s := g.snap
	lock := "click to capture the cursor"
	if g.locked {
		lock = "cursor captured, esc releases"
	}
	return fmt.Sprintf(
		"%s  tick %d  %.0f fps\npos (%.2f, %.2f, %.2f)  walking %t  blocked %d\ncamera %s  yaw %.2f  pitch %.2f\nWASD move  Q look down  E door  C toggle camera  O orbit  F follow\n%s",
		g.world.Layout.Name, s.Tick, ebiten.ActualFPS(),
		s.Character.Position.X, s.Character.Position.Y, s.Character.Position.Z, s.Character.Walking, s.Blocked,
		s.Camera.Mode, s.Camera.Yaw, s.Camera.Pitch,
		lock,
	)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// viewport maps floor coordinates (x, z) to screen pixels with the floor
// centred and scaled to fit.
type viewport struct {
	scale   float32
	originX float32
	originY float32
}

func newViewport(floor scene.Floor, w, h int) viewport {
	width, depth := math32.Max(floor.Width, 1), math32.Max(floor.Depth, 1)
	margin := float32(40)
	scale := math32.Min((float32(w)-2*margin)/width, (float32(h)-2*margin)/depth)
	if scale <= 0 {
		scale = 1
	}
	return viewport{scale: scale, originX: float32(w) / 2, originY: float32(h) / 2}
}

func (v viewport) project(x, z float32) (float32, float32) {
	return v.originX + x*v.scale, v.originY + z*v.scale
}
