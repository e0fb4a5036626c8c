package scene

import (
	"log"
	"time"
)

type Options struct {
	Camera CameraSettings
	// Speed and RotationLerp override the layout when positive.
	Speed        float32
	RotationLerp float32
	Logger       *log.Logger
}

func DefaultOptions() Options {
	return Options{Camera: DefaultCameraSettings()}
}

// World is one running scene. It is not safe for concurrent use; a session
// owns it from a single goroutine.
type World struct {
	Layout    Layout
	Character Character
	Camera    Camera
	Doors     []Door
	Colliders ColliderSet
	Input     InputState
	Animation AnimationState

	tick      uint64
	blocked   uint64
	pending   []Input
	scheduler *Scheduler
}

func NewWorld(l Layout, opts Options) *World {
	if opts.Camera == (CameraSettings{}) {
		opts.Camera = DefaultCameraSettings()
	}
	if spec := l.Camera.Offset; spec != nil {
		opts.Camera.FollowOffset = vec(*spec)
	}

	w := &World{
		Layout: l,
		Character: Character{
			Position: vec(l.Spawn),
			Half:     vec(l.CharacterSize).Scale(0.5),
		},
	}

	for _, b := range l.Walls {
		w.Colliders.Add(BoxCollider(b.Name, vec(b.Center), vec(b.Size)))
	}
	for _, d := range l.Doors {
		c := BoxCollider(d.Name, vec(d.Center), vec(d.Size))
		slot := w.Colliders.Add(c)
		w.Colliders.SetEnabled(slot, !d.Open)
		w.Doors = append(w.Doors, Door{Name: d.Name, Collider: c, Radius: d.Radius, Open: d.Open, slot: slot})
	}

	mode, err := ParseCameraMode(l.Camera.Mode)
	if err != nil {
		mode = CameraModeFollow
	}
	w.Camera = Camera{Mode: mode, Distance: opts.Camera.OrbitDistance, Elevation: 0.4}
	if l.Camera.Position != nil {
		w.Camera.Position = vec(*l.Camera.Position)
	} else {
		w.Camera.Position = w.Character.Position.Add(opts.Camera.FollowOffset)
	}

	speed := l.Speed
	if opts.Speed > 0 {
		speed = opts.Speed
	}
	lerp := l.RotationLerp
	if opts.RotationLerp > 0 {
		lerp = opts.RotationLerp
	}
	var clips []string
	if l.Model != nil {
		clips = l.Model.Clips
	}

	w.scheduler = NewScheduler(
		InputSystem{},
		DoorSystem{},
		LocomotionSystem{Speed: speed, RotationLerp: lerp},
		&AnimationSystem{Clips: clips, Logger: opts.Logger},
		CameraSystem{Settings: opts.Camera},
	)
	return w
}

// Enqueue buffers an input for the next Step.
func (w *World) Enqueue(in ...Input) {
	w.pending = append(w.pending, in...)
}

// Step advances one frame.
func (w *World) Step(dt time.Duration) Snapshot {
	w.tick++
	w.scheduler.Once(&Frame{Tick: w.tick, DeltaTime: dt.Seconds(), World: w})
	return w.Snapshot()
}

func (w *World) Tick() uint64 {
	return w.tick
}

func (w *World) Stats() SchedulerStats {
	return w.scheduler.Stats()
}

type CharacterState struct {
	Position Vec3    `json:"position"`
	Heading  float32 `json:"heading"`
	Walking  bool    `json:"walking"`
	Clip     string  `json:"clip,omitempty"`
}

type CameraState struct {
	Mode     CameraMode `json:"mode"`
	Position Vec3       `json:"position"`
	Yaw      float32    `json:"yaw"`
	Pitch    float32    `json:"pitch"`
}

type Snapshot struct {
	Layout    string         `json:"layout"`
	Tick      uint64         `json:"tick"`
	Character CharacterState `json:"character"`
	Camera    CameraState    `json:"camera"`
	Doors     []DoorState    `json:"doors,omitempty"`
	Blocked   uint64         `json:"blocked"`
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Layout: w.Layout.Name,
		Tick:   w.tick,
		Character: CharacterState{
			Position: w.Character.Position,
			Heading:  w.Character.Heading,
			Walking:  w.Character.Walking,
			Clip:     w.Animation.Clip,
		},
		Camera: CameraState{
			Mode:     w.Camera.Mode,
			Position: w.Camera.Position,
			Yaw:      w.Camera.Yaw,
			Pitch:    w.Camera.Pitch,
		},
		Blocked: w.blocked,
	}
	for _, d := range w.Doors {
		s.Doors = append(s.Doors, DoorState{Name: d.Name, Open: d.Open})
	}
	return s
}
