package scene

import (
	"fmt"

	"github.com/chewxy/math32"
)

type CameraMode string

const (
	CameraModeFollow      CameraMode = "follow"
	CameraModeFirstPerson CameraMode = "first_person"
	CameraModeOrbit       CameraMode = "orbit"
)

func ParseCameraMode(s string) (CameraMode, error) {
	switch m := CameraMode(s); m {
	case CameraModeFollow, CameraModeFirstPerson, CameraModeOrbit:
		return m, nil
	case "":
		return CameraModeFollow, nil
	}
	return "", fmt.Errorf("unknown camera mode %q", s)
}

type Camera struct {
	Mode     CameraMode
	Position Vec3
	Yaw      float32
	Pitch    float32

	// accumulated mouse look, first-person only
	LookYaw   float32
	LookPitch float32

	Azimuth   float32
	Elevation float32
	Distance  float32
}

type CameraSettings struct {
	FollowOffset  Vec3
	FollowLerp    float32
	Sensitivity   float32
	PitchLimit    float32
	EyeHeight     float32
	LookDownPitch float32
	OrbitDistance float32
	OrbitMinElev  float32
	OrbitMaxElev  float32
}

func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		FollowOffset:  V3(0, 2, 5),
		FollowLerp:    0.1,
		Sensitivity:   0.002,
		PitchLimit:    math32.Pi / 2 * 0.95,
		EyeHeight:     1.6,
		LookDownPitch: -math32.Pi / 3,
		OrbitDistance: 6,
		OrbitMinElev:  0.05,
		OrbitMaxElev:  math32.Pi/2 - 0.05,
	}
}

// CameraSystem places the camera for the active mode. Toggle alternates
// between follow and first-person; orbit is only entered explicitly.
type CameraSystem struct {
	Settings CameraSettings
}

func (s CameraSystem) Execute(f *Frame) {
	w := f.World
	cam := &w.Camera
	in := w.Input
	cfg := s.Settings

	for _, a := range in.CameraActions {
		switch a {
		case CameraToggle:
			if cam.Mode == CameraModeFollow {
				cam.Mode = CameraModeFirstPerson
			} else {
				cam.Mode = CameraModeFollow
			}
		case CameraOrbit:
			cam.Mode = CameraModeOrbit
			if cam.Distance <= 0 {
				cam.Distance = cfg.OrbitDistance
			}
		case CameraFollow:
			cam.Mode = CameraModeFollow
		}
	}

	target := w.Character.Position
	switch cam.Mode {
	case CameraModeFirstPerson:
		if in.PointerLocked {
			cam.LookYaw -= in.MouseDX * cfg.Sensitivity
			cam.LookPitch = clamp(cam.LookPitch-in.MouseDY*cfg.Sensitivity, -cfg.PitchLimit, cfg.PitchLimit)
		}
		cam.Position = target.Add(V3(0, cfg.EyeHeight, 0))
		cam.Yaw = cam.LookYaw + w.Character.Heading
		cam.Pitch = cam.LookPitch

	case CameraModeOrbit:
		cam.Azimuth -= in.MouseDX * cfg.Sensitivity
		cam.Elevation = clamp(cam.Elevation+in.MouseDY*cfg.Sensitivity, cfg.OrbitMinElev, cfg.OrbitMaxElev)
		cosE := math32.Cos(cam.Elevation)
		offset := V3(math32.Sin(cam.Azimuth)*cosE, math32.Sin(cam.Elevation), math32.Cos(cam.Azimuth)*cosE).Scale(cam.Distance)
		cam.Position = target.Add(offset)
		cam.Yaw, cam.Pitch = lookAngles(cam.Position, target)

	default:
		cam.Mode = CameraModeFollow
		cam.Position = cam.Position.Lerp(target.Add(cfg.FollowOffset), cfg.FollowLerp)
		cam.Yaw, cam.Pitch = lookAngles(cam.Position, target)
	}

	if in.Keys.LookDown {
		cam.Pitch = cfg.LookDownPitch
	}
}
