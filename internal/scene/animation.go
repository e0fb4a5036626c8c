package scene

import (
	"log"
	"strings"
)

const (
	ClipIdle = "idle"
	ClipWalk = "walk"
)

type AnimationState struct {
	Clip string
	Time float64
}

// AnimationSystem switches between the idle and walk clips. Clips are found by
// name; a model with other names uses its first clip for idle and its second
// for walk. With no clips the feature is absent and a warning is logged once.
type AnimationSystem struct {
	Clips  []string
	Logger *log.Logger

	warned bool
}

func (s *AnimationSystem) Execute(f *Frame) {
	if len(s.Clips) == 0 {
		if !s.warned {
			s.warned = true
			if s.Logger != nil {
				s.Logger.Printf("[Scene] no animation clips | layout=%s", f.World.Layout.Name)
			}
		}
		return
	}

	want := s.clip(ClipIdle, 0)
	if f.World.Character.Walking {
		want = s.clip(ClipWalk, 1)
	}

	a := &f.World.Animation
	if a.Clip != want {
		a.Clip = want
		a.Time = 0
		return
	}
	a.Time += f.DeltaTime
}

// clip returns the clip called name, else the clip at fallback, else the
// first clip.
func (s *AnimationSystem) clip(name string, fallback int) string {
	for _, c := range s.Clips {
		if strings.EqualFold(c, name) {
			return c
		}
	}
	if fallback < len(s.Clips) {
		return s.Clips[fallback]
	}
	return s.Clips[0]
}
