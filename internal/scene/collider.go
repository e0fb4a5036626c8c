package scene

// Collider is an axis-aligned box. Faces belong to the box.
type Collider struct {
	Name   string `json:"name,omitempty"`
	Center Vec3   `json:"center"`
	Half   Vec3   `json:"half"`
}

// BoxCollider builds a collider from a center and full edge lengths.
func BoxCollider(name string, center, size Vec3) Collider {
	return Collider{Name: name, Center: center, Half: size.Scale(0.5)}
}

func (c Collider) Min() Vec3 { return c.Center.Sub(c.Half) }
func (c Collider) Max() Vec3 { return c.Center.Add(c.Half) }

func (c Collider) ContainsPoint(p Vec3) bool {
	lo, hi := c.Min(), c.Max()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

func (c Collider) Intersects(o Collider) bool {
	a0, a1 := c.Min(), c.Max()
	b0, b1 := o.Min(), o.Max()
	return a0.X <= b1.X && a1.X >= b0.X &&
		a0.Y <= b1.Y && a1.Y >= b0.Y &&
		a0.Z <= b1.Z && a1.Z >= b0.Z
}

type colliderEntry struct {
	Collider
	enabled bool
}

// ColliderSet accumulates colliders as geometry is mounted. Disabled entries
// keep their slot so ids stay stable.
type ColliderSet struct {
	entries []colliderEntry
}

func (s *ColliderSet) Add(c Collider) int {
	s.entries = append(s.entries, colliderEntry{Collider: c, enabled: true})
	return len(s.entries) - 1
}

func (s *ColliderSet) SetEnabled(id int, enabled bool) {
	if id < 0 || id >= len(s.entries) {
		return
	}
	s.entries[id].enabled = enabled
}

func (s *ColliderSet) Enabled(id int) bool {
	if id < 0 || id >= len(s.entries) {
		return false
	}
	return s.entries[id].enabled
}

func (s *ColliderSet) Len() int {
	return len(s.entries)
}

// Active returns the colliders currently blocking movement.
func (s *ColliderSet) Active() []Collider {
	out := make([]Collider, 0, len(s.entries))
	for _, e := range s.entries {
		if e.enabled {
			out = append(out, e.Collider)
		}
	}
	return out
}

// Blocks reports whether a body at p hits any enabled collider. A zero half
// extent tests the point alone.
func (s *ColliderSet) Blocks(p, half Vec3) bool {
	body := Collider{Center: p, Half: half}
	point := half.IsZero()
	for _, e := range s.entries {
		if !e.enabled {
			continue
		}
		if point && e.ContainsPoint(p) {
			return true
		}
		if !point && e.Intersects(body) {
			return true
		}
	}
	return false
}
