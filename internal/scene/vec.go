package scene

import "github.com/chewxy/math32"

type Vec3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Len() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Normalize returns the unit vector, or the zero vector unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

func (v Vec3) Lerp(to Vec3, t float32) Vec3 {
	return v.Add(to.Sub(v).Scale(t))
}

// horizontalDistance ignores the vertical axis.
func (v Vec3) horizontalDistance(o Vec3) float32 {
	dx, dz := v.X-o.X, v.Z-o.Z
	return math32.Sqrt(dx*dx + dz*dz)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerpAngle interpolates along the shortest arc.
func lerpAngle(from, to, t float32) float32 {
	d := math32.Mod(to-from, 2*math32.Pi)
	if d > math32.Pi {
		d -= 2 * math32.Pi
	} else if d < -math32.Pi {
		d += 2 * math32.Pi
	}
	return from + d*t
}

// lookAngles returns the yaw and pitch of a camera at from facing to, with
// yaw zero looking down -Z.
func lookAngles(from, to Vec3) (yaw, pitch float32) {
	d := to.Sub(from)
	yaw = math32.Atan2(-d.X, -d.Z)
	pitch = math32.Atan2(d.Y, math32.Sqrt(d.X*d.X+d.Z*d.Z))
	return yaw, pitch
}
