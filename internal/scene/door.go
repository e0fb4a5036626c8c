package scene

const DefaultDoorRadius float32 = 2

type Door struct {
	Name     string
	Collider Collider
	Radius   float32
	Open     bool
	slot     int
}

type DoorState struct {
	Name string `json:"name"`
	Open bool   `json:"open"`
}

// DoorSystem toggles the nearest door in reach when the door key goes down.
// An open door stops blocking.
type DoorSystem struct{}

func (DoorSystem) Execute(f *Frame) {
	w := f.World
	if !w.Input.DoorPressed() || len(w.Doors) == 0 {
		return
	}

	best := -1
	var bestDist float32
	for i, d := range w.Doors {
		r := d.Radius
		if r <= 0 {
			r = DefaultDoorRadius
		}
		dist := w.Character.Position.horizontalDistance(d.Collider.Center)
		if dist > r {
			continue
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return
	}

	d := &w.Doors[best]
	d.Open = !d.Open
	w.Colliders.SetEnabled(d.slot, !d.Open)
}
