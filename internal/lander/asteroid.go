package lander

import "math/rand"

// Asteroid is a falling hazard. Asteroids ignore terrain until impact and
// never interact with each other.
type Asteroid struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

func (a *Asteroid) advance(dt float64) {
	a.X += a.VX * dt
	a.Y += a.VY * dt
}

// hits reports whether the asteroid overlaps a craft at (x, y).
func (a Asteroid) hits(x, y float64) bool {
	dx, dy := a.X-x, a.Y-y
	r := a.Radius + shipRadius
	return dx*dx+dy*dy < r*r
}

// spawnAsteroid rolls a new rock entering from above the playfield.
func spawnAsteroid(rng *rand.Rand, nx, ny int) Asteroid {
	return Asteroid{
		X:      rng.Float64() * float64(nx),
		Y:      float64(ny) + 40,
		VX:     (rng.Float64() - 0.5) * 60,
		VY:     -40 - rng.Float64()*40,
		Radius: 6 + rng.Float64()*10,
	}
}

// grounded reports whether the asteroid has struck terrain or left the world.
func (a Asteroid) grounded(t Terrain) bool {
	if a.Y < -50 {
		return true
	}
	return a.Y-a.Radius <= t.HeightAt(a.X)
}
