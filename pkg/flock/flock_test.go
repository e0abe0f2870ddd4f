package flock

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1024))
}

type recordingRenderer struct {
	ids []int
}

func (r *recordingRenderer) DrawAgent(a *Agent) {
	r.ids = append(r.ids, a.ID())
}

func TestNewScattered(t *testing.T) {
	bounds := &Bounds{Width: 800, Height: 600}
	f := NewScattered(DefaultParams(), bounds, newTestRand(), 64)

	if f.Len() != 64 {
		t.Fatalf("Len() = %d; want 64", f.Len())
	}
	seen := make(map[int]bool)
	for i := 0; i < f.Len(); i++ {
		a := f.At(i)
		if a.ID() != i {
			t.Errorf("agent %d has id %d; ids should follow creation order", i, a.ID())
		}
		if seen[a.ID()] {
			t.Errorf("duplicate id %d", a.ID())
		}
		seen[a.ID()] = true
		if !bounds.Contains(a.Position()) {
			t.Errorf("agent %d spawned outside bounds at %v", a.ID(), a.Position())
		}
		if math.Abs(a.Velocity().Len()-3) > tolerance {
			t.Errorf("agent %d speed = %v; want 3", a.ID(), a.Velocity().Len())
		}
	}
}

func TestNewGathered(t *testing.T) {
	origin := geometry.Vector2D{X: 320, Y: 240}
	f := NewGathered(DefaultParams(), &Bounds{Width: 640, Height: 480}, newTestRand(), origin, 16)

	if f.Len() != 16 {
		t.Fatalf("Len() = %d; want 16", f.Len())
	}
	distinct := false
	for a := range f.All() {
		if a.Position() != origin {
			t.Errorf("agent %d at %v; want origin %v", a.ID(), a.Position(), origin)
		}
		if !a.Velocity().Eq(f.At(0).Velocity()) {
			distinct = true
		}
	}
	if !distinct {
		t.Error("gathered agents should get independent headings")
	}
}

func TestFlock_Spawn(t *testing.T) {
	f := NewScattered(DefaultParams(), &Bounds{Width: 640, Height: 480}, newTestRand(), 3)

	a := f.Spawn(100, 100)
	if a.ID() != 3 {
		t.Errorf("spawned id = %d; want 3", a.ID())
	}
	if f.Len() != 4 || f.At(3) != a {
		t.Fatalf("spawned agent not appended")
	}
	if !a.Velocity().Eq(geometry.Vector2D{X: 3, Y: 0}) {
		t.Errorf("spawned velocity = %v; want heading 0 at MaxSpeed", a.Velocity())
	}
}

func TestFlock_SpawnWithLaunchForce(t *testing.T) {
	f := New(DefaultParams(), &Bounds{Width: 640, Height: 480}, newTestRand())
	target := geometry.Vector2D{X: 100, Y: 300}

	a := f.Spawn(100, 100)
	before := a.Position().DistanceTo(target)
	a.ApplyForce(target.Sub(a.Position()))
	f.Update(Input{})

	after := a.Position().DistanceTo(target)
	if before-after < 2.5 {
		t.Errorf("agent should move toward target: distance %v -> %v", before, after)
	}
}

func TestFlock_Update_SpeedInvariant(t *testing.T) {
	bounds := &Bounds{Width: 800, Height: 600}
	f := NewScattered(DefaultParams(), bounds, newTestRand(), 48)
	f.Gather(geometry.Vector2D{X: 400, Y: 300}, 4)

	for frame := 0; frame < 120; frame++ {
		in := Input{}
		if frame%3 == 0 {
			in.Threat = ThreatAt(geometry.Vector2D{X: 400, Y: 300})
		}
		if frame%7 == 0 {
			in.Nudge = geometry.Vector2D{X: 10, Y: -10}
		}
		f.Update(in)

		for a := range f.All() {
			if math.Abs(a.Velocity().Len()-3) > 1e-6 {
				t.Fatalf("frame %d agent %d speed = %v; want 3", frame, a.ID(), a.Velocity().Len())
			}
			if a.Acceleration() != geometry.Zero {
				t.Fatalf("frame %d agent %d acceleration not reset", frame, a.ID())
			}
		}
	}
}

func TestFlock_Update_OrderIndependent(t *testing.T) {
	positions := []geometry.Vector2D{{X: 100, Y: 100}, {X: 150, Y: 120}, {X: 130, Y: 190}, {X: 400, Y: 300}}
	bounds := &Bounds{Width: 800, Height: 600}

	forward := New(DefaultParams(), bounds, newTestRand())
	backward := New(DefaultParams(), bounds, newTestRand())
	for i := range positions {
		forward.Spawn(positions[i].X, positions[i].Y)
		j := len(positions) - 1 - i
		backward.Spawn(positions[j].X, positions[j].Y)
	}

	for frame := 0; frame < 10; frame++ {
		forward.Update(Input{})
		backward.Update(Input{})
	}

	n := len(positions)
	for i := 0; i < n; i++ {
		got := forward.At(i).Position()
		want := backward.At(n - 1 - i).Position()
		if got.DistanceTo(want) > 1e-6 {
			t.Errorf("agent starting at %v ended at %v forward and %v backward", positions[i], got, want)
		}
	}
}

func TestFlock_Update_BoundsShrink(t *testing.T) {
	bounds := &Bounds{Width: 1000, Height: 1000}
	f := New(DefaultParams(), bounds, newTestRand())
	a := f.Spawn(800, 500)
	a.ApplyForce(geometry.Vector2D{X: 0, Y: 3}.Sub(a.Velocity())) // face +y
	f.Update(Input{})

	if got := a.confine(f.Bounds()); got != geometry.Zero {
		t.Fatalf("agent inside the bounds should not be confined, got %v", got)
	}

	bounds.Width, bounds.Height = 600, 600
	if got := a.confine(f.Bounds()); got.IsZero() {
		t.Fatal("agent outside the shrunk bounds should be confined")
	}

	f.Update(Input{})
	if a.Velocity().X >= 0 {
		t.Errorf("agent should start turning back toward -x, velocity %v", a.Velocity())
	}
}

func TestFlock_Update_Nudge(t *testing.T) {
	f := New(DefaultParams(), &Bounds{Width: 1000, Height: 1000}, newTestRand())
	a := f.Spawn(500, 500)

	f.Update(Input{Nudge: geometry.Vector2D{X: 0, Y: -10}})

	if a.Velocity().Y >= 0 {
		t.Errorf("upward nudge should turn the agent up, velocity %v", a.Velocity())
	}
}

func TestFlock_SetParams(t *testing.T) {
	f := NewScattered(DefaultParams(), &Bounds{Width: 800, Height: 600}, newTestRand(), 10)
	p := f.Params()
	p.MaxSpeed = 5
	f.SetParams(p)

	f.Update(Input{})
	for a := range f.All() {
		if math.Abs(a.Velocity().Len()-5) > 1e-6 {
			t.Errorf("agent %d speed = %v; want retuned 5", a.ID(), a.Velocity().Len())
		}
	}
}

func TestFlock_Draw(t *testing.T) {
	f := NewScattered(DefaultParams(), &Bounds{Width: 800, Height: 600}, newTestRand(), 5)
	before := append([]State(nil), f.Snapshot()...)

	r := &recordingRenderer{}
	f.Draw(r)

	if len(r.ids) != 5 {
		t.Fatalf("Draw visited %d agents; want 5", len(r.ids))
	}
	for i, id := range r.ids {
		if id != i {
			t.Errorf("Draw order[%d] = %d; want %d", i, id, i)
		}
	}
	for i, s := range f.Snapshot() {
		if s != before[i] {
			t.Errorf("Draw mutated agent %d: %v -> %v", i, before[i], s)
		}
	}
}

func TestFlock_All_StopsEarly(t *testing.T) {
	f := NewScattered(DefaultParams(), &Bounds{Width: 800, Height: 600}, newTestRand(), 10)
	visited := 0
	for range f.All() {
		visited++
		if visited == 3 {
			break
		}
	}
	if visited != 3 {
		t.Errorf("visited %d agents; want 3", visited)
	}
}

func TestFlock_Clear(t *testing.T) {
	f := NewScattered(DefaultParams(), &Bounds{Width: 800, Height: 600}, newTestRand(), 10)

	f.Clear()
	if f.Len() != 0 {
		t.Fatalf("Len() after Clear = %d; want 0", f.Len())
	}
	f.Clear()
	if f.Len() != 0 {
		t.Fatalf("second Clear should be a no-op, Len() = %d", f.Len())
	}
	f.Update(Input{})

	if a := f.Spawn(1, 1); a.ID() != 10 {
		t.Errorf("id after Clear = %d; want 10 (ids are never reused)", a.ID())
	}
}

func BenchmarkFlock_Update(b *testing.B) {
	f := NewScattered(DefaultParams(), &Bounds{Width: 1920, Height: 1080}, newTestRand(), 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Update(Input{})
	}
}
