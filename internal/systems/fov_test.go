package systems

import (
	"testing"

	"aether-server/internal/domain"
)

func TestFOV_Caching(t *testing.T) {
	f := newTestFloor(10, 10)
	vision := &domain.VisionComponent{Radius: 5, Dirty: true}
	pos := domain.Position{X: 5, Y: 5}

	res1 := ComputeVisibleTiles(f, pos, vision)
	if len(res1) == 0 {
		t.Fatal("expected non-empty FOV on open map")
	}
	if vision.Cached == nil {
		t.Fatal("cache should be populated after calculation")
	}
	if vision.Dirty {
		t.Fatal("Dirty should be false after calculation")
	}

	// Пока Dirty не взведен, отдается кэш: стена, выросшая рядом,
	// на результат не влияет.
	f.SetTile(6, 5, domain.TileWall)
	res2 := ComputeVisibleTiles(f, pos, vision)
	if len(res2) != len(res1) {
		t.Errorf("expected cached result (%d tiles), got recalculation (%d tiles)", len(res1), len(res2))
	}

	vision.Dirty = true
	res3 := ComputeVisibleTiles(f, pos, vision)
	if len(res3) >= len(res1) {
		t.Errorf("expected fewer visible tiles behind the new wall: was %d, got %d", len(res1), len(res3))
	}
	if vision.Dirty {
		t.Error("Dirty should be cleared by recalculation")
	}
}

func TestFOV_OriginAndNeighbors(t *testing.T) {
	f := newTestFloor(9, 9)
	pos := domain.Position{X: 4, Y: 4}

	visible := ComputeVisibleTiles(f, pos, &domain.VisionComponent{Radius: 3, Dirty: true})

	if !visible[f.Index(4, 4)] {
		t.Error("observer tile must always be visible")
	}
	for _, d := range domain.Directions8 {
		if !visible[f.Index(4+d.X, 4+d.Y)] {
			t.Errorf("adjacent tile (%d,%d) must be visible on open map", 4+d.X, 4+d.Y)
		}
	}
}

func TestFOV_RadiusClamp(t *testing.T) {
	f := newTestFloor(15, 15)
	pos := domain.Position{X: 7, Y: 7}

	visible := ComputeVisibleTiles(f, pos, &domain.VisionComponent{Radius: 3, Dirty: true})

	// Радиус евклидов: внутри r^2 видно, снаружи нет.
	cases := []struct {
		x, y int
		want bool
	}{
		{10, 7, true},  // distSq 9
		{11, 7, false}, // distSq 16
		{9, 9, true},   // distSq 8
		{10, 8, false}, // distSq 10
		{7, 4, true},
		{7, 3, false},
	}
	for _, c := range cases {
		if visible[f.Index(c.x, c.y)] != c.want {
			t.Errorf("tile (%d,%d): visible = %v, want %v", c.x, c.y, !c.want, c.want)
		}
	}
}

func TestFOV_BlindObserver(t *testing.T) {
	f := newTestFloor(5, 5)
	visible := ComputeVisibleTiles(f, domain.Position{X: 2, Y: 2}, &domain.VisionComponent{Radius: 0, Dirty: true})
	if len(visible) != 0 {
		t.Errorf("blind observer should see nothing, got %d tiles", len(visible))
	}
}

func TestFOV_NilVisionUsesDefaultRadius(t *testing.T) {
	f := newTestFloor(9, 9)
	visible := ComputeVisibleTiles(f, domain.Position{X: 4, Y: 4}, nil)
	if !visible[f.Index(4, 4)] {
		t.Error("observer tile must be visible")
	}
	// Радиус по умолчанию шире карты: открытый край должен быть виден.
	if !visible[f.Index(8, 4)] {
		t.Error("default radius should reach the map edge")
	}
}

func TestFOV_PillarCastsShadow(t *testing.T) {
	f := newTestFloor(11, 11)
	f.SetTile(5, 3, domain.TileWall)
	pos := domain.Position{X: 5, Y: 5}

	visible := ComputeVisibleTiles(f, pos, &domain.VisionComponent{Radius: 8, Dirty: true})

	if !visible[f.Index(5, 3)] {
		t.Error("the pillar itself must be visible")
	}
	// Колонна прячет столбец строго за собой.
	for _, y := range []int{2, 1, 0} {
		if visible[f.Index(5, y)] {
			t.Errorf("tile (5,%d) behind the pillar must be hidden", y)
		}
	}
	if !visible[f.Index(4, 3)] || !visible[f.Index(6, 3)] {
		t.Error("tiles beside the pillar must stay visible")
	}
}

// Видимость взаимна: если из A видно пол B, то из B видно пол A.
// Свойство проверяется на всех парах проходимых клеток карты с колоннами.
func TestFOV_Symmetry(t *testing.T) {
	f := newTestFloor(12, 12)
	pillars := []domain.Position{
		{X: 3, Y: 3}, {X: 8, Y: 4}, {X: 5, Y: 7},
		{X: 6, Y: 7}, {X: 9, Y: 9}, {X: 2, Y: 8},
	}
	for _, p := range pillars {
		f.SetTile(p.X, p.Y, domain.TileWall)
	}

	// Радиус шире диагонали карты, чтобы обрезка не участвовала.
	fovs := make(map[int]map[int]bool)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if !f.IsTransparent(x, y) {
				continue
			}
			pos := domain.Position{X: x, Y: y}
			fovs[f.Index(x, y)] = ComputeVisibleTiles(f, pos, &domain.VisionComponent{Radius: 20, Dirty: true})
		}
	}

	for ia, fovA := range fovs {
		for ib, fovB := range fovs {
			if fovA[ib] != fovB[ia] {
				ax, ay := ia%f.Width, ia/f.Width
				bx, by := ib%f.Width, ib/f.Width
				t.Fatalf("asymmetric visibility: (%d,%d) sees (%d,%d) = %v, reverse = %v",
					ax, ay, bx, by, fovA[ib], fovB[ia])
			}
		}
	}
}

// Симметрия обязана выживать и при обрезке радиусом: расстояние между
// двумя клетками одинаково в обе стороны.
func TestFOV_SymmetryWithRadius(t *testing.T) {
	f := newTestFloor(10, 10)
	f.SetTile(4, 4, domain.TileWall)
	f.SetTile(6, 5, domain.TileWall)

	const radius = 4
	fovs := make(map[int]map[int]bool)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if !f.IsTransparent(x, y) {
				continue
			}
			pos := domain.Position{X: x, Y: y}
			fovs[f.Index(x, y)] = ComputeVisibleTiles(f, pos, &domain.VisionComponent{Radius: radius, Dirty: true})
		}
	}

	for ia, fovA := range fovs {
		for ib, fovB := range fovs {
			if fovA[ib] != fovB[ia] {
				ax, ay := ia%f.Width, ia/f.Width
				bx, by := ib%f.Width, ib/f.Width
				t.Fatalf("asymmetric visibility at radius %d: (%d,%d) vs (%d,%d)",
					radius, ax, ay, bx, by)
			}
		}
	}
}
