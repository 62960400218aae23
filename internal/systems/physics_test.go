package systems

import (
	"testing"

	"aether-server/internal/domain"
)

func TestHasLineOfSight(t *testing.T) {
	// Карта 5x5
	// . . . . .
	// . . # . .  (2,1) - стена
	// . # # # .  (1,2), (2,2), (3,2) - стена
	// . . # . .  (2,3) - стена
	// . . . . .
	f := newTestFloor(5, 5)
	f.SetTile(2, 1, domain.TileWall)
	f.SetTile(1, 2, domain.TileWall)
	f.SetTile(2, 2, domain.TileWall)
	f.SetTile(3, 2, domain.TileWall)
	f.SetTile(2, 3, domain.TileWall)

	tests := []struct {
		name string
		p1   domain.Position
		p2   domain.Position
		want bool
	}{
		{"Clear horizontal", domain.Position{X: 0, Y: 0}, domain.Position{X: 4, Y: 0}, true},
		{"Blocked horizontal", domain.Position{X: 0, Y: 2}, domain.Position{X: 4, Y: 2}, false},
		{"Clear diagonal", domain.Position{X: 0, Y: 0}, domain.Position{X: 1, Y: 1}, true},
		{"Blocked diagonal", domain.Position{X: 0, Y: 0}, domain.Position{X: 4, Y: 4}, false}, // через (2,2)
		{"Adjacent wall", domain.Position{X: 2, Y: 1}, domain.Position{X: 2, Y: 2}, true},     // стоим рядом со стеной и смотрим на нее
		{"Behind wall", domain.Position{X: 2, Y: 1}, domain.Position{X: 2, Y: 3}, false},      // стена (2,2) мешает
		{"Same tile", domain.Position{X: 0, Y: 0}, domain.Position{X: 0, Y: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasLineOfSight(f, tt.p1, tt.p2); got != tt.want {
				t.Errorf("HasLineOfSight(%v, %v) = %v, want %v", tt.p1, tt.p2, got, tt.want)
			}
		})
	}
}

func TestHasLineOfSight_Doors(t *testing.T) {
	f := newTestFloor(5, 5)
	from := domain.Position{X: 0, Y: 2}
	to := domain.Position{X: 4, Y: 2}

	f.SetTile(2, 2, domain.TileDoorClosed)
	if HasLineOfSight(f, from, to) {
		t.Error("closed door must block sight")
	}

	f.SetTile(2, 2, domain.TileDoorLocked)
	if HasLineOfSight(f, from, to) {
		t.Error("locked door must block sight")
	}

	f.SetTile(2, 2, domain.TileDoorOpen)
	if !HasLineOfSight(f, from, to) {
		t.Error("open door must not block sight")
	}
}
