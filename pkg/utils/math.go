package utils

// Clamp ограничивает v отрезком [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs для int (math.Abs тянет float и лишние конверсии).
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Manhattan - дистанция по сетке без диагоналей.
func Manhattan(x1, y1, x2, y2 int) int {
	return Abs(x1-x2) + Abs(y1-y2)
}
