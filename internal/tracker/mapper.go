package tracker

// EdgeMargin keeps the mapped cursor away from screen edges, where hot
// corners and edge gestures live.
const EdgeMargin = 10

// mapper linearly maps calibrated yaw/pitch angles onto screen pixels.
// Yaw 180-yawRange..180+yawRange spans the screen width left to right;
// the pitch axis is inverted so that raising the head moves the cursor up.
type mapper struct {
	yawRange   float64
	pitchRange float64
	screenW    int
	screenH    int
}

func newMapper(yawRange, pitchRange float64, screenW, screenH int) mapper {
	return mapper{
		yawRange:   yawRange,
		pitchRange: pitchRange,
		screenW:    screenW,
		screenH:    screenH,
	}
}

// Map converts calibrated angles in degrees to a clamped screen coordinate.
func (m mapper) Map(yawDeg, pitchDeg float64) (x, y int) {
	x = int(((yawDeg - (180 - m.yawRange)) / (2 * m.yawRange)) * float64(m.screenW))
	y = int(((180 + m.pitchRange - pitchDeg) / (2 * m.pitchRange)) * float64(m.screenH))

	return clampInt(x, EdgeMargin, m.screenW-EdgeMargin),
		clampInt(y, EdgeMargin, m.screenH-EdgeMargin)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
