package geom

// outcode bits for Cohen-Sutherland clipping.
const (
	outsideLeft   = 1 << 0
	outsideRight  = 1 << 1
	outsideTop    = 1 << 2
	outsideBottom = 1 << 3
)

func outcode(p Vec2, r Rect) uint8 {
	var code uint8
	if p.X < r.MinX {
		code |= outsideLeft
	} else if p.X > r.MaxX {
		code |= outsideRight
	}
	if p.Y < r.MinY {
		code |= outsideTop
	} else if p.Y > r.MaxY {
		code |= outsideBottom
	}
	return code
}

// ClipLineToRect clips a line segment to an axis-aligned rectangle
// using Cohen-Sutherland clipping. It returns the clipped endpoints
// and false if the segment lies entirely outside the rect.
//
// Callers that need the "rays enter from above" behavior of the CPU
// tiler (spec section 4.2) should pass a rect with MinY = -Inf so
// that clipping never happens against the top edge.
func ClipLineToRect(from, to Vec2, r Rect) (Vec2, Vec2, bool) {
	codeFrom := outcode(from, r)
	codeTo := outcode(to, r)

	for {
		if codeFrom == 0 && codeTo == 0 {
			return from, to, true
		}
		if codeFrom&codeTo != 0 {
			return from, to, false
		}

		clipFrom := codeFrom > codeTo
		var code uint8
		if clipFrom {
			code = codeFrom
		} else {
			code = codeTo
		}

		var np Vec2
		switch {
		case code&outsideLeft != 0:
			np = Vec2{r.MinX, lerpY(from, to, r.MinX)}
		case code&outsideRight != 0:
			np = Vec2{r.MaxX, lerpY(from, to, r.MaxX)}
		case code&outsideTop != 0:
			np = Vec2{lerpX(from, to, r.MinY), r.MinY}
		case code&outsideBottom != 0:
			np = Vec2{lerpX(from, to, r.MaxY), r.MaxY}
		}

		if clipFrom {
			from = np
			codeFrom = outcode(from, r)
		} else {
			to = np
			codeTo = outcode(to, r)
		}
	}
}

func lerpY(from, to Vec2, x float64) float64 {
	if to.X == from.X {
		return from.Y
	}
	t := (x - from.X) / (to.X - from.X)
	return from.Y + (to.Y-from.Y)*t
}

func lerpX(from, to Vec2, y float64) float64 {
	if to.Y == from.Y {
		return from.X
	}
	t := (y - from.Y) / (to.Y - from.Y)
	return from.X + (to.X-from.X)*t
}
