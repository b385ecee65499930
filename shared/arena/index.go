// Package arena indexes platform geometry for ground checks. The server uses
// it for the Platform Registry; the client predictor uses its own copy.
package arena

import (
	"math"

	"github.com/automoto/duel-mp/shared/gamemath"
	"github.com/automoto/duel-mp/shared/messages"
	"github.com/solarlune/resolv"
)

const (
	tagPlatform = "platform"
	tagQuery    = "query"
	cellSize    = 16
	spaceMargin = 400
)

// Index answers "is there a platform surface here" queries against a
// resolv.Space broadphase. It reuses one query object, so an Index is not
// safe for concurrent use; the server only queries it under the store lock.
type Index struct {
	platforms []messages.Platform
	lowestY   float64
	space     *resolv.Space
	query     *resolv.Object
}

// NewIndex copies platforms into a new collision space.
func NewIndex(platforms []messages.Platform) *Index {
	ix := &Index{
		platforms: append([]messages.Platform(nil), platforms...),
		lowestY:   math.Inf(-1),
	}

	width, height := 0.0, 0.0
	for _, p := range platforms {
		width = math.Max(width, p.X+p.Width)
		height = math.Max(height, p.Y+p.Height)
		ix.lowestY = math.Max(ix.lowestY, p.Y)
	}

	ix.space = resolv.NewSpace(int(width)+spaceMargin, int(height)+spaceMargin, cellSize, cellSize)
	for _, p := range platforms {
		obj := resolv.NewObject(p.X, p.Y, p.Width, p.Height, tagPlatform)
		obj.SetShape(resolv.NewRectangle(0, 0, p.Width, p.Height))
		ix.space.Add(obj)
	}
	ix.query = resolv.NewObject(0, 0, 1, 1, tagQuery)
	ix.space.Add(ix.query)

	return ix
}

// Platforms returns a copy of the indexed platforms in their original order.
func (ix *Index) Platforms() []messages.Platform {
	return append([]messages.Platform(nil), ix.platforms...)
}

// Empty reports whether the index has no platforms.
func (ix *Index) Empty() bool {
	return len(ix.platforms) == 0
}

// LowestY is the largest platform surface y (screen coordinates grow down).
// It returns false when there are no platforms.
func (ix *Index) LowestY() (float64, bool) {
	if ix.Empty() {
		return 0, false
	}
	return ix.lowestY, true
}

// FellOut reports whether y is below the lowest platform by more than margin.
func (ix *Index) FellOut(y, margin float64) bool {
	lowest, ok := ix.LowestY()
	return ok && y > lowest+margin
}

// SurfaceAt returns the surface y of a platform that the horizontal extent
// [x-halfWidth, x+halfWidth] overlaps and whose surface lies within +-band of
// feetY. When several match, the closest surface wins.
func (ix *Index) SurfaceAt(x, feetY, halfWidth, band float64) (float64, bool) {
	if ix.Empty() {
		return 0, false
	}

	ix.query.X = x - halfWidth
	ix.query.Y = feetY - band
	ix.query.W = 2 * halfWidth
	ix.query.H = 2 * band

	check := ix.query.Check(0, 0, tagPlatform)
	if check == nil {
		return 0, false
	}

	best, found := 0.0, false
	for _, obj := range check.ObjectsByTags(tagPlatform) {
		if x+halfWidth <= obj.X || x-halfWidth >= obj.X+obj.W {
			continue
		}
		if feetY < obj.Y-band || feetY > obj.Y+band {
			continue
		}
		if !found || math.Abs(obj.Y-feetY) < math.Abs(best-feetY) {
			best, found = obj.Y, true
		}
	}
	return best, found
}

// Sweep samples the vertical segment between prevFeetY and feetY in
// max(minSteps, |dy|/stride) steps and returns the first surface hit, so
// a fast fall cannot tunnel through a thin platform.
func (ix *Index) Sweep(x, prevFeetY, feetY, halfWidth, band, stride float64, minSteps int) (float64, bool) {
	start, end := prevFeetY, feetY
	if start > end {
		start, end = end, start
	}
	dy := end - start
	steps := gamemath.SweepSteps(dy, stride, minSteps)
	step := dy / float64(steps)
	for i := 0; i <= steps; i++ {
		if y, ok := ix.SurfaceAt(x, start+step*float64(i), halfWidth, band); ok {
			return y, true
		}
	}
	return 0, false
}
