package level

import (
	"math"

	"github.com/lixenwraith/depthgen/core"
	"github.com/lixenwraith/depthgen/parameter"
)

// sampleSites scatters Voronoi sites on a jittered grid
// Grid cells far from every tunnel are thinned; grid cells overlapping a cave
// get a 2x2 sub-grid instead of a single site
// Draw order per grid cell: keep chance (sparse cells only), then X and Y jitter per site
func (g *generator) sampleSites() []core.Vec2 {
	interval := float64(g.params.VoronoiSiteInterval)
	variance := float64(g.params.VoronoiSiteVariance)
	bounds := g.level.Bounds
	sparseSq := math.Pow(interval*parameter.SiteSparseDistanceFactor, 2)

	cols := int(bounds.Width / interval)
	rows := int(bounds.Height / interval)
	sites := make([]core.Vec2, 0, cols*rows)

	for gy := 0; gy < rows; gy++ {
		for gx := 0; gx < cols; gx++ {
			cell := core.Rect{
				X:      bounds.X + float64(gx)*interval,
				Y:      bounds.Y + float64(gy)*interval,
				Width:  interval,
				Height: interval,
			}

			if g.overlapsCave(cell) {
				half := interval / 2
				for sy := 0; sy < 2; sy++ {
					for sx := 0; sx < 2; sx++ {
						c := core.Vec2{X: cell.X + half*(float64(sx)+0.5), Y: cell.Y + half*(float64(sy)+0.5)}
						sites = append(sites, g.jitter(c, variance/2))
					}
				}
				continue
			}

			c := cell.Center()
			if g.field.Sample(c) > sparseSq && !g.rng.Chance(parameter.SiteSparseKeepChance) {
				continue
			}
			sites = append(sites, g.jitter(c, variance))
		}
	}
	return sites
}

func (g *generator) jitter(c core.Vec2, v float64) core.Vec2 {
	dx := g.rng.Range(-v, v)
	dy := g.rng.Range(-v, v)
	return core.Vec2{X: c.X + dx, Y: c.Y + dy}
}

func (g *generator) overlapsCave(r core.Rect) bool {
	for _, c := range g.level.Caves {
		if c.Area.Intersects(r) {
			return true
		}
	}
	return false
}
