package level

import (
	"testing"

	"github.com/lixenwraith/depthgen/asset"
	"github.com/lixenwraith/depthgen/catalog"
)

// quiet disables every optional structure so tests can enable only what they exercise
func quiet(p *GenerationParams) {
	p.SideTunnels = IntRange{}
	p.Caves = IntRange{}
	p.Ruins = IntRange{}
	p.Wrecks = IntRange{}
	p.Outposts = IntRange{}
	p.FloatingIce = IntRange{}
	p.IceSpires = IntRange{}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load([]byte(asset.DefaultCatalog))
	if err != nil {
		t.Fatalf("catalog load failed: %v", err)
	}
	return c
}

func testParamsSet(t *testing.T, mutate func(p *GenerationParams)) *ParamsSet {
	t.Helper()
	set, err := DefaultParamsSet()
	if err != nil {
		t.Fatalf("params load failed: %v", err)
	}
	if mutate != nil {
		mutate(&set.Params[0])
	}
	return set
}

// generateTest builds a cold_caverns level with the default family mutated
func generateTest(t *testing.T, seed string, size Size, mutate func(p *GenerationParams), opts ...Option) *Level {
	t.Helper()
	data := NewLevelData(seed, "cold_caverns", size, 50)
	l, err := Generate(data, testParamsSet(t, mutate), testCatalog(t), opts...)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return l
}
