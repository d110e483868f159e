package voxel

import "testing"

func TestPropertiesOfUnregisteredReturnsDefault(t *testing.T) {
	Reset()
	p := PropertiesOf(Voxel(200))
	if p.Name != defaultProperties.Name || !p.Solid {
		t.Fatalf("unregistered id should resolve to default record, got %+v", p)
	}
}

func TestPropertiesOfAirIsNeverSolid(t *testing.T) {
	Reset()
	RegisterDefaults()
	p := PropertiesOf(Air)
	if p.Solid || !p.Transparent {
		t.Fatalf("air must be non-solid and transparent, got %+v", p)
	}
}

func TestRegisterRoundTrip(t *testing.T) {
	Reset()
	RegisterDefaults()
	p := PropertiesOf(Stone)
	if p.Name != "stone" || !p.Solid {
		t.Fatalf("stone properties not registered correctly: %+v", p)
	}
}

func TestAtlasSlotCount(t *testing.T) {
	cases := map[FacePattern]int{
		UNIFORM:            1,
		TopBottomDifferent: 2,
		AllDifferent:       3,
		Directional:        4,
		AllFacesDifferent:  6,
	}
	for pattern, want := range cases {
		if got := AtlasSlotCount(pattern); got != want {
			t.Errorf("AtlasSlotCount(%v) = %d, want %d", pattern, got, want)
		}
	}
}

func TestRequiresSideAndBottomAtlas(t *testing.T) {
	if RequiresSideAtlas(UNIFORM) {
		t.Error("UNIFORM must not require side atlas")
	}
	if !RequiresSideAtlas(TopBottomDifferent) {
		t.Error("TOP_BOTTOM_DIFFERENT must require side atlas")
	}
	if RequiresBottomAtlas(TopBottomDifferent) {
		t.Error("TOP_BOTTOM_DIFFERENT must not require bottom atlas")
	}
	if !RequiresBottomAtlas(AllDifferent) {
		t.Error("ALL_DIFFERENT must require bottom atlas")
	}
}
