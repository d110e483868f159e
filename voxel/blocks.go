package voxel

// Reference block ids. A real game would register its own table; these
// are provided so the world/meshing/save packages have concrete ids to
// exercise in tests, the way the teacher's registry package shipped a
// fixed starter set (grass, dirt, stone, bedrock, planks, ...).
const (
	Stone Voxel = iota + 1
	Dirt
	Grass
	Bedrock
	Water
	Sand
	Wood
	Leaves
)

// RegisterDefaults installs the reference block table into the global
// registry. Safe to call multiple times; later calls overwrite entries.
func RegisterDefaults() {
	Register(Stone, Properties{
		Name: "stone", Solid: true, Hardness: 1.5,
		Tool: ToolPickaxe, ToolLevel: 0,
		Drops: []Drop{{ID: Stone, Chance: 255}},
		DropCountMin: 1, DropCountMax: 1,
		Pattern: UNIFORM,
	})
	Register(Dirt, Properties{
		Name: "dirt", Solid: true, Hardness: 0.5,
		Tool: ToolShovel,
		Drops: []Drop{{ID: Dirt, Chance: 255}},
		DropCountMin: 1, DropCountMax: 1,
		Pattern: UNIFORM,
	})
	Register(Grass, Properties{
		Name: "grass", Solid: true, Hardness: 0.6,
		Tool: ToolShovel,
		Drops: []Drop{{ID: Dirt, Chance: 255}},
		DropCountMin: 1, DropCountMax: 1,
		Pattern: AllDifferent,
	})
	Register(Bedrock, Properties{
		Name: "bedrock", Solid: true, Hardness: -1.0,
		Pattern: UNIFORM,
	})
	Register(Water, Properties{
		Name: "water", Solid: false, Transparent: true, Fluid: true,
		Pattern: UNIFORM,
	})
	Register(Sand, Properties{
		Name: "sand", Solid: true, Hardness: 0.5,
		Tool: ToolShovel,
		Drops: []Drop{{ID: Sand, Chance: 255}},
		DropCountMin: 1, DropCountMax: 1,
		Pattern: UNIFORM,
	})
	Register(Wood, Properties{
		Name: "wood", Solid: true, Hardness: 2.0,
		Tool: ToolAxe,
		Drops: []Drop{{ID: Wood, Chance: 255}},
		DropCountMin: 1, DropCountMax: 1,
		Pattern: TopBottomDifferent,
	})
	Register(Leaves, Properties{
		Name: "leaves", Solid: true, Transparent: true, Hardness: 0.2,
		Tool: ToolShears,
		Drops: []Drop{{ID: Leaves, Chance: 20}},
		DropCountMin: 0, DropCountMax: 1,
		Pattern: UNIFORM,
	})
}
