package asset

// DefaultCatalog is the built-in item and structure prefab catalog
const DefaultCatalog = `

# === Resource items ===

[[items]]
id = "iron_ore"
tags = ["ore", "metal"]
commonness = 10.0
width = 60.0
height = 50.0

[[items]]
id = "copper_ore"
tags = ["ore", "metal"]
commonness = 8.0
width = 55.0
height = 45.0

[[items]]
id = "titanium_ore"
tags = ["ore", "metal", "rare"]
commonness = 2.0
width = 60.0
height = 55.0
level_commonness = { outpost = 0.5 }

[[items]]
id = "sulphur_crystal"
tags = ["crystal", "mineral"]
commonness = 6.0
width = 40.0
height = 70.0

[[items]]
id = "quartz_crystal"
tags = ["crystal", "mineral"]
commonness = 4.0
width = 35.0
height = 65.0

[[items]]
id = "aquatic_poppy"
tags = ["plant"]
commonness = 5.0
width = 40.0
height = 40.0

[[items]]
id = "sea_yeast"
tags = ["plant"]
commonness = 3.0
width = 45.0
height = 30.0

# --- Guaranteed placements ---

[[items]]
id = "supply_cache"
tags = ["cache"]
commonness = 0.0
width = 80.0
height = 60.0
fixed_quantity = 2
fixed_level_type = "connection"

[[items]]
id = "oxygen_tank"
tags = ["cache"]
commonness = 0.0
width = 30.0
height = 60.0
fixed_quantity = 1


# === Structures ===

[[structures]]
id = "ruin_small"
kind = "ruin"
width = 2400.0
height = 1800.0
commonness = 2.0

[[structures]]
id = "ruin_large"
kind = "ruin"
width = 3600.0
height = 2400.0
commonness = 1.0

[[structures]]
id = "wreck_hull"
kind = "wreck"
width = 2600.0
height = 900.0
commonness = 1.0

[[structures]]
id = "wreck_sub"
kind = "wreck"
width = 1800.0
height = 700.0
commonness = 2.0

[[structures]]
id = "outpost_mining"
kind = "outpost"
width = 3000.0
height = 1600.0
commonness = 1.0
location_types = ["mining"]

[[structures]]
id = "outpost_research"
kind = "outpost"
width = 2600.0
height = 1800.0
commonness = 1.0
location_types = ["research", "military"]

[[structures]]
id = "beacon_station"
kind = "beacon"
width = 2200.0
height = 1400.0
commonness = 1.0
`
