package asset

// DefaultGenerationParams holds the built-in generation parameter sets and biomes
const DefaultGenerationParams = `

# === Generation parameter sets ===

[[params]]
id = "default"
default = true

# --- Main path ---
main_path_node_interval = { min = 3000, max = 5000 }
main_path_variance = 0.5
main_path_min_width = 800.0

# --- Side tunnels ---
side_tunnels = { min = 0, max = 2 }
side_tunnel_variance = 0.6
side_tunnel_min_width = { min = 500.0, max = 700.0 }

# --- Caves ---
caves = { min = 0, max = 1 }
cave_width = { min = 5000, max = 7000 }
cave_height = { min = 3000, max = 4000 }
cave_min_distance = 4000.0
cave_branches = { min = 1, max = 3 }
cave_min_width = 450.0
cave_node_interval = { min = 1500, max = 2500 }

# --- Voronoi sites ---
voronoi_site_interval = 1000
voronoi_site_variance = 300

# --- Structures ---
ruins = { min = 0, max = 1 }
ruin_min_distance = 3000.0
wrecks = { min = 0, max = 2 }
wreck_min_distance = 2000.0
outposts = { min = 0, max = 0 }
outpost_min_distance = 3000.0
outpost_location_type = "mining"
beacon_min_distance = 2500.0

# --- Extra walls ---
floating_ice = { min = 0, max = 3 }
ice_chunk_size = { min = 150.0, max = 300.0 }
ice_spires = { min = 0, max = 4 }

# --- Resources ---
item_count = 60
resource_interval = { min = 2000.0, max = 3500.0 }
cave_resource_interval = { min = 1000.0, max = 2000.0 }
resource_chance = 0.5
cave_resource_chance = 0.8
cluster_size = { min = 2, max = 5 }
clusters_per_point = { min = 1, max = 2 }


[[params]]
id = "ridge"

main_path_node_interval = { min = 2500, max = 4000 }
main_path_variance = 0.8
main_path_min_width = 700.0

side_tunnels = { min = 1, max = 3 }
side_tunnel_variance = 0.8
side_tunnel_min_width = { min = 450.0, max = 600.0 }

caves = { min = 1, max = 2 }
cave_width = { min = 4000, max = 6000 }
cave_height = { min = 3000, max = 3500 }
cave_min_distance = 3500.0
cave_branches = { min = 2, max = 3 }
cave_min_width = 400.0
cave_node_interval = { min = 1200, max = 2000 }

voronoi_site_interval = 900
voronoi_site_variance = 250

ruins = { min = 1, max = 2 }
ruin_min_distance = 2500.0
wrecks = { min = 1, max = 2 }
wreck_min_distance = 2000.0
outposts = { min = 0, max = 1 }
outpost_min_distance = 3000.0
outpost_location_type = "research"
beacon_min_distance = 2500.0

floating_ice = { min = 2, max = 6 }
ice_chunk_size = { min = 120.0, max = 260.0 }
ice_spires = { min = 2, max = 8 }

item_count = 90
resource_interval = { min = 1800.0, max = 3000.0 }
cave_resource_interval = { min = 900.0, max = 1600.0 }
resource_chance = 0.6
cave_resource_chance = 0.9
cluster_size = { min = 2, max = 6 }
clusters_per_point = { min = 1, max = 3 }


# === Biomes ===

[[biomes]]
id = "cold_caverns"
name = "Cold Caverns"
generation_params = "default"

[[biomes]]
id = "europan_ridge"
name = "Europan Ridge"
generation_params = "ridge"

[[biomes]]
id = "hydrothermal_wastes"
name = "Hydrothermal Wastes"
`
