package service

// labels are the base words for generated display names
var labels = []string{
	"Amber", "Aspen", "Basil", "Birch", "Blue", "Breeze", "Cedar", "Cinder",
	"Clover", "Comet", "Coral", "Cosmo", "Dune", "Echo", "Ember", "Fable",
	"Fern", "Finch", "Flint", "Frost", "Gale", "Harbor", "Hazel", "Indigo",
	"Ivy", "Juniper", "Kestrel", "Lark", "Linen", "Lumen", "Maple", "Meadow",
	"Moss", "Nimbus", "Nova", "Oak", "Onyx", "Orbit", "Otter", "Pebble",
	"Pine", "Pixel", "Quartz", "Raven", "Reed", "River", "Robin", "Rowan",
	"Sable", "Sage", "Slate", "Sparrow", "Spruce", "Storm", "Thistle", "Tide",
	"Vale", "Willow", "Wren", "Zephyr",
}
