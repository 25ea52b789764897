package resource

// Words is the secret word corpus.
var Words = []string{
	"airport", "anchor", "apple", "astronaut", "avalanche", "backpack", "bakery", "balloon", "banana", "bicycle",
	"blanket", "bridge", "butterfly", "cactus", "camera", "candle", "castle", "chess", "chocolate", "circus",
	"cloud", "compass", "cookie", "crown", "desert", "diamond", "dinosaur", "dolphin", "dragon", "drum",
	"elevator", "envelope", "festival", "fireworks", "garden", "ghost", "giraffe", "glacier", "guitar", "hammock",
	"helicopter", "honey", "hospital", "iceberg", "island", "jungle", "kangaroo", "kite", "ladder", "lantern",
	"library", "lighthouse", "magnet", "map", "mirror", "mountain", "museum", "mushroom", "octopus", "orchestra",
	"painting", "parachute", "passport", "penguin", "piano", "pirate", "pizza", "planet", "pyramid", "rainbow",
	"robot", "rocket", "sandwich", "satellite", "scarecrow", "skateboard", "snowman", "spider", "submarine", "sunflower",
	"suitcase", "telescope", "tent", "theater", "tornado", "tractor", "treasure", "umbrella", "vampire", "violin",
	"volcano", "waterfall", "whale", "windmill", "wizard", "zebra",
}
