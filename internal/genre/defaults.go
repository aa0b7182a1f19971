package genre

// Seed defines one genre of the built-in table.
type Seed struct {
	Name     string
	Moods    []string
	Priority int // 0 means unranked
}

// UnrankedPriority is the rank of any genre without an explicit priority.
const UnrankedPriority = 999

// DefaultMoods is returned for genres the table does not know.
var DefaultMoods = []string{"lofi", "ambient"}

// DefaultSeeds is the built-in genre table, in candidate-label order.
// "Dark Fantasy" and "Dystopian" intentionally share rank 3.
var DefaultSeeds = []Seed{
	{Name: "Fantasy", Moods: []string{"epic fantasy", "medieval ambient", "cinematic"}, Priority: 11},
	{Name: "Epic Fantasy", Moods: []string{"epic orchestral", "battle themes", "fantasy soundtracks"}},
	{Name: "Dark Fantasy", Moods: []string{"dark ambient", "gothic instrumental", "medieval horror"}, Priority: 3},
	{Name: "Historical Fantasy", Moods: []string{"period drama", "ancient scores", "folk orchestral"}},
	{Name: "Political Fantasy", Moods: []string{"tense orchestral", "chess match soundtrack", "dark intrigue"}, Priority: 2},
	{Name: "Science Fiction", Moods: []string{"synthwave", "futuristic ambient", "cyberpunk"}, Priority: 7},
	{Name: "Adventure", Moods: []string{"cinematic adventure", "heroic scores", "quest themes"}, Priority: 12},
	{Name: "Action", Moods: []string{"intense instrumentals", "high tempo beats", "movie action music"}},
	{Name: "Drama", Moods: []string{"emotional piano", "cinematic slow burn", "melancholic strings"}},
	{Name: "Fiction", Moods: []string{"lofi chill", "acoustic", "reading music"}, Priority: 14},
	{Name: "Nonfiction", Moods: []string{"jazz", "classical focus", "study beats"}, Priority: 18},
	{Name: "Romance", Moods: []string{"love songs", "soft indie", "acoustic romance"}, Priority: 15},
	{Name: "Thriller", Moods: []string{"suspense", "dark ambient", "cinematic thriller"}, Priority: 9},
	{Name: "Mystery", Moods: []string{"noir jazz", "piano mystery", "crime soundtrack"}, Priority: 8},
	{Name: "Biography", Moods: []string{"soulful jazz", "instrumental", "reflective piano"}},
	{Name: "Horror", Moods: []string{"horror scores", "creepy ambient", "dark drone"}, Priority: 6},
	{Name: "Historical", Moods: []string{"period drama", "folk classics", "epic orchestral"}, Priority: 10},
	{Name: "Satire", Moods: []string{"quirky jazz", "light piano", "playful background music"}},
	{Name: "Self-Help", Moods: []string{"uplifting beats", "peaceful piano", "focus lo-fi"}, Priority: 17},
	{Name: "Coming of Age", Moods: []string{"nostalgic indie", "emotional acoustic", "teen drama soundtrack"}},
	{Name: "Philosophical", Moods: []string{"ambient minimal", "thoughtful piano", "existential jazz"}, Priority: 4},
	{Name: "Literary Fiction", Moods: []string{"cinematic reading", "soulful ambient", "deep focus"}},
	{Name: "Post-Apocalyptic", Moods: []string{"dystopian synth", "tense ambient", "moody electronica"}, Priority: 5},
	{Name: "Dystopian", Moods: []string{"gritty synth", "darkwave", "industrial ambient"}, Priority: 3},
	{Name: "Apocalyptic", Moods: []string{"desolate ambient", "survival themes", "post-industrial"}},
	{Name: "Magical Realism", Moods: []string{"whimsical piano", "fantasy fusion", "ethereal soundscapes"}},
	{Name: "Psychological Thriller", Moods: []string{"dark pulse", "suspense drone", "mental games soundtrack"}, Priority: 1},
	{Name: "Classic Literature", Moods: []string{"period chamber", "timeless strings", "vintage piano"}, Priority: 13},
	{Name: "Crime", Moods: []string{"detective noir", "urban jazz", "thriller beats"}},
	{Name: "Comedy", Moods: []string{"quirky tunes", "lighthearted jazz", "playful groove"}, Priority: 16},
	{Name: "Young Adult", Moods: []string{"youthful pop", "soft rock", "teen anthems"}, Priority: 19},
	{Name: "General", Moods: []string{"lofi", "ambient", "instrumental"}},
}
