package classify

// categoryKeywords maps a category name to the indicator phrases scored by
// the keyword strategy. Matching is case-insensitive substring containment.
var categoryKeywords = map[string][]string{
	"Personal":    {"my life", "myself", "personal", "experience", "feeling", "story"},
	"Advice":      {"advice", "help", "what should", "need guidance", "question"},
	"Gratitude":   {"thank", "grateful", "appreciate", "blessed", "lucky"},
	"Reflection":  {"thinking about", "reflect", "wonder", "contemplating", "perspective"},
	"Support":     {"support", "struggling", "hard time", "difficult", "need help"},
	"Love":        {"relationship", "partner", "boyfriend", "girlfriend", "marriage", "love"},
	"Financial":   {"money", "debt", "salary", "rent", "bills", "savings"},
	"Family":      {"family", "mother", "father", "parents", "sibling", "my kids"},
	"Friendship":  {"friend", "friendship", "best friend", "lonely"},
	"Vent":        {"fed up", "so angry", "frustrated", "rant", "can't stand"},
	"Health":      {"doctor", "diagnosis", "illness", "therapy", "anxiety", "depression"},
	"Reflections": {"looking back", "realized", "used to", "growing up"},
	"Intimacy":    {"intimacy", "intimate", "closeness", "trust"},
	"Spiritual":   {"faith", "pray", "spiritual", "believe", "universe"},
}
