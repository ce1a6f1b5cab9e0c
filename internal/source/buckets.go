package source

import "math/rand"

// subredditBuckets maps category names to subreddits whose posts tend to fit
// that category. Fetching per bucket yields a more diverse letter mix than a
// single subreddit.
var subredditBuckets = map[string][]string{
	"Personal": {
		"offmychest",
		"confession",
		"CasualConversation",
		"self",
		"stories",
	},
	"Advice": {
		"advice",
		"relationship_advice",
		"dating_advice",
		"AskReddit",
		"AmItheAsshole",
	},
	"Gratitude": {
		"gratitude",
		"MadeMeSmile",
		"HumansBeingBros",
		"happy",
		"CongratsLikeImFive",
	},
	"Reflection": {
		"Showerthoughts",
		"philosophy",
		"DoesAnybodyElse",
		"self",
		"Mindfulness",
	},
	"Support": {
		"mentalhealth",
		"depression",
		"anxiety",
		"kindvoice",
	},
	"Love": {
		"relationship_advice",
		"dating_advice",
		"LongDistance",
	},
	"Family": {
		"Parenting",
		"family",
		"raisedbynarcissists",
	},
}

const maxSubredditsPerBucket = 3

// BucketsFor returns up to three subreddits sampled from the bucket for the
// category, or nil when no bucket exists for that name.
func BucketsFor(category string, rnd *rand.Rand) []string {
	subs, ok := subredditBuckets[category]
	if !ok {
		return nil
	}

	if len(subs) <= maxSubredditsPerBucket {
		out := make([]string, len(subs))
		copy(out, subs)

		return out
	}

	picked := rnd.Perm(len(subs))[:maxSubredditsPerBucket]

	out := make([]string, 0, maxSubredditsPerBucket)
	for _, i := range picked {
		out = append(out, subs[i])
	}

	return out
}
