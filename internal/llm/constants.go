package llm

const (
	mockAPIKey = "mock"

	// classifyTextBudget bounds how much post text goes into the
	// classification prompt.
	classifyTextBudget = 2000

	// Error message templates
	errRateLimiter          = "rate limiter error: %w"
	errOpenAIChatCompletion = "openai chat completion error: %w"
	errEmptyCompletion      = "empty completion from model"
)

// Task labels used in metrics.
const (
	TaskClassify    = "classify"
	TaskExpand      = "expand"
	TaskRewrite     = "rewrite"
	TaskRewritePost = "rewrite_post"
	TaskMoodTag     = "mood_tag"
	TaskDisplayName = "display_name"
)
