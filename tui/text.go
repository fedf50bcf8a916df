package tui

// UI Text Constants
const (
	TextTitle       = "Say the Number"
	TextIntro       = "Hi, I can say numbers for you."
	TextPlaceholder = "Enter a number (e.g., -3.14 or 208)"

	TextButtonNow   = "Say it now"
	TextButtonDelay = "Say it with a delay"
	TextLoading     = "Thinking..."
)
