package ui

// Controller receives operator intents from the view. Implementations
// run the handlers on their own goroutines and push resulting state
// back through the View setters.
type Controller interface {
	OnOpenDashboard()
	OnSelectChallenge(id string)
	OnSubmitFlag(id, candidate string)
	OnRequestHint()
	OnSendChat(text string)
	OnGenerateChallenge()
	OnFilterCategory(category string)
	OnChangePersonality(personality string)
	OnOpenStats()
	OnQuit()
	OnResize(cols, rows int)
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetScreen(screen Screen)
	SetHeader(state HeaderState)
	SetDashboard(state DashboardState)
	SetChallenge(state ChallengeState)
	SetConversation(messages []ChatMessage)
	SetAssistantBusy(busy bool)
	SetGenerating(generating bool)
	SetPersonalityPicker(options []PersonalityOption, open bool)
	SetInfo(title, text string, open bool)
	FlashStatus(msg string)
	RequestDraw()
}

type Screen int

const (
	ScreenBoot Screen = iota
	ScreenDashboard
	ScreenChallenge
)

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutMedium
	LayoutTooSmall
)

// HeaderState is the persistent top bar: operator identity and rank.
type HeaderState struct {
	Score       int
	Rank        string
	SolvedCount int
	Total       int
	Personality string
}

type DashboardState struct {
	Cards       []ChallengeCard
	FilterLabel string
	Filters     []string
}

type ChallengeCard struct {
	ID            string
	Title         string
	CategoryLabel string
	Difficulty    string
	Points        int
	Solved        bool
	Synthesized   bool
}

type ChallengeState struct {
	ID            string
	Title         string
	CategoryLabel string
	Difficulty    string
	Points        int
	Description   string
	Content       string
	Solved        bool
}

type ChatMessage struct {
	Sender string
	Text   string
	Stamp  string
}

type PersonalityOption struct {
	Value    string
	Label    string
	Selected bool
}
