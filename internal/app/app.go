// Package app is the controller layer of the dashboard. It owns the
// domain state (catalog, progress, conversation) and translates
// operator intents from the view into state transitions, assistant
// turns, and journal records.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cipherforge/internal/assistant"
	"cipherforge/internal/catalog"
	"cipherforge/internal/progress"
	"cipherforge/internal/session"
	"cipherforge/internal/state"
	"cipherforge/internal/telemetry"
	"cipherforge/internal/ui"
)

const (
	submitTimeout = 5 * time.Second
	chatTimeout   = 45 * time.Second
	synthTimeout  = 60 * time.Second
)

type App struct {
	cfg      Config
	logger   *telemetry.JSONLogger
	view     ui.View
	journal  state.Journal
	pipeline *assistant.Pipeline
	synth    *assistant.Synthesizer
	convo    *session.Log

	mu          sync.Mutex
	catalog     *catalog.Catalog
	progress    progress.Progress
	personality assistant.Personality
	filters     []categoryFilter
	filterIdx   int
	activeID    string
	generating  bool
}

func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewJSONLogger(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	seed, err := catalog.NewLoader().LoadSeed(cfg.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	cat, err := catalog.New(seed)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	journal, err := state.NewInMemory()
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := journal.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	personality, err := assistant.ParsePersonality(cfg.Personality)
	if err != nil {
		return nil, err
	}

	backend := buildBackend(ctx, cfg, logger)
	convo := session.NewLog()

	a := &App{
		cfg:         cfg,
		logger:      logger,
		journal:     journal,
		pipeline:    assistant.NewPipeline(backend, convo),
		synth:       assistant.NewSynthesizer(backend),
		convo:       convo,
		catalog:     cat,
		progress:    progress.New(),
		personality: personality,
		filters:     defaultFilters(),
	}
	a.pipeline.Notify = a.onPipelineChange

	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.ASCIIOnly,
		Debug:        cfg.DebugLayout,
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
		MouseScope:   cfg.UI.MouseScope,
	})
	view.SetController(a)
	a.view = view
	return a, nil
}

func (a *App) Run() error {
	a.logger.Info("app.start", map[string]any{
		"challenges":  a.catalog.Size(),
		"assistant":   string(normalizeAssistantMode(a.cfg.AssistantMode)),
		"personality": string(a.personality),
	})

	a.bootConversation()
	a.pushHeader()
	a.pushDashboard()
	a.pushConversation()
	a.pushPersonalityPicker(false)

	err := a.view.Run()

	if cerr := a.journal.Close(); cerr != nil {
		a.logger.Warn("journal.close", map[string]any{"error": cerr.Error()})
	}
	a.logger.Info("app.stop", nil)
	if lerr := a.logger.Close(); lerr != nil && err == nil {
		err = lerr
	}
	return err
}

func (a *App) bootConversation() {
	a.convo.Append(session.SenderSystem, "INITIALIZING CIPHER PROTOCOL...")
	a.convo.Append(session.SenderSystem, "ESTABLISHING SECURE UPLINK...")
	a.convo.Append(session.SenderSystem, fmt.Sprintf("CATALOG MOUNTED: %d CHALLENGES ONLINE.", a.catalog.Size()))
	a.convo.Append(session.SenderAssistant, a.welcomeLine())
}

func (a *App) welcomeLine() string {
	switch a.personality {
	case assistant.PersonalityDrillSergeant:
		return "LISTEN UP, OPERATOR. PICK A CHALLENGE AND MOVE."
	case assistant.PersonalityFriendlyTutor:
		return "Welcome back! Pick any challenge and we'll work through it together."
	case assistant.PersonalityChaoticAI:
		return "oh good, a human. let's break something :)"
	default:
		return "The Gibson is watching. Choose your target, operator."
	}
}

// --- ui.Controller ---

func (a *App) OnOpenDashboard() {
	a.mu.Lock()
	a.activeID = ""
	a.mu.Unlock()
	a.pushHeader()
	a.pushDashboard()
	a.view.SetScreen(ui.ScreenDashboard)
	a.view.RequestDraw()
}

func (a *App) OnSelectChallenge(id string) {
	a.mu.Lock()
	ch, ok := a.catalog.Get(id)
	if !ok {
		a.mu.Unlock()
		a.view.FlashStatus("Unknown challenge")
		return
	}
	a.activeID = id
	solved := a.progress.Solved(id)
	a.mu.Unlock()

	a.view.SetChallenge(ui.ChallengeState{
		ID:            ch.ID,
		Title:         ch.Title,
		CategoryLabel: ch.Category.Label(),
		Difficulty:    string(ch.Difficulty),
		Points:        ch.Points,
		Description:   ch.Description,
		Content:       ch.Content,
		Solved:        solved,
	})
	a.pushConversation()
	a.view.SetScreen(ui.ScreenChallenge)
	a.view.RequestDraw()
}

func (a *App) OnSubmitFlag(id, candidate string) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	a.mu.Lock()
	ch, ok := a.catalog.Get(id)
	if !ok {
		a.mu.Unlock()
		a.view.FlashStatus("Unknown challenge")
		return
	}
	alreadySolved := a.progress.Solved(id)
	a.mu.Unlock()

	outcome := progress.Submit(ch, candidate)

	if alreadySolved && outcome == progress.OutcomeAccepted {
		// Replay of a correct flag: no points, no fanfare, just leave.
		a.OnOpenDashboard()
		return
	}

	if err := a.journal.RecordSubmission(ctx, state.Submission{
		ChallengeID: id,
		Accepted:    outcome == progress.OutcomeAccepted,
	}); err != nil {
		a.logger.Warn("journal.submission", map[string]any{"error": err.Error()})
	}

	if outcome == progress.OutcomeRejected {
		a.logger.Info("flag.rejected", map[string]any{"challenge": id})
		a.view.FlashStatus("ACCESS DENIED. INVALID FLAG.")
		a.view.RequestDraw()
		return
	}

	a.mu.Lock()
	a.progress = progress.ApplySolve(a.progress, id, ch.Points)
	score := a.progress.Score
	rank := a.progress.Rank
	a.mu.Unlock()

	a.logger.Info("flag.accepted", map[string]any{
		"challenge": id,
		"points":    ch.Points,
		"score":     score,
		"rank":      rank,
	})
	if err := a.journal.RecordSolve(ctx, state.Solve{
		ChallengeID: id,
		Title:       ch.Title,
		Points:      ch.Points,
		ScoreAfter:  score,
		RankAfter:   rank,
	}); err != nil {
		a.logger.Warn("journal.solve", map[string]any{"error": err.Error()})
	}

	a.view.FlashStatus("ACCESS GRANTED")
	a.convo.Append(session.SenderSystem,
		fmt.Sprintf("CHALLENGE COMPLETE. %d POINTS ADDED. SYSTEM UPGRADED.", ch.Points))
	a.OnOpenDashboard()
	a.pushConversation()

	// Unsolicited debrief. The context is built after the solve so the
	// host sees the updated score.
	a.sendAssistantTurn("I just solved the challenge! How did I do?")
}

func (a *App) OnRequestHint() {
	a.mu.Lock()
	ch, ok := a.catalog.Get(a.activeID)
	a.mu.Unlock()
	if !ok {
		a.view.FlashStatus("No active challenge")
		return
	}
	a.sendAssistantTurn(fmt.Sprintf(
		"Can you give me a hint for %q? The current hint is: %s", ch.Title, ch.Hint))
}

func (a *App) OnSendChat(text string) {
	a.sendAssistantTurn(text)
}

func (a *App) sendAssistantTurn(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	a.mu.Lock()
	personality := a.personality
	stateCtx := a.buildContextLocked()
	a.mu.Unlock()

	msg := a.pipeline.Send(ctx, text, personality, stateCtx)

	if err := a.journal.RecordAssistantTurn(ctx, state.AssistantTurn{
		Personality: string(personality),
		Delivered:   !assistant.IsFallback(msg.Text),
	}); err != nil {
		a.logger.Warn("journal.assistant_turn", map[string]any{"error": err.Error()})
	}
}

// buildContextLocked snapshots the state the host is told about.
// Callers hold a.mu.
func (a *App) buildContextLocked() string {
	if a.activeID != "" {
		if ch, ok := a.catalog.Get(a.activeID); ok {
			return assistant.BuildContext(a.progress, &ch, a.catalog.Size())
		}
	}
	return assistant.BuildContext(a.progress, nil, a.catalog.Size())
}

func (a *App) OnGenerateChallenge() {
	a.mu.Lock()
	if a.generating {
		a.mu.Unlock()
		a.view.FlashStatus("Generation already in progress")
		return
	}
	a.generating = true
	a.mu.Unlock()

	a.view.SetGenerating(true)
	a.convo.Append(session.SenderSystem, "GENERATING NEW SIMULATION PARAMETERS...")
	a.pushConversation()
	a.view.RequestDraw()

	ctx, cancel := context.WithTimeout(context.Background(), synthTimeout)
	defer cancel()

	ch, err := a.synth.SynthesizeRandom(ctx)

	a.mu.Lock()
	a.generating = false
	if err == nil {
		err = a.catalog.Prepend(ch)
	}
	a.mu.Unlock()

	record := state.Synthesis{
		ChallengeID: ch.ID,
		Category:    string(ch.Category),
		Difficulty:  string(ch.Difficulty),
		Succeeded:   err == nil,
	}
	if jerr := a.journal.RecordSynthesis(ctx, record); jerr != nil {
		a.logger.Warn("journal.synthesis", map[string]any{"error": jerr.Error()})
	}

	if err != nil {
		a.logger.Warn("synthesis.failed", map[string]any{"error": err.Error()})
		a.convo.Append(session.SenderSystem, "GENERATION FAILED. TRY AGAIN.")
	} else {
		a.logger.Info("synthesis.ok", map[string]any{
			"challenge":  ch.ID,
			"category":   string(ch.Category),
			"difficulty": string(ch.Difficulty),
		})
		a.convo.Append(session.SenderSystem,
			fmt.Sprintf("NEW CHALLENGE GENERATED: %s [%s]", ch.Title, ch.Difficulty))
	}

	a.view.SetGenerating(false)
	a.pushHeader()
	a.pushDashboard()
	a.pushConversation()
	a.view.RequestDraw()
}

func (a *App) OnFilterCategory(label string) {
	a.mu.Lock()
	for i, f := range a.filters {
		if f.Label == label {
			a.filterIdx = i
		}
	}
	a.mu.Unlock()
	a.pushDashboard()
	a.view.RequestDraw()
}

func (a *App) OnChangePersonality(raw string) {
	p, err := assistant.ParsePersonality(raw)
	if err != nil {
		a.view.FlashStatus("Unknown personality")
		return
	}
	a.mu.Lock()
	a.personality = p
	a.mu.Unlock()

	a.logger.Info("personality.changed", map[string]any{"personality": string(p)})
	a.convo.Append(session.SenderSystem, "HOST PERSONALITY RECALIBRATED: "+p.Label())
	a.pushHeader()
	a.pushPersonalityPicker(false)
	a.pushConversation()
	a.view.RequestDraw()
}

func (a *App) OnOpenStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sum, err := a.journal.GetSummary(ctx)
	if err != nil {
		a.view.FlashStatus("Stats unavailable")
		a.logger.Warn("journal.summary", map[string]any{"error": err.Error()})
		return
	}
	solves, err := a.journal.RecentSolves(ctx, 5)
	if err != nil {
		a.logger.Warn("journal.recent_solves", map[string]any{"error": err.Error()})
	}
	a.view.SetInfo("Session Stats", formatStats(sum, solves), true)
	a.view.RequestDraw()
}

func (a *App) OnQuit() {
	a.view.Stop()
}

func (a *App) OnResize(cols, rows int) {
	// Layout is recomputed inside the view; nothing to do here.
}

// --- view state pushes ---

func (a *App) pushHeader() {
	a.mu.Lock()
	st := ui.HeaderState{
		Score:       a.progress.Score,
		Rank:        a.progress.Rank,
		SolvedCount: a.progress.SolvedCount(),
		Total:       a.catalog.Size(),
		Personality: a.personality.Label(),
	}
	a.mu.Unlock()
	a.view.SetHeader(st)
}

func (a *App) pushDashboard() {
	a.mu.Lock()
	filter := a.filters[a.filterIdx]
	labels := make([]string, 0, len(a.filters))
	for _, f := range a.filters {
		labels = append(labels, f.Label)
	}
	cards := make([]ui.ChallengeCard, 0, a.catalog.Size())
	for _, ch := range a.catalog.Challenges() {
		if !filter.matches(ch) {
			continue
		}
		cards = append(cards, ui.ChallengeCard{
			ID:            ch.ID,
			Title:         ch.Title,
			CategoryLabel: ch.Category.Label(),
			Difficulty:    string(ch.Difficulty),
			Points:        ch.Points,
			Solved:        a.progress.Solved(ch.ID),
			Synthesized:   ch.Synthesized,
		})
	}
	a.mu.Unlock()

	a.view.SetDashboard(ui.DashboardState{
		Cards:       cards,
		FilterLabel: filter.Label,
		Filters:     labels,
	})
}

func (a *App) pushConversation() {
	msgs := a.convo.Messages()
	out := make([]ui.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ui.ChatMessage{
			Sender: string(m.Sender),
			Text:   m.Text,
			Stamp:  m.Timestamp.Local().Format("15:04:05"),
		})
	}
	a.view.SetConversation(out)
}

func (a *App) pushPersonalityPicker(open bool) {
	a.mu.Lock()
	current := a.personality
	a.mu.Unlock()

	opts := make([]ui.PersonalityOption, 0, len(assistant.Personalities()))
	for _, p := range assistant.Personalities() {
		opts = append(opts, ui.PersonalityOption{
			Value:    string(p),
			Label:    p.Label(),
			Selected: p == current,
		})
	}
	a.view.SetPersonalityPicker(opts, open)
}

func (a *App) onPipelineChange() {
	a.pushConversation()
	a.view.SetAssistantBusy(a.pipeline.Busy())
	a.view.RequestDraw()
}

var _ ui.Controller = (*App)(nil)
