package syntax

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/corazon/textcore/internal/document"
	"github.com/corazon/textcore/internal/logging"
)

type tierClassKey struct {
	tier  SyntaxTier
	class TaskClass
}

// Manager is the tiered syntax-parsing scheduler. EnsureSyntax is
// its sole entry point, called by the host on every tick or viewport
// move; it never blocks except for the optional
// sync-bootstrap fast path.
type Manager struct {
	mu      sync.Mutex
	entries map[document.Id]*Entry
	tiers   map[SyntaxTier]TierCfg
	permits *PermitPool
	recent  map[tierClassKey]*recentElapsed
	metrics MetricsSink
	log     zerolog.Logger
}

// New creates a Manager with the given tier configs and a global parse
// permit pool. metrics may be nil.
func New(tiers map[SyntaxTier]TierCfg, permits *PermitPool, metrics MetricsSink, log zerolog.Logger) *Manager {
	if (log == zerolog.Logger{}) {
		log = logging.Logger
	}
	return &Manager{
		entries: make(map[document.Id]*Entry),
		tiers:   tiers,
		permits: permits,
		recent:  make(map[tierClassKey]*recentElapsed),
		metrics: metrics,
		log:     log,
	}
}

func (m *Manager) entry(docID document.Id) *Entry {
	e, ok := m.entries[docID]
	if !ok {
		e = newEntry()
		m.entries[docID] = e
	}
	return e
}

// Complete delivers a finished task's result for processing on the next
// EnsureSyntax call for that document.
// A result arriving while a different task is active for the document
// (because a newer EnsureSyntax already kicked a replacement) is stored
// anyway; the completion-drain step in EnsureSyntax is responsible for
// rejecting stale results.
func (m *Manager) Complete(result CompletedSyntaxTask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(result.DocID)
	e.Sched.Completed = &result
	e.Sched.ActiveTask = false
	e.Sched.ActiveTaskDetached = false
}

// Dispatch is returned by EnsureSyntax when it decides to kick a new
// task; the caller is responsible for running it (typically via a
// supervised actor) and eventually calling Complete with the result.
type Dispatch struct {
	Spec TaskSpec
}

// EnsureSyntax runs the full scheduling algorithm for one
// document and returns the outcome plus, when the outcome is Kicked, the
// TaskSpec the caller must dispatch.
func (m *Manager) EnsureSyntax(ctx Ctx) (Outcome, *Dispatch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(ctx.DocID)
	tier := TierFor(int(ctx.Content.Len()))
	cfg := m.tiers[tier]

	viewport := clampViewport(ctx.Viewport, cfg)
	workDisabled := ctx.Hotness == Cold && !cfg.ParseWhenHidden

	if e.Slot.LanguageID != "" && e.Slot.LanguageID != ctx.LanguageID {
		m.invalidate(e)
	}
	if ctx.Hotness != Cold {
		e.Sched.LastVisibleAt = ctx.Now
	}
	if e.Slot.OptionsKey != "" && e.Slot.OptionsKey != ctx.OptionsKey {
		m.invalidate(e)
	}
	e.Slot.LanguageID = ctx.LanguageID
	e.Slot.OptionsKey = ctx.OptionsKey

	if e.Sched.ActiveTask && workDisabled {
		e.Sched.ActiveTaskDetached = true
	}

	// Completion drain.
	if e.Sched.Completed != nil {
		m.drainCompletion(e, ctx, tier, cfg)
	}

	// Gating: pre-empt or defer to an active non-detached task.
	if e.Sched.ActiveTask && !e.Sched.ActiveTaskDetached {
		if !m.canPreempt(e, ctx, tier, viewport) {
			return OutcomePending, nil
		}
		// Pre-emption: mark the old task detached so its result is
		// discarded, and fall through to schedule the viewport work.
		e.Sched.ActiveTaskDetached = true
		e.Sched.ActiveTask = false
	}

	if ctx.LanguageID == "" || !Supported(ctx.LanguageID) {
		m.dropTree(e)
		return OutcomeNoLanguage, nil
	}

	m.applyRetention(e, ctx.Hotness, cfg)

	if workDisabled {
		return OutcomeDisabled, nil
	}

	if !e.Slot.Dirty && e.Slot.Tree.Valid() && (e.Slot.Coverage == nil || viewport == nil || e.Slot.Coverage.Covers(*viewport)) {
		return OutcomeReady, nil
	}

	if e.Slot.Dirty && !e.Sched.ForceNoDebounce && ctx.Now.Sub(e.Sched.LastEditAt) < cfg.Debounce {
		return OutcomePending, nil
	}

	if ctx.Now.Before(e.Sched.CooldownUntil) {
		return OutcomeCoolingDown, nil
	}

	// Sync bootstrap fast path.
	if !e.Sched.bootstrapped && ctx.Hotness == Visible && cfg.SyncBootstrapTimeout > 0 && !e.Slot.Tree.Valid() {
		e.Sched.bootstrapped = true
		if tree, ok := m.tryBootstrap(e, ctx, cfg); ok {
			_ = tree
			return OutcomeReady, nil
		}
	}

	// Viewport two-stage scheduling.
	if tier == TierL && ctx.Hotness == Visible && viewport != nil {
		if e.Slot.Coverage == nil || !e.Slot.Coverage.Covers(*viewport) {
			return m.kick(e, ctx, tier, cfg, m.stageASpec(e, ctx, tier, cfg, *viewport))
		}
		if cfg.ViewportInjections == InjectionDisabled && !e.Sched.stageBAttempted[*viewport] {
			if cfg.ViewportStageBBudget == 0 || m.predictedDuration(tier, TaskViewport) <= cfg.ViewportStageBBudget {
				e.Sched.stageBAttempted[*viewport] = true
				return m.kick(e, ctx, tier, cfg, m.stageBSpec(e, ctx, tier, cfg, *viewport))
			}
		}
		return OutcomeReady, nil
	}

	// Full/incremental scheduling.
	spec := m.fullOrIncrementalSpec(e, ctx, tier, cfg)
	return m.kick(e, ctx, tier, cfg, spec)
}

func clampViewport(v *ByteRange, cfg TierCfg) *ByteRange {
	if v == nil || cfg.ViewportVisibleSpanCap == 0 {
		return v
	}
	capped := *v
	if capped.End > capped.Start+cfg.ViewportVisibleSpanCap {
		capped.End = capped.Start + cfg.ViewportVisibleSpanCap
	}
	return &capped
}

func (m *Manager) invalidate(e *Entry) {
	m.dropTree(e)
	e.Sched.Epoch++
	e.Sched.ActiveTaskDetached = e.Sched.ActiveTask
	e.Sched.stageBAttempted = make(map[ByteRange]bool)
	e.Sched.bootstrapped = false
}

func (m *Manager) dropTree(e *Entry) {
	e.Slot.Tree.Close()
	e.Slot.Tree = Tree{}
	e.Slot.TreeDocVersion = 0
	e.Slot.Coverage = nil
	e.Slot.Dirty = true
}

func (m *Manager) applyRetention(e *Entry, hotness Hotness, cfg TierCfg) {
	if hotness != Cold || !e.Slot.Tree.Valid() {
		return
	}
	policy := cfg.RetentionHiddenFull
	if e.Slot.Coverage != nil {
		policy = cfg.RetentionHiddenViewport
	}
	if policy == RetentionDropWhenHidden {
		m.dropTree(e)
	}
}

func (m *Manager) canPreempt(e *Entry, ctx Ctx, tier SyntaxTier, viewport *ByteRange) bool {
	if tier != TierL || ctx.Hotness != Visible || viewport == nil {
		return false
	}
	if e.Sched.ActiveTaskClass != TaskFull && e.Sched.ActiveTaskClass != TaskIncremental {
		return false
	}
	return e.Slot.Coverage != nil && !e.Slot.Coverage.Covers(*viewport)
}

func (m *Manager) tryBootstrap(e *Entry, ctx Ctx, cfg TierCfg) (Tree, bool) {
	spec := TaskSpec{
		DocID: ctx.DocID, Epoch: e.Sched.Epoch, DocVersion: ctx.DocVersion,
		LanguageID: ctx.LanguageID, OptionsKey: ctx.OptionsKey, Class: TaskFull,
		Timeout: cfg.SyncBootstrapTimeout, Loader: ctx.Loader, Content: ctx.Content,
	}
	tree, err := ctx.Loader.Parse(context.Background(), spec.LanguageID, []byte(ctx.Content.String()), e.Slot.Tree, nil, InjectionDisabled, spec.Timeout)
	if err != nil {
		return Tree{}, false
	}
	e.Slot.Tree = tree
	e.Slot.TreeDocVersion = ctx.DocVersion
	e.Slot.Dirty = false
	e.Slot.Coverage = nil
	return tree, true
}

func (m *Manager) stageASpec(e *Entry, ctx Ctx, tier SyntaxTier, cfg TierCfg, viewport ByteRange) TaskSpec {
	win := padViewport(viewport, cfg)
	return TaskSpec{
		DocID: ctx.DocID, Epoch: e.Sched.Epoch, DocVersion: ctx.DocVersion,
		LanguageID: ctx.LanguageID, OptionsKey: ctx.OptionsKey, Class: TaskViewport,
		Viewport: &win, Injections: cfg.ViewportInjections,
		Timeout: cfg.DeriveTimeout(m.recentFor(tier, TaskViewport)), Loader: ctx.Loader, Content: ctx.Content,
	}
}

func (m *Manager) stageBSpec(e *Entry, ctx Ctx, tier SyntaxTier, cfg TierCfg, viewport ByteRange) TaskSpec {
	win := padViewport(viewport, cfg)
	return TaskSpec{
		DocID: ctx.DocID, Epoch: e.Sched.Epoch, DocVersion: ctx.DocVersion,
		LanguageID: ctx.LanguageID, OptionsKey: ctx.OptionsKey, Class: TaskViewport,
		Viewport: &win, Injections: InjectionEager,
		Timeout: cfg.DeriveTimeout(m.recentFor(tier, TaskViewport)), Loader: ctx.Loader, Content: ctx.Content,
	}
}

func padViewport(v ByteRange, cfg TierCfg) ByteRange {
	start := v.Start
	if start > cfg.ViewportLookbehind {
		start -= cfg.ViewportLookbehind
	} else {
		start = 0
	}
	end := v.End + cfg.ViewportLookahead
	if cfg.ViewportWindowCap > 0 && end-start > cfg.ViewportWindowCap {
		end = start + cfg.ViewportWindowCap
	}
	return ByteRange{Start: start, End: end}
}

func (m *Manager) fullOrIncrementalSpec(e *Entry, ctx Ctx, tier SyntaxTier, cfg TierCfg) TaskSpec {
	if e.Slot.PendingIncremental != nil && e.Slot.TreeDocVersion == ctx.DocVersion-1 && e.Slot.Tree.Valid() {
		return TaskSpec{
			DocID: ctx.DocID, Epoch: e.Sched.Epoch, DocVersion: ctx.DocVersion,
			LanguageID: ctx.LanguageID, OptionsKey: ctx.OptionsKey, Class: TaskIncremental,
			Incremental: e.Slot.PendingIncremental,
			Timeout:     cfg.DeriveTimeout(m.recentFor(tier, TaskIncremental)),
			Loader:      ctx.Loader, Content: ctx.Content,
		}
	}
	return TaskSpec{
		DocID: ctx.DocID, Epoch: e.Sched.Epoch, DocVersion: ctx.DocVersion,
		LanguageID: ctx.LanguageID, OptionsKey: ctx.OptionsKey, Class: TaskFull,
		Timeout: cfg.DeriveTimeout(m.recentFor(tier, TaskFull)), Loader: ctx.Loader, Content: ctx.Content,
	}
}

func (m *Manager) recentFor(tier SyntaxTier, class TaskClass) *recentElapsed {
	key := tierClassKey{tier, class}
	r, ok := m.recent[key]
	if !ok {
		r = &recentElapsed{}
		m.recent[key] = r
	}
	return r
}

func (m *Manager) predictedDuration(tier SyntaxTier, class TaskClass) time.Duration {
	return m.recentFor(tier, class).average()
}

func (m *Manager) kick(e *Entry, ctx Ctx, tier SyntaxTier, cfg TierCfg, spec TaskSpec) (Outcome, *Dispatch) {
	if m.permits != nil && !m.permits.TryAcquire(spec.Class) {
		return OutcomeThrottled, nil
	}
	e.Sched.ActiveTask = true
	e.Sched.ActiveTaskClass = spec.Class
	e.Sched.ActiveTaskDetached = false
	e.Sched.RequestedDocVersion = ctx.DocVersion
	return OutcomeKicked, &Dispatch{Spec: spec}
}

// ReleasePermit must be called by the dispatcher once a kicked task's
// result has been delivered via Complete, so the permit pool's slot is
// freed for the next task.
func (m *Manager) ReleasePermit(class TaskClass) {
	if m.permits != nil {
		m.permits.Release(class)
	}
}

func (m *Manager) drainCompletion(e *Entry, ctx Ctx, tier SyntaxTier, cfg TierCfg) {
	done := e.Sched.Completed
	e.Sched.Completed = nil

	if done.LanguageID != e.Slot.LanguageID || done.OptionsKey != e.Slot.OptionsKey {
		return
	}
	if e.Sched.ActiveTaskDetached {
		// Stale relative to a pre-emption or invalidation; discard.
		m.recordMetric(tier, done, false)
		return
	}

	if done.Outcome == TaskOutcomeTimeout {
		cd := cfg.CooldownOnTimeout
		if done.Class == TaskViewport {
			cd = cfg.ViewportCooldownOnTimeout
		}
		e.Sched.CooldownUntil = ctx.Now.Add(cd)
		m.recordMetric(tier, done, false)
		return
	}
	if done.Outcome == TaskOutcomeError {
		e.Sched.CooldownUntil = ctx.Now.Add(cfg.CooldownOnError)
		m.recordMetric(tier, done, false)
		return
	}

	m.recentFor(tier, done.Class).record(done.Elapsed)

	if !canInstall(e, ctx, done) {
		m.recordMetric(tier, done, false)
		return
	}

	e.Slot.Tree.Close()
	e.Slot.Tree = done.Tree
	e.Slot.TreeDocVersion = done.DocVersion
	e.Slot.PendingIncremental = nil
	if done.Class == TaskViewport {
		e.Slot.Coverage = done.Coverage
		e.Slot.Dirty = true
		e.Sched.ForceNoDebounce = true
	} else {
		e.Slot.Coverage = nil
		e.Slot.Dirty = false
		e.Sched.ForceNoDebounce = false
	}
	m.recordMetric(tier, done, true)
}

// canInstall implements the monotonic install rule: a completed tree is
// only installed if it is not older than what's already installed, not
// older than what the scheduler last asked for, and not newer than the
// document version the caller is currently evaluating (a completion from
// a doc_version the caller hasn't observed yet must wait for the next
// EnsureSyntax call).
func canInstall(e *Entry, ctx Ctx, done *CompletedSyntaxTask) bool {
	if done.DocVersion < e.Slot.TreeDocVersion {
		return false
	}
	if done.DocVersion < e.Sched.RequestedDocVersion {
		return false
	}
	if done.DocVersion > ctx.DocVersion {
		return false
	}
	return true
}

func (m *Manager) recordMetric(tier SyntaxTier, done *CompletedSyntaxTask, installed bool) {
	if m.metrics == nil {
		return
	}
	m.metrics(Metrics{Tier: tier, Class: done.Class, Elapsed: done.Elapsed, Installed: installed})
}

// MarkDirty flags docID's tree as stale (SyntaxPolicy ==
// MarkDirty path from Document.Commit) and records the edit time used
// for debounce.
func (m *Manager) MarkDirty(docID document.Id, now time.Time, incremental *IncrementalEdit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(docID)
	e.Slot.Dirty = true
	e.Slot.PendingIncremental = incremental
	e.Sched.LastEditAt = now
}
