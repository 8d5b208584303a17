package syntax

import "time"

// SyntaxTier classes a document by content byte length.
type SyntaxTier uint8

const (
	TierS SyntaxTier = iota
	TierM
	TierL
)

func (t SyntaxTier) String() string {
	switch t {
	case TierS:
		return "S"
	case TierM:
		return "M"
	case TierL:
		return "L"
	default:
		return "?"
	}
}

// Byte thresholds separating tiers: documents at or below TierSMaxBytes
// are TierS, at or below TierMMaxBytes are TierM, everything else TierL.
const (
	TierSMaxBytes = 32 * 1024
	TierMMaxBytes = 256 * 1024
)

// RetentionPolicy governs whether a parse tree/cache is released when a
// document leaves visibility.
type RetentionPolicy uint8

const (
	RetentionKeep RetentionPolicy = iota
	RetentionDropWhenHidden
)

// InjectionPolicy controls whether a parse requests injected-language
// sub-trees (e.g. embedded SQL in a string literal).
type InjectionPolicy uint8

const (
	InjectionDisabled InjectionPolicy = iota
	InjectionEager
)

// TierCfg is the full set of knobs associated with a
// tier.
type TierCfg struct {
	Debounce time.Duration

	MinParseTimeout time.Duration
	MaxParseTimeout time.Duration

	CooldownOnTimeout time.Duration
	CooldownOnError   time.Duration

	RetentionHiddenFull     RetentionPolicy
	RetentionHiddenViewport RetentionPolicy

	ParseWhenHidden bool

	// ViewportInjections is the injection policy Stage A (coverage) uses.
	ViewportInjections InjectionPolicy
	// ViewportCooldownOnTimeout is the cooldown applied after a viewport
	// task times out (distinct from the full/incremental cooldown, since
	// viewport tasks are smaller and worth retrying sooner).
	ViewportCooldownOnTimeout time.Duration
	// ViewportVisibleSpanCap bounds how far past the viewport's start a
	// requested end is clamped to, so a huge reported viewport can't
	// blow the parse budget.
	ViewportVisibleSpanCap uint32
	// ViewportLookbehind/ViewportLookahead pad the requested viewport so
	// small scrolls don't immediately invalidate coverage.
	ViewportLookbehind uint32
	ViewportLookahead  uint32
	// ViewportWindowCap bounds the total padded window size.
	ViewportWindowCap uint32
	// ViewportStageBBudget is the predicted-duration ceiling above which
	// Stage B (enrichment) is skipped for this tick; zero disables the
	// budget check (Stage B always attempted once coverage exists).
	ViewportStageBBudget time.Duration
	// SyncBootstrapTimeout, when non-zero, allows EnsureSyntax to do one
	// synchronous parse (blocking up to this long) the first time a
	// visible document is touched ("sync bootstrap").
	SyncBootstrapTimeout time.Duration
}

// DefaultTierConfigs returns the three tiers' configurations. Grounded on
// the size-keyed default-config-table pattern in
// dshills-keystorm/internal/lsp/supervisor.go (DefaultSupervisorConfig),
// generalized to one table entry per tier.
func DefaultTierConfigs() map[SyntaxTier]TierCfg {
	return map[SyntaxTier]TierCfg{
		TierS: {
			Debounce:                  10 * time.Millisecond,
			MinParseTimeout:           5 * time.Millisecond,
			MaxParseTimeout:           50 * time.Millisecond,
			CooldownOnTimeout:         200 * time.Millisecond,
			CooldownOnError:           500 * time.Millisecond,
			RetentionHiddenFull:       RetentionKeep,
			RetentionHiddenViewport:   RetentionKeep,
			ParseWhenHidden:           true,
			SyncBootstrapTimeout:      20 * time.Millisecond,
		},
		TierM: {
			Debounce:                  30 * time.Millisecond,
			MinParseTimeout:           20 * time.Millisecond,
			MaxParseTimeout:           150 * time.Millisecond,
			CooldownOnTimeout:         500 * time.Millisecond,
			CooldownOnError:           1 * time.Second,
			RetentionHiddenFull:       RetentionKeep,
			RetentionHiddenViewport:   RetentionDropWhenHidden,
			ParseWhenHidden:           false,
			SyncBootstrapTimeout:      15 * time.Millisecond,
		},
		TierL: {
			Debounce:                  80 * time.Millisecond,
			MinParseTimeout:           50 * time.Millisecond,
			MaxParseTimeout:           400 * time.Millisecond,
			CooldownOnTimeout:         1 * time.Second,
			CooldownOnError:           2 * time.Second,
			RetentionHiddenFull:       RetentionDropWhenHidden,
			RetentionHiddenViewport:   RetentionDropWhenHidden,
			ParseWhenHidden:           false,
			ViewportInjections:        InjectionDisabled,
			ViewportCooldownOnTimeout: 300 * time.Millisecond,
			ViewportVisibleSpanCap:    4000,
			ViewportLookbehind:        2000,
			ViewportLookahead:         4000,
			ViewportWindowCap:         50000,
			ViewportStageBBudget:      60 * time.Millisecond,
			SyncBootstrapTimeout:      0,
		},
	}
}

// TierFor classes byteLen into a SyntaxTier.
func TierFor(byteLen int) SyntaxTier {
	switch {
	case byteLen <= TierSMaxBytes:
		return TierS
	case byteLen <= TierMMaxBytes:
		return TierM
	default:
		return TierL
	}
}
