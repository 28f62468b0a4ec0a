// Package pattern provides candlestick pattern recognition over OHLCV bar series.
package pattern

// ID identifies a candlestick pattern type.
type ID string

const (
	// Single-bar patterns
	Marubozu       ID = "marubozu"
	Doji           ID = "doji"
	SpinningTop    ID = "spinning_top"
	Hammer         ID = "hammer"
	HangingMan     ID = "hanging_man"
	ShootingStar   ID = "shooting_star"
	InvertedHammer ID = "inverted_hammer"
	DragonflyDoji  ID = "dragonfly_doji"
	GravestoneDoji ID = "gravestone_doji"
	LongLeggedDoji ID = "long_legged_doji"

	// Multi-bar patterns
	MorningStar        ID = "morning_star"
	EveningStar        ID = "evening_star"
	MorningDojiStar    ID = "morning_doji_star"
	EveningDojiStar    ID = "evening_doji_star"
	Engulfing          ID = "engulfing"
	Harami             ID = "harami"
	HaramiCross        ID = "harami_cross"
	Piercing           ID = "piercing_pattern"
	DarkCloudCover     ID = "dark_cloud_cover"
	ThreeBlackCrows    ID = "three_black_crows"
	ThreeWhiteSoldiers ID = "three_white_soldiers"
	ThreeInside        ID = "three_inside"
	ThreeOutside       ID = "three_outside"

	// Additional library-backed patterns
	DojiStar          ID = "doji_star"
	AbandonedBaby     ID = "abandoned_baby"
	ThreeLineStrike   ID = "three_line_strike"
	ThreeStarsInSouth ID = "three_stars_south"
	AdvanceBlock      ID = "advance_block"
	BeltHold          ID = "belt_hold"
	BreakAway         ID = "break_away"
	ClosingMarubozu   ID = "closing_marubozu"
	TwoCrows          ID = "two_crows"
	MatchingLow       ID = "matching_low"
	StickSandwich     ID = "stick_sandwich"
	ConcealBabySwall  ID = "conceal_baby"
)

// Direction represents a pattern's canonical bias. Patterns that signal both
// ways depending on context (engulfing, harami, ...) are registered neutral;
// the per-occurrence direction always comes from the signal sign.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Definition holds the immutable metadata of one pattern.
type Definition struct {
	ID          ID
	Name        string
	Direction   Direction
	Reliability int // 0-100 empirical trustworthiness
}

// DefaultReliability is returned for pattern ids without a registered score.
const DefaultReliability = 60

// Catalog is an immutable registry of pattern definitions, built once at
// startup and passed by reference to the components that need it.
type Catalog struct {
	defs map[ID]Definition
	ids  []ID
}

// NewCatalog builds a catalog from definitions, preserving their order.
func NewCatalog(defs []Definition) *Catalog {
	c := &Catalog{
		defs: make(map[ID]Definition, len(defs)),
		ids:  make([]ID, 0, len(defs)),
	}
	for _, d := range defs {
		if _, dup := c.defs[d.ID]; dup {
			continue
		}
		c.defs[d.ID] = d
		c.ids = append(c.ids, d.ID)
	}
	return c
}

// DefaultCatalog returns the standard pattern registry. Reliability scores
// are empirical constants from market research.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Definition{
		{ThreeBlackCrows, "Three Black Crows", DirectionBearish, 78},
		{ThreeWhiteSoldiers, "Three White Soldiers", DirectionBullish, 75},
		{MorningStar, "Morning Star", DirectionBullish, 74},
		{EveningStar, "Evening Star", DirectionBearish, 72},
		{AbandonedBaby, "Abandoned Baby", DirectionNeutral, 72},
		{Engulfing, "Engulfing", DirectionNeutral, 70},
		{ThreeOutside, "Three Outside", DirectionNeutral, 70},
		{MorningDojiStar, "Morning Doji Star", DirectionBullish, 70},
		{ThreeLineStrike, "Three-Line Strike", DirectionNeutral, 70},
		{EveningDojiStar, "Evening Doji Star", DirectionBearish, 69},
		{Hammer, "Hammer", DirectionBullish, 68},
		{ShootingStar, "Shooting Star", DirectionBearish, 68},
		{ThreeInside, "Three Inside", DirectionNeutral, 68},
		{Piercing, "Piercing Pattern", DirectionBullish, 65},
		{DarkCloudCover, "Dark Cloud Cover", DirectionBearish, 65},
		{Marubozu, "Marubozu", DirectionNeutral, 65},
		{ThreeStarsInSouth, "Three Stars in the South", DirectionBullish, 64},
		{AdvanceBlock, "Advance Block", DirectionBearish, 64},
		{Harami, "Harami", DirectionNeutral, 63},
		{BreakAway, "Break Away", DirectionNeutral, 63},
		{ConcealBabySwall, "Concealing Baby Swallow", DirectionBearish, 63},
		{HaramiCross, "Harami Cross", DirectionNeutral, 62},
		{TwoCrows, "Two Crows", DirectionBearish, 62},
		{MatchingLow, "Matching Low", DirectionBullish, 61},
		{Doji, "Doji", DirectionNeutral, 60},
		{InvertedHammer, "Inverted Hammer", DirectionBullish, 60},
		{BeltHold, "Belt Hold", DirectionNeutral, 60},
		{ClosingMarubozu, "Closing Marubozu", DirectionNeutral, 60},
		{StickSandwich, "Stick Sandwich", DirectionBullish, 60},
		{HangingMan, "Hanging Man", DirectionBearish, 58},
		{DragonflyDoji, "Dragonfly Doji", DirectionBullish, 58},
		{GravestoneDoji, "Gravestone Doji", DirectionBearish, 58},
		{DojiStar, "Doji Star", DirectionNeutral, 58},
		{SpinningTop, "Spinning Top", DirectionNeutral, 55},
		{LongLeggedDoji, "Long-Legged Doji", DirectionNeutral, 55},
	})
}

// Reliability returns the registered score for id, or DefaultReliability for
// unknown ids. Never fails.
func (c *Catalog) Reliability(id ID) int {
	if d, ok := c.defs[id]; ok {
		return d.Reliability
	}
	return DefaultReliability
}

// IsSupported reports whether id is registered.
func (c *Catalog) IsSupported(id ID) bool {
	_, ok := c.defs[id]
	return ok
}

// IDs returns all registered pattern ids in registration order.
func (c *Catalog) IDs() []ID {
	out := make([]ID, len(c.ids))
	copy(out, c.ids)
	return out
}

// Get returns the definition for id.
func (c *Catalog) Get(id ID) (Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}
