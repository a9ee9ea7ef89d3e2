package domain

// PhaseCategory classifies a phase's behavioral role. All behavioral meaning
// beyond the category lives in each variant's phase descriptors.
type PhaseCategory int

const (
	// CategorySpecial is the forward-compatible default for phases a
	// descriptor does not declare.
	CategorySpecial PhaseCategory = iota
	CategorySetup
	CategoryCollection
	CategoryDealing
	CategoryBetting
	CategoryDrawing
	CategoryDecision
	CategoryResolution
)

var categoryNames = map[PhaseCategory]string{
	CategorySpecial:    "Special",
	CategorySetup:      "Setup",
	CategoryCollection: "Collection",
	CategoryDealing:    "Dealing",
	CategoryBetting:    "Betting",
	CategoryDrawing:    "Drawing",
	CategoryDecision:   "Decision",
	CategoryResolution: "Resolution",
}

// String returns the category name.
func (c PhaseCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Special"
}

// Phase names a stage of a hand. The enumeration is flat and shared across
// variants so stored phases stay legible; each variant declares which subset
// it uses and how phases connect.
type Phase string

const (
	PhaseSetup              Phase = "Setup"
	PhaseCollection         Phase = "Collection"
	PhaseDealing            Phase = "Dealing"
	PhaseFirstBettingRound  Phase = "FirstBettingRound"
	PhaseSecondBettingRound Phase = "SecondBettingRound"
	PhaseThirdBettingRound  Phase = "ThirdBettingRound"
	PhaseFourthBettingRound Phase = "FourthBettingRound"
	PhaseFifthBettingRound  Phase = "FifthBettingRound"
	PhaseFourthStreet       Phase = "FourthStreet"
	PhaseFifthStreet        Phase = "FifthStreet"
	PhaseSixthStreet        Phase = "SixthStreet"
	PhaseSeventhStreet      Phase = "SeventhStreet"
	PhaseDrawPhase          Phase = "DrawPhase"
	PhaseDecision           Phase = "Decision"
	PhaseShowdown           Phase = "Showdown"
	PhaseHandComplete       Phase = "HandComplete"
	PhaseEnded              Phase = "Ended"
)

// Trigger names an event that, when permitted from the current phase, causes
// a transition. Trigger vocabularies are variant-local; the names below are
// the conventional ones shared by the built-in variants and preferred by the
// auto-advance driver.
type Trigger string

const (
	TriggerStartHand        Trigger = "StartHand"
	TriggerEndTable         Trigger = "EndTable"
	TriggerCollectAntes     Trigger = "CollectAntes"
	TriggerDeal             Trigger = "Deal"
	TriggerBettingAction    Trigger = "BettingAction"
	TriggerBettingComplete  Trigger = "BettingComplete"
	TriggerDrawAction       Trigger = "DrawAction"
	TriggerDrawComplete     Trigger = "DrawComplete"
	TriggerDeclare          Trigger = "Declare"
	TriggerDecisionComplete Trigger = "DecisionComplete"
	TriggerHandFolded       Trigger = "HandFolded"
	TriggerSettle           Trigger = "Settle"
	TriggerNextHand         Trigger = "NextHand"
)
