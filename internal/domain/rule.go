package domain

import "errors"

// EntryType describes what a client must enter when logging a set.
type EntryType string

const (
	EntryRepetitionsAndWeight              EntryType = "RepetitionsAndWeight"
	EntryRepetitionsOnly                   EntryType = "RepetitionsOnly"
	EntryRepetitionsWithOptionalExtra      EntryType = "RepetitionsWithOptionalExtraWeight"
	EntryRepetitionsWithExtraAndAssistance EntryType = "RepetitionsWithOptionalExtraAndAssistance"
)

// LoadType describes how the load of a set is derived.
type LoadType string

const (
	LoadDirectWeight         LoadType = "DirectWeight"
	LoadBodyWeightFull       LoadType = "BodyWeightFull"
	LoadNoWeight             LoadType = "NoWeight"
	LoadBodyWeightMultiplier LoadType = "BodyWeightMultiplier"
)

// MissingBodyWeightBehavior decides what happens when a body-weight based set
// is logged by a profile that has no weight history.
type MissingBodyWeightBehavior string

const (
	MissingWeightBlockSaving    MissingBodyWeightBehavior = "BlockSaving"
	MissingWeightSaveAsRepsOnly MissingBodyWeightBehavior = "SaveAsRepetitionsOnly"
	MissingWeightSaveWithZero   MissingBodyWeightBehavior = "SaveWithZeroWeight"
)

// Body-weight multiplier bounds.
const (
	MinBodyWeightMultiplier = 0.05
	MaxBodyWeightMultiplier = 2.0
)

// ExerciseExampleRule is the load-computation contract of an exercise example.
// Exactly one rule exists per example.
type ExerciseExampleRule struct {
	EntryType EntryType `bson:"entryType" json:"entryType"`
	LoadType  LoadType  `bson:"loadType" json:"loadType"`
	// BodyWeightMultiplier is required and in [0.05, 2.0] iff
	// LoadType == BodyWeightMultiplier; it must be absent otherwise.
	BodyWeightMultiplier      *float64                  `bson:"bodyWeightMultiplier,omitempty" json:"bodyWeightMultiplier,omitempty"`
	CanAddExtraWeight         bool                      `bson:"canAddExtraWeight" json:"canAddExtraWeight"`
	CanUseAssistance          bool                      `bson:"canUseAssistance" json:"canUseAssistance"`
	MissingBodyWeightBehavior MissingBodyWeightBehavior `bson:"missingBodyWeightBehavior" json:"missingBodyWeightBehavior"`
	RequiresEquipment         bool                      `bson:"requiresEquipment" json:"requiresEquipment"`
}

// Rule validation errors, one per invariant.
var (
	ErrRuleMultiplierRequired     = errors.New("body weight multiplier is required for multiplier load type")
	ErrRuleMultiplierOutOfRange   = errors.New("body weight multiplier must be in [0.05, 2.0]")
	ErrRuleMultiplierNotAllowed   = errors.New("body weight multiplier is only allowed for multiplier load type")
	ErrRuleEquipmentWithMult      = errors.New("required equipment and body weight multiplier are alternative load modes")
	ErrRuleExtraWithoutMult       = errors.New("extra weight and assistance flags require a body weight multiplier")
	ErrRuleEquipmentWithExtra     = errors.New("required equipment excludes extra weight and assistance flags")
	ErrRuleUnknownMissingBehavior = errors.New("unknown missing body weight behavior")
)

// ValidateRule checks the cross-field invariants of a rule. It is pure: no
// I/O, the first violated invariant is returned.
func ValidateRule(rule ExerciseExampleRule) error {
	if rule.LoadType == LoadBodyWeightMultiplier {
		if rule.BodyWeightMultiplier == nil {
			return ErrRuleMultiplierRequired
		}
		if *rule.BodyWeightMultiplier < MinBodyWeightMultiplier || *rule.BodyWeightMultiplier > MaxBodyWeightMultiplier {
			return ErrRuleMultiplierOutOfRange
		}
	} else if rule.BodyWeightMultiplier != nil {
		return ErrRuleMultiplierNotAllowed
	}

	if rule.RequiresEquipment && rule.BodyWeightMultiplier != nil {
		return ErrRuleEquipmentWithMult
	}

	if (rule.CanAddExtraWeight || rule.CanUseAssistance) && rule.BodyWeightMultiplier == nil {
		return ErrRuleExtraWithoutMult
	}

	if rule.RequiresEquipment && (rule.CanAddExtraWeight || rule.CanUseAssistance) {
		return ErrRuleEquipmentWithExtra
	}

	switch rule.MissingBodyWeightBehavior {
	case MissingWeightBlockSaving, MissingWeightSaveAsRepsOnly, MissingWeightSaveWithZero, "":
	default:
		return ErrRuleUnknownMissingBehavior
	}

	return nil
}

// NormalizeRule fills in defaults; the missing-body-weight behavior defaults
// to SaveAsRepetitionsOnly.
func NormalizeRule(rule ExerciseExampleRule) ExerciseExampleRule {
	if rule.MissingBodyWeightBehavior == "" {
		rule.MissingBodyWeightBehavior = MissingWeightSaveAsRepsOnly
	}
	return rule
}
