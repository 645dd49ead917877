// Package ai provides the expected-utility scorer and stochastic action
// selector NPCs use to choose among catalog actions.
package ai

import (
	"fmt"

	"github.com/talgya/ashfall/internal/world"
)

// Category groups actions for success-rate and fit calculations.
type Category string

const (
	CategoryDialogue Category = "dialogue"
	CategoryCombat   Category = "combat"
	CategorySocial   Category = "social"
	CategoryEconomic Category = "economic"
	CategoryCustom   Category = "custom"
)

// ParseCategory maps a scenario string to a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryDialogue, CategoryCombat, CategorySocial, CategoryEconomic, CategoryCustom:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown action category %q", s)
}

// Operator compares a state value against a condition threshold.
type Operator string

const (
	OpGT Operator = ">"
	OpLT Operator = "<"
	OpGE Operator = ">="
	OpLE Operator = "<="
	OpEQ Operator = "=="
	OpNE Operator = "!="
)

// ParseOperator validates a comparison operator string.
func ParseOperator(s string) (Operator, error) {
	switch Operator(s) {
	case OpGT, OpLT, OpGE, OpLE, OpEQ, OpNE:
		return Operator(s), nil
	}
	return "", fmt.Errorf("unknown operator %q", s)
}

func (op Operator) compare(a, b float64) bool {
	switch op {
	case OpGT:
		return a > b
	case OpLT:
		return a < b
	case OpGE:
		return a >= b
	case OpLE:
		return a <= b
	case OpEQ:
		return a == b
	case OpNE:
		return a != b
	}
	return false
}

// ConditionKind selects what state a condition reads.
type ConditionKind uint8

const (
	CondStat     ConditionKind = iota // actor personality/emotion/power
	CondRelation                      // actor→target relation field
	CondResource                      // actor resources
	CondLocation                      // actor location equality
)

// ParseConditionKind maps a scenario string to a ConditionKind.
func ParseConditionKind(s string) (ConditionKind, error) {
	switch s {
	case "stat":
		return CondStat, nil
	case "relation":
		return CondRelation, nil
	case "resource":
		return CondResource, nil
	case "location":
		return CondLocation, nil
	}
	return 0, fmt.Errorf("unknown condition kind %q", s)
}

// StatField is the closed set of actor fields a stat condition may read.
type StatField string

const (
	StatAmbition StatField = "ambition"
	StatLoyalty  StatField = "loyalty"
	StatMorality StatField = "morality"
	StatCourage  StatField = "courage"
	StatCunning  StatField = "cunning"
	StatTrust    StatField = "trust"
	StatFear     StatField = "fear"
	StatAnger    StatField = "anger"
	StatJoy      StatField = "joy"
	StatDespair  StatField = "despair"
	StatPower    StatField = "power"
)

// ParseStatField validates a stat condition field name.
func ParseStatField(s string) (StatField, error) {
	switch StatField(s) {
	case StatAmbition, StatLoyalty, StatMorality, StatCourage, StatCunning,
		StatTrust, StatFear, StatAnger, StatJoy, StatDespair, StatPower:
		return StatField(s), nil
	}
	return "", fmt.Errorf("unknown stat field %q", s)
}

// RelationField is the closed set of edge fields a relation condition may
// read.
type RelationField string

const (
	RelTrust   RelationField = "trust"
	RelFear    RelationField = "fear"
	RelRespect RelationField = "respect"
	RelDebt    RelationField = "debt"
)

// ParseRelationField validates a relation condition field name.
func ParseRelationField(s string) (RelationField, error) {
	switch RelationField(s) {
	case RelTrust, RelFear, RelRespect, RelDebt:
		return RelationField(s), nil
	}
	return "", fmt.Errorf("unknown relation field %q", s)
}

// Condition is one precondition on an action. Unrecognized kinds evaluate
// to false, steering agents away from actions whose preconditions cannot
// be checked.
type Condition struct {
	Kind     ConditionKind
	Stat     StatField     // CondStat
	Relation RelationField // CondRelation
	Op       Operator
	Value    float64
	Location string // CondLocation
}

// Weights scales the benefit and risk terms of an action's utility.
type Weights struct {
	SelfBenefit   float64 `yaml:"self_benefit"`
	TargetBenefit float64 `yaml:"target_benefit"`
	RiskFactor    float64 `yaml:"risk_factor"`
}

// Action is an immutable template from the startup catalog. Effect targets
// use the symbolic keys "self", "target", and "self:target", resolved at
// apply time.
type Action struct {
	ID              string
	Name            string
	Category        Category
	Conditions      []Condition
	Effects         []world.Effect
	BaseSuccessRate float64
	Weights         Weights
}

// Choice is an ephemeral reference to one catalog action against one
// optional target, generated per interaction.
type Choice struct {
	ID      string
	Text    string
	Action  *Action
	Target  string
	Utility float64
	Scored  bool
}
