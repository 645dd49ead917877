package world

import (
	"fmt"
	"strings"
)

// EffectKind dispatches an Effect to the table it mutates.
type EffectKind uint8

const (
	EffectEmotion EffectKind = iota
	EffectRelation
	EffectResource
	EffectStat
)

// Field is the closed set of addressable fields an Effect may target.
// Catalog loading validates kind/field combinations up front, so a typo'd
// field name is a load error rather than a silent no-op at apply time.
type Field uint8

const (
	FieldNone Field = iota

	// Emotion fields.
	FieldTrust
	FieldFear
	FieldAnger
	FieldJoy
	FieldDespair

	// Relation fields.
	FieldRelTrust
	FieldRelFear
	FieldRelRespect
	FieldRelDebt

	// Stat fields.
	FieldPower
)

// Effect is one typed state mutation. Target is a character id, or a
// composite "fromId:toId" key for relation effects. Absolute overwrites
// the field instead of adding to it.
type Effect struct {
	Kind     EffectKind
	Target   string
	Field    Field
	Value    float64
	Absolute bool
}

// ParseField resolves a scenario field name against an effect kind,
// rejecting names the kind cannot address.
func ParseField(kind EffectKind, name string) (Field, error) {
	switch kind {
	case EffectEmotion:
		switch name {
		case "trust":
			return FieldTrust, nil
		case "fear":
			return FieldFear, nil
		case "anger":
			return FieldAnger, nil
		case "joy":
			return FieldJoy, nil
		case "despair":
			return FieldDespair, nil
		}
	case EffectRelation:
		switch name {
		case "trust":
			return FieldRelTrust, nil
		case "fear":
			return FieldRelFear, nil
		case "respect":
			return FieldRelRespect, nil
		case "debt":
			return FieldRelDebt, nil
		}
	case EffectResource:
		if name == "" || name == "resources" {
			return FieldNone, nil
		}
	case EffectStat:
		if name == "power" {
			return FieldPower, nil
		}
	}
	return FieldNone, fmt.Errorf("field %q is not addressable by effect kind %d", name, kind)
}

// ParseEffectKind maps a scenario string to an EffectKind.
func ParseEffectKind(s string) (EffectKind, error) {
	switch s {
	case "emotion":
		return EffectEmotion, nil
	case "relation":
		return EffectRelation, nil
	case "resource":
		return EffectResource, nil
	case "stat":
		return EffectStat, nil
	}
	return 0, fmt.Errorf("unknown effect kind %q", s)
}

// SplitRelationTarget parses a composite "fromId:toId" key.
func SplitRelationTarget(target string) (from, to string, ok bool) {
	from, to, ok = strings.Cut(target, ":")
	if !ok || from == "" || to == "" {
		return "", "", false
	}
	return from, to, true
}
