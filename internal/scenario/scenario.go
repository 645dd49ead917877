// Package scenario loads world-setup files: characters, locations,
// species, diseases, the action catalog, and initial relations. Field
// names in effects and conditions are validated against the closed enums
// at load time, so a typo is a load error rather than a silent no-op.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/ashfall/internal/ai"
	"github.com/talgya/ashfall/internal/disease"
	"github.com/talgya/ashfall/internal/ecosystem"
	"github.com/talgya/ashfall/internal/relation"
	"github.com/talgya/ashfall/internal/world"
)

// Scenario is the YAML schema for world setup.
type Scenario struct {
	Seed       int64             `yaml:"seed"`
	Characters []CharacterSpec   `yaml:"characters"`
	Locations  []LocationSpec    `yaml:"locations"`
	Relations  []RelationSpec    `yaml:"relations,omitempty"`
	Species    []SpeciesSpec     `yaml:"species,omitempty"`
	Diseases   []disease.Disease `yaml:"diseases,omitempty"`
	Actions    []ActionSpec      `yaml:"actions"`
}

// CharacterSpec seeds one character.
type CharacterSpec struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Location    string            `yaml:"location"`
	Personality world.Personality `yaml:"personality"`
	Resources   int               `yaml:"resources"`
	Power       int               `yaml:"power"`
}

// LocationSpec seeds one location.
type LocationSpec struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Resources   int      `yaml:"resources"`
	Population  int      `yaml:"population"`
	ConnectedTo []string `yaml:"connected_to,omitempty"`
	DangerLevel float64  `yaml:"danger_level"`
	Indoor      bool     `yaml:"indoor,omitempty"`
}

// RelationSpec seeds one directed edge.
type RelationSpec struct {
	From    string  `yaml:"from"`
	To      string  `yaml:"to"`
	Trust   float64 `yaml:"trust"`
	Fear    float64 `yaml:"fear"`
	Respect float64 `yaml:"respect"`
}

// SpeciesSpec seeds one population at one location.
type SpeciesSpec struct {
	Location         string  `yaml:"location"`
	ID               string  `yaml:"id"`
	Type             string  `yaml:"type"`
	Population       float64 `yaml:"population"`
	GrowthRate       float64 `yaml:"growth_rate"`
	CarryingCapacity float64 `yaml:"carrying_capacity"`
	PredationRate    float64 `yaml:"predation_rate,omitempty"`
	ConversionRate   float64 `yaml:"conversion_rate,omitempty"`
	MortalityRate    float64 `yaml:"mortality_rate,omitempty"`
}

// ActionSpec is the YAML form of one catalog action.
type ActionSpec struct {
	ID              string          `yaml:"id"`
	Name            string          `yaml:"name"`
	Category        string          `yaml:"category"`
	BaseSuccessRate float64         `yaml:"base_success_rate"`
	Weights         ai.Weights      `yaml:"weights"`
	Conditions      []ConditionSpec `yaml:"conditions,omitempty"`
	Effects         []EffectSpec    `yaml:"effects,omitempty"`
}

// ConditionSpec is the YAML form of one action precondition.
type ConditionSpec struct {
	Kind     string  `yaml:"kind"`
	Field    string  `yaml:"field,omitempty"`
	Op       string  `yaml:"op,omitempty"`
	Value    float64 `yaml:"value,omitempty"`
	Location string  `yaml:"location,omitempty"`
}

// EffectSpec is the YAML form of one action effect.
type EffectSpec struct {
	Kind     string  `yaml:"kind"`
	Target   string  `yaml:"target"`
	Field    string  `yaml:"field,omitempty"`
	Value    float64 `yaml:"value"`
	Absolute bool    `yaml:"absolute,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &sc, nil
}

// BuildResult carries everything the orchestrator needs from a scenario.
type BuildResult struct {
	World    *world.State
	Actions  []*ai.Action
	Species  []SpeciesSpec
	Diseases []disease.Disease
}

// Build validates the scenario and constructs the initial world state and
// action catalog.
func (sc *Scenario) Build() (*BuildResult, error) {
	w := world.NewState()

	for _, ls := range sc.Locations {
		t, ok := world.ParseLocationType(ls.Type)
		if !ok {
			return nil, fmt.Errorf("location %s: unknown type %q", ls.ID, ls.Type)
		}
		w.AddLocation(&world.Location{
			ID:          ls.ID,
			Name:        ls.Name,
			Type:        t,
			Resources:   ls.Resources,
			Population:  ls.Population,
			Stability:   1,
			ConnectedTo: ls.ConnectedTo,
			DangerLevel: ls.DangerLevel,
			Indoor:      ls.Indoor,
		})
	}

	for _, cs := range sc.Characters {
		if _, ok := w.GetLocation(cs.Location); !ok {
			return nil, fmt.Errorf("character %s: unknown location %q", cs.ID, cs.Location)
		}
		w.AddCharacter(&world.Character{
			ID:          cs.ID,
			Name:        cs.Name,
			Personality: cs.Personality,
			Location:    cs.Location,
			Resources:   cs.Resources,
			Power:       cs.Power,
		})
	}

	for _, rs := range sc.Relations {
		w.Graph.Update(rs.From, rs.To, relation.Relation{
			Trust:   rs.Trust,
			Fear:    rs.Fear,
			Respect: rs.Respect,
		})
	}

	actions, err := sc.buildActions()
	if err != nil {
		return nil, err
	}

	for _, sp := range sc.Species {
		if _, ok := ecosystem.ParseSpeciesType(sp.Type); !ok {
			return nil, fmt.Errorf("species %s: unknown type %q", sp.ID, sp.Type)
		}
		if _, ok := w.GetLocation(sp.Location); !ok {
			return nil, fmt.Errorf("species %s: unknown location %q", sp.ID, sp.Location)
		}
	}

	return &BuildResult{
		World:    w,
		Actions:  actions,
		Species:  sc.Species,
		Diseases: sc.Diseases,
	}, nil
}

func (sc *Scenario) buildActions() ([]*ai.Action, error) {
	out := make([]*ai.Action, 0, len(sc.Actions))
	for _, as := range sc.Actions {
		cat, err := ai.ParseCategory(as.Category)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", as.ID, err)
		}

		action := &ai.Action{
			ID:              as.ID,
			Name:            as.Name,
			Category:        cat,
			BaseSuccessRate: as.BaseSuccessRate,
			Weights:         as.Weights,
		}

		for _, cs := range as.Conditions {
			cond, err := buildCondition(cs)
			if err != nil {
				return nil, fmt.Errorf("action %s: %w", as.ID, err)
			}
			action.Conditions = append(action.Conditions, cond)
		}

		for _, es := range as.Effects {
			kind, err := world.ParseEffectKind(es.Kind)
			if err != nil {
				return nil, fmt.Errorf("action %s: %w", as.ID, err)
			}
			field, err := world.ParseField(kind, es.Field)
			if err != nil {
				return nil, fmt.Errorf("action %s: %w", as.ID, err)
			}
			action.Effects = append(action.Effects, world.Effect{
				Kind:     kind,
				Target:   es.Target,
				Field:    field,
				Value:    es.Value,
				Absolute: es.Absolute,
			})
		}

		out = append(out, action)
	}
	return out, nil
}

func buildCondition(cs ConditionSpec) (ai.Condition, error) {
	kind, err := ai.ParseConditionKind(cs.Kind)
	if err != nil {
		return ai.Condition{}, err
	}
	cond := ai.Condition{Kind: kind, Value: cs.Value, Location: cs.Location}

	if kind != ai.CondLocation {
		cond.Op, err = ai.ParseOperator(cs.Op)
		if err != nil {
			return ai.Condition{}, err
		}
	} else if cs.Op != "" {
		cond.Op, err = ai.ParseOperator(cs.Op)
		if err != nil {
			return ai.Condition{}, err
		}
	}

	switch kind {
	case ai.CondStat:
		cond.Stat, err = ai.ParseStatField(cs.Field)
	case ai.CondRelation:
		cond.Relation, err = ai.ParseRelationField(cs.Field)
	}
	if err != nil {
		return ai.Condition{}, err
	}
	return cond, nil
}
