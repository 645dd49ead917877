package scenario

import (
	"github.com/talgya/ashfall/internal/ai"
	"github.com/talgya/ashfall/internal/disease"
	"github.com/talgya/ashfall/internal/world"
)

// Default returns a small built-in scenario used when no file is given:
// a city, a village, wilderness, a handful of characters, one pathogen,
// and a basic action catalog.
func Default() *Scenario {
	return &Scenario{
		Seed: 42,
		Locations: []LocationSpec{
			{ID: "ravenholm", Name: "Ravenholm", Type: "city", Resources: 500, Population: 120, ConnectedTo: []string{"thornmere", "blackwood"}},
			{ID: "thornmere", Name: "Thornmere", Type: "village", Resources: 200, Population: 40, ConnectedTo: []string{"ravenholm"}},
			{ID: "blackwood", Name: "Blackwood", Type: "forest", Resources: 300, Population: 0, ConnectedTo: []string{"ravenholm"}, DangerLevel: 0.6},
			{ID: "keep", Name: "The Old Keep", Type: "castle", Resources: 100, Population: 15, ConnectedTo: []string{"ravenholm"}, Indoor: true},
		},
		Characters: []CharacterSpec{
			{ID: "aldric", Name: "Aldric", Location: "ravenholm", Resources: 80, Power: 60,
				Personality: world.Personality{Ambition: 0.8, Loyalty: 0.4, Morality: 0.3, Courage: 0.7, Cunning: 0.6}},
			{ID: "mira", Name: "Mira", Location: "ravenholm", Resources: 40, Power: 25,
				Personality: world.Personality{Ambition: 0.5, Loyalty: 0.7, Morality: 0.8, Courage: 0.5, Cunning: 0.4}},
			{ID: "tobin", Name: "Tobin", Location: "thornmere", Resources: 25, Power: 10,
				Personality: world.Personality{Ambition: 0.3, Loyalty: 0.8, Morality: 0.7, Courage: 0.3, Cunning: 0.2}},
			{ID: "sable", Name: "Sable", Location: "ravenholm", Resources: 60, Power: 35,
				Personality: world.Personality{Ambition: 0.7, Loyalty: 0.2, Morality: 0.2, Courage: 0.6, Cunning: 0.9}},
			{ID: "wren", Name: "Wren", Location: "thornmere", Resources: 15, Power: 5,
				Personality: world.Personality{Ambition: 0.4, Loyalty: 0.6, Morality: 0.6, Courage: 0.4, Cunning: 0.5}},
		},
		Relations: []RelationSpec{
			{From: "aldric", To: "mira", Trust: 0.3, Respect: 0.4},
			{From: "mira", To: "aldric", Trust: 0.5, Respect: 0.2},
			{From: "sable", To: "aldric", Trust: -0.4, Fear: 0.3},
			{From: "tobin", To: "wren", Trust: 0.6, Respect: 0.3},
			{From: "wren", To: "tobin", Trust: 0.6, Respect: 0.4},
		},
		Species: []SpeciesSpec{
			{Location: "blackwood", ID: "oaks", Type: "plant", Population: 800, GrowthRate: 0.3, CarryingCapacity: 1000},
			{Location: "blackwood", ID: "deer", Type: "prey", Population: 120, GrowthRate: 0.2},
			{Location: "blackwood", ID: "wolves", Type: "predator", Population: 12, PredationRate: 0.001, ConversionRate: 0.1, MortalityRate: 0.05},
		},
		Diseases: []disease.Disease{
			{ID: "greyfever", Name: "grey fever", TransmissionRate: 0.15, RecoveryRate: 0.1, MortalityRate: 0.02, IncubationTicks: 3, ImmunityDuration: 120},
		},
		Actions: defaultActions(),
	}
}

func defaultActions() []ActionSpec {
	return []ActionSpec{
		{
			ID: "trade_goods", Name: "Trade goods", Category: "economic", BaseSuccessRate: 0.8,
			Weights: ai.Weights{SelfBenefit: 1.0, TargetBenefit: 0.5, RiskFactor: 0.3},
			Conditions: []ConditionSpec{
				{Kind: "resource", Op: ">=", Value: 10},
			},
			Effects: []EffectSpec{
				{Kind: "resource", Target: "self", Value: 15},
				{Kind: "resource", Target: "target", Value: 5},
				{Kind: "relation", Target: "target:self", Field: "trust", Value: 0.05},
			},
		},
		{
			ID: "share_secret", Name: "Share a secret", Category: "dialogue", BaseSuccessRate: 0.7,
			Weights: ai.Weights{SelfBenefit: 0.5, TargetBenefit: 1.0, RiskFactor: 0.6},
			Conditions: []ConditionSpec{
				{Kind: "relation", Field: "trust", Op: ">", Value: 0.2},
			},
			Effects: []EffectSpec{
				{Kind: "relation", Target: "target:self", Field: "trust", Value: 0.15},
				{Kind: "emotion", Target: "target", Field: "joy", Value: 0.1},
			},
		},
		{
			ID: "intimidate", Name: "Intimidate", Category: "combat", BaseSuccessRate: 0.6,
			Weights: ai.Weights{SelfBenefit: 1.0, TargetBenefit: 0.3, RiskFactor: 0.8},
			Conditions: []ConditionSpec{
				{Kind: "stat", Field: "courage", Op: ">", Value: 0.4},
			},
			Effects: []EffectSpec{
				{Kind: "emotion", Target: "target", Field: "fear", Value: 0.3},
				{Kind: "relation", Target: "target:self", Field: "fear", Value: 0.2},
				{Kind: "stat", Target: "self", Field: "power", Value: 2},
			},
		},
		{
			ID: "offer_help", Name: "Offer help", Category: "social", BaseSuccessRate: 0.9,
			Weights: ai.Weights{SelfBenefit: 0.3, TargetBenefit: 1.0, RiskFactor: 0.1},
			Effects: []EffectSpec{
				{Kind: "resource", Target: "target", Value: 10},
				{Kind: "resource", Target: "self", Value: -10},
				{Kind: "relation", Target: "target:self", Field: "trust", Value: 0.1},
				{Kind: "relation", Target: "target:self", Field: "respect", Value: 0.1},
			},
		},
		{
			ID: "spread_lies", Name: "Spread lies", Category: "dialogue", BaseSuccessRate: 0.5,
			Weights: ai.Weights{SelfBenefit: 0.8, TargetBenefit: 0.8, RiskFactor: 0.9},
			Conditions: []ConditionSpec{
				{Kind: "stat", Field: "cunning", Op: ">", Value: 0.5},
				{Kind: "stat", Field: "morality", Op: "<", Value: 0.5},
			},
			Effects: []EffectSpec{
				{Kind: "relation", Target: "target:self", Field: "trust", Value: -0.2},
				{Kind: "stat", Target: "self", Field: "power", Value: 1},
			},
		},
	}
}
