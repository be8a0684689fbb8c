package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EstimateCosts attaches a raw cost to every shell that has a cost basis in
// cfg and returns a new slice. Shells without a basis keep an unset cost so
// the integrity gate blocks them. Shells that already carry a cost are left alone.
func EstimateCosts(in ProjectInput, shells []LineItemShell, cfg PricingConfig) []LineItemShell {
	areas := make(map[string]AreaInput, len(in.Areas))
	for _, a := range in.Areas {
		areas[a.ID] = a
	}

	out := make([]LineItemShell, len(shells))
	for i, s := range shells {
		s.Cost = copyFloat(s.Cost)
		s.Price = copyFloat(s.Price)
		if s.Cost == nil {
			if cost, ok := costFor(s, in, areas, cfg); ok {
				s.Cost = Float(roundCents(cost))
			}
		}
		out[i] = s
	}
	return out
}

func costFor(s LineItemShell, in ProjectInput, areas map[string]AreaInput, cfg PricingConfig) (float64, bool) {
	switch s.Category {
	case CategoryArchitecture:
		a, ok := areas[s.AreaID]
		if !ok {
			return 0, false
		}
		scan, ok := scanRate(cfg, a.Kind)
		if !ok {
			return 0, false
		}
		model, ok := modelingRate(cfg, DisciplineArchitecture, string(effectiveLOD(a)))
		if !ok {
			return 0, false
		}
		return s.Quantity * (scan + model), true

	case CategoryStructural, CategoryMEPF, CategoryACT, CategoryBelowFloor:
		a, ok := areas[s.AreaID]
		if !ok {
			return 0, false
		}
		rate, ok := modelingRate(cfg, DisciplineFor(s.Category), string(effectiveLOD(a)))
		if !ok {
			return 0, false
		}
		return s.Quantity * rate, true

	case CategoryCAD:
		a, ok := areas[s.AreaID]
		if !ok {
			return 0, false
		}
		rate, ok := modelingRate(cfg, DisciplineCAD, string(a.CAD))
		if !ok {
			return 0, false
		}
		return s.Quantity * rate, true

	case CategoryTravel:
		if in.TravelCostOverride != nil {
			return *in.TravelCostOverride, true
		}
		if in.TravelMode == TravelFlight {
			return 0, false
		}
		rate := cfg.DefaultMileageRate
		if in.MileageRate != nil {
			rate = *in.MileageRate
		}
		if rate <= 0 {
			return 0, false
		}
		return s.Quantity * rate, true

	case CategoryGeoreferencing, CategoryExpedited, CategoryLandscape, CategoryScanRegistration:
		addOn, ok := addOnFor(cfg, s.Category)
		if !ok {
			return 0, false
		}
		return s.Quantity * addOn.VendorCost, true

	case CategoryCustom:
		return 0, false
	}
	return 0, false
}

// effectiveLOD prices mixed-detail areas at the more detailed tier.
func effectiveLOD(a AreaInput) LOD {
	if a.MixedLOD != nil {
		if hi := a.MixedLOD.Highest(); hi.rank() > a.LOD.rank() {
			return hi
		}
	}
	return a.LOD
}

func scanRate(cfg PricingConfig, buildingType string) (float64, bool) {
	var fallback *ScanCostRate
	for i, r := range cfg.ScanCosts {
		if strings.EqualFold(r.BuildingType, buildingType) {
			return r.PerSqft, true
		}
		if strings.EqualFold(r.BuildingType, DefaultScanRateKey) {
			fallback = &cfg.ScanCosts[i]
		}
	}
	if fallback != nil {
		return fallback.PerSqft, true
	}
	return 0, false
}

func modelingRate(cfg PricingConfig, d Discipline, tier string) (float64, bool) {
	for _, r := range cfg.ModelingCosts {
		if r.Discipline == d && strings.EqualFold(r.Tier, tier) {
			return r.PerSqft, true
		}
	}
	return 0, false
}

func addOnFor(cfg PricingConfig, c Category) (AddOnService, bool) {
	for _, a := range cfg.AddOnServices {
		if strings.EqualFold(a.Name, string(c)) {
			return a, true
		}
	}
	return AddOnService{}, false
}

// PriceShells attaches a client price to every shell that has a cost but no
// price. Add-on categories use the service markup; everything else uses the
// resolved COGS multiplier. Active situational factors, selected by name,
// multiply every newly attached price. An unknown factor name is a validation error.
func PriceShells(shells []LineItemShell, cfg PricingConfig, situational []string) ([]LineItemShell, error) {
	factor, err := situationalFactor(cfg, situational)
	if err != nil {
		return nil, err
	}
	multiplier := ResolvePricing(cfg).COGSMultiplier

	out := make([]LineItemShell, len(shells))
	for i, s := range shells {
		s.Cost = copyFloat(s.Cost)
		s.Price = copyFloat(s.Price)
		if s.Cost != nil && s.Price == nil {
			m := multiplier
			if addOn, ok := addOnFor(cfg, s.Category); ok && s.Category != CategoryCustom {
				m = addOn.Markup
			}
			price := decimal.NewFromFloat(*s.Cost).
				Mul(decimal.NewFromFloat(m)).
				Mul(factor).
				Round(2)
			s.Price = Float(price.InexactFloat64())
		}
		out[i] = s
	}
	return out, nil
}

func situationalFactor(cfg PricingConfig, names []string) (decimal.Decimal, error) {
	factor := decimal.NewFromInt(1)
	verr := &ValidationError{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found := false
		for _, sf := range cfg.SituationalFactors {
			if strings.EqualFold(sf.Name, name) {
				factor = factor.Mul(decimal.NewFromFloat(sf.Factor))
				found = true
				break
			}
		}
		if !found {
			verr.add("situational."+name, fmt.Sprintf("unknown situational multiplier %q", name))
		}
	}
	if err := verr.orNil(); err != nil {
		return decimal.Zero, err
	}
	return factor, nil
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
