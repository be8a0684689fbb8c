// Package services holds the quoting engine: shell generation, cost
// estimation, the margin integrity gate, pricing-config resolution and
// scan intelligence, plus formatting and export helpers.
package services

import (
	"fmt"
	"strings"
)

// GenerateShells applies the fixed rule set to a project and returns the
// unpriced line items in category order. Ids come from seq; pass a fresh or
// reset sequence per run. A nil seq gets a new sequence.
//
// Input is validated first; on any validation failure no shells are returned.
func GenerateShells(in ProjectInput, seq *IDSequence) ([]LineItemShell, error) {
	areas, err := ValidateProjectInput(in)
	if err != nil {
		return nil, err
	}
	if seq == nil {
		seq = NewIDSequence()
	}

	var shells []LineItemShell
	for _, cat := range AllCategories() {
		shells = append(shells, shellsFor(cat, in, areas, seq)...)
	}
	return shells, nil
}

// shellsFor emits the lines of a single category.
func shellsFor(cat Category, in ProjectInput, areas []ValidatedArea, seq *IDSequence) []LineItemShell {
	var out []LineItemShell

	switch cat {
	case CategoryArchitecture:
		for _, a := range areas {
			out = append(out, areaShell(seq, cat, a, a.SquareFeet,
				fmt.Sprintf("Architecture - %s (%s sqft, %s, %s)",
					areaLabel(a), FormatQty(a.SquareFeet), lodLabel(a), scopeLabel(a.Scope))))
		}

	case CategoryStructural, CategoryMEPF, CategoryACT, CategoryBelowFloor:
		for _, a := range areas {
			sqft, ok := subScopeOf(cat, a).Get()
			if !ok {
				continue
			}
			out = append(out, areaShell(seq, cat, a, sqft,
				fmt.Sprintf("%s - %s (%s sqft, %s)",
					categoryTitle(cat), areaLabel(a), FormatQty(sqft), lodLabel(a))))
		}

	case CategoryCAD:
		for _, a := range areas {
			if !a.CAD.Requested() {
				continue
			}
			out = append(out, areaShell(seq, cat, a, a.SquareFeet,
				fmt.Sprintf("CAD Deliverable - %s (%s package, %s sqft)",
					areaLabel(a), cadLabel(a.CAD), FormatQty(a.SquareFeet))))
		}

	case CategoryTravel:
		out = append(out, travelShell(seq, in))

	case CategoryGeoreferencing:
		if in.Georeferencing {
			out = append(out, projectShell(seq, cat, 1, UnitEach,
				"Georeferencing - tie point cloud to survey control"))
		}

	case CategoryExpedited:
		if in.Expedited {
			out = append(out, projectShell(seq, cat, 1, UnitEach,
				"Expedited Delivery - priority scheduling and turnaround"))
		}

	case CategoryLandscape:
		if in.LandscapeMode.Enabled() {
			acres := *in.LandscapeAcres
			out = append(out, projectShell(seq, cat, acres, UnitAcre,
				fmt.Sprintf("Landscape - %s site modeling (%s acres, %s terrain)",
					in.LandscapeMode, FormatQty(acres), in.LandscapeTerrain)))
		}

	case CategoryScanRegistration:
		if in.ScanRegistrationOnly.Enabled() {
			total := totalSquareFeet(areas)
			out = append(out, projectShell(seq, cat, total, UnitSqft,
				fmt.Sprintf("Scan Registration Only - registered point cloud (%s, %s sqft)",
					strings.ToUpper(string(in.ScanRegistrationOnly)), FormatQty(total))))
		}

	case CategoryCustom:
		for _, a := range areas {
			for _, ci := range a.CustomItems {
				out = append(out, customShell(seq, a, ci))
			}
		}

	default:
		panic("services: no rule for category " + string(cat))
	}

	return out
}

func areaShell(seq *IDSequence, cat Category, a ValidatedArea, qty float64, desc string) LineItemShell {
	return LineItemShell{
		ID:           seq.Next(),
		AreaID:       a.ID,
		Category:     cat,
		Discipline:   DisciplineFor(cat),
		Description:  desc,
		BuildingType: a.Kind,
		Quantity:     qty,
		Unit:         UnitSqft,
	}
}

func projectShell(seq *IDSequence, cat Category, qty float64, unit Unit, desc string) LineItemShell {
	return LineItemShell{
		ID:          seq.Next(),
		Category:    cat,
		Discipline:  DisciplineFor(cat),
		Description: desc,
		Quantity:    qty,
		Unit:        unit,
	}
}

// travelShell builds the single travel line. Driving is sized in round-trip
// miles; a flat override or a flight is a single flat unit.
func travelShell(seq *IDSequence, in ProjectInput) LineItemShell {
	distance := *in.DistanceMiles

	if in.TravelCostOverride != nil {
		return projectShell(seq, CategoryTravel, 1, UnitFlat,
			fmt.Sprintf("Travel - %s from %s (%s mi one-way, flat %s)",
				in.TravelMode, in.DispatchLocation, FormatQty(distance), FormatUSD(*in.TravelCostOverride)))
	}

	switch in.TravelMode {
	case TravelFlight:
		return projectShell(seq, CategoryTravel, 1, UnitFlat,
			fmt.Sprintf("Travel - flight from %s (%s mi one-way)",
				in.DispatchLocation, FormatQty(distance)))
	default:
		desc := fmt.Sprintf("Travel - driving from %s (%s mi one-way)", in.DispatchLocation, FormatQty(distance))
		if in.MileageRate != nil {
			desc = fmt.Sprintf("Travel - driving from %s (%s mi one-way @ %s/mi)",
				in.DispatchLocation, FormatQty(distance), FormatUSD(*in.MileageRate))
		}
		return projectShell(seq, CategoryTravel, 2*distance, UnitMile, desc)
	}
}

func customShell(seq *IDSequence, a ValidatedArea, ci CustomItem) LineItemShell {
	discipline := ci.Discipline
	if discipline == "" {
		discipline = DisciplineCustom
	}
	unit := ci.Unit
	if unit == "" {
		unit = UnitEach
	}
	return LineItemShell{
		ID:           seq.Next(),
		AreaID:       a.ID,
		Category:     CategoryCustom,
		Discipline:   discipline,
		Description:  ci.Description,
		BuildingType: a.Kind,
		Quantity:     ci.Quantity,
		Unit:         unit,
		Cost:         copyFloat(ci.Cost),
		Price:        copyFloat(ci.Price),
	}
}

func subScopeOf(cat Category, a ValidatedArea) ScopeOption {
	switch cat {
	case CategoryStructural:
		return a.Structural
	case CategoryMEPF:
		return a.MEPF
	case CategoryACT:
		return a.ACT
	case CategoryBelowFloor:
		return a.BelowFloor
	}
	return None()
}

func totalSquareFeet(areas []ValidatedArea) float64 {
	var total float64
	for _, a := range areas {
		total += a.SquareFeet
	}
	return total
}

func areaLabel(a ValidatedArea) string {
	if a.Name == "" || a.Name == a.Kind {
		return a.Kind
	}
	return a.Kind + ", " + a.Name
}

func lodLabel(a ValidatedArea) string {
	if a.MixedLOD != nil {
		return fmt.Sprintf("LOD %s int / %s ext", a.MixedLOD.Interior, a.MixedLOD.Exterior)
	}
	return "LOD " + string(a.LOD)
}

func scopeLabel(s Scope) string {
	if s == ScopeRoofFacade {
		return "roof/facade"
	}
	return string(s)
}

func cadLabel(c CADDeliverable) string {
	switch c {
	case CADBasic:
		return "basic"
	case CADASSite:
		return "A+S+site"
	case CADFull:
		return "full"
	}
	return string(c)
}

func categoryTitle(c Category) string {
	switch c {
	case CategoryStructural:
		return "Structural"
	case CategoryMEPF:
		return "MEPF"
	case CategoryACT:
		return "ACT Ceiling"
	case CategoryBelowFloor:
		return "Below Floor"
	}
	return string(c)
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
