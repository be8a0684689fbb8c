package services

// Category is the closed set of line-item categories produced by the shell
// generator. The declaration order is the emission order.
type Category string

const (
	CategoryArchitecture     Category = "architecture"
	CategoryStructural       Category = "structural"
	CategoryMEPF             Category = "mepf"
	CategoryCAD              Category = "cad"
	CategoryACT              Category = "act"
	CategoryBelowFloor       Category = "below_floor"
	CategoryTravel           Category = "travel"
	CategoryGeoreferencing   Category = "georeferencing"
	CategoryExpedited        Category = "expedited"
	CategoryLandscape        Category = "landscape"
	CategoryScanRegistration Category = "scan_registration"
	CategoryCustom           Category = "custom"
)

// AllCategories returns every category in emission order.
func AllCategories() []Category {
	return []Category{
		CategoryArchitecture,
		CategoryStructural,
		CategoryMEPF,
		CategoryCAD,
		CategoryACT,
		CategoryBelowFloor,
		CategoryTravel,
		CategoryGeoreferencing,
		CategoryExpedited,
		CategoryLandscape,
		CategoryScanRegistration,
		CategoryCustom,
	}
}

// Rank returns the position of c in emission order, or -1 for an unknown value.
func (c Category) Rank() int {
	for i, v := range AllCategories() {
		if v == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c.Rank() >= 0
}

// Discipline is the trade a line item belongs to.
type Discipline string

const (
	DisciplineArchitecture Discipline = "architecture"
	DisciplineStructural   Discipline = "structural"
	DisciplineMEPF         Discipline = "mepf"
	DisciplineCAD          Discipline = "cad"
	DisciplineACT          Discipline = "act"
	DisciplineBelowFloor   Discipline = "below_floor"
	DisciplineSite         Discipline = "site"
	DisciplineServices     Discipline = "services"
	DisciplineCustom       Discipline = "custom"
)

// DisciplineFor maps a generated category to its discipline.
// Custom items carry their own discipline; DisciplineCustom is the fallback.
func DisciplineFor(c Category) Discipline {
	switch c {
	case CategoryArchitecture:
		return DisciplineArchitecture
	case CategoryStructural:
		return DisciplineStructural
	case CategoryMEPF:
		return DisciplineMEPF
	case CategoryCAD:
		return DisciplineCAD
	case CategoryACT:
		return DisciplineACT
	case CategoryBelowFloor:
		return DisciplineBelowFloor
	case CategoryLandscape:
		return DisciplineSite
	case CategoryTravel, CategoryGeoreferencing, CategoryExpedited, CategoryScanRegistration:
		return DisciplineServices
	case CategoryCustom:
		return DisciplineCustom
	}
	panic("services: unhandled category " + string(c))
}

// Unit is the unit a shell's quantity is measured in.
type Unit string

const (
	UnitSqft Unit = "sqft"
	UnitMile Unit = "mile"
	UnitAcre Unit = "acre"
	UnitEach Unit = "each"
	UnitFlat Unit = "flat"
)

// LineItemShell is a line item produced by rule application. Cost and Price
// start unset and are filled in downstream, either by a person or by the
// estimator and pricing helpers.
type LineItemShell struct {
	ID           string     `json:"id"`
	AreaID       string     `json:"areaId,omitempty"`
	Category     Category   `json:"category"`
	Discipline   Discipline `json:"discipline"`
	Description  string     `json:"description"`
	BuildingType string     `json:"buildingType,omitempty"`
	Quantity     float64    `json:"quantity"`
	Unit         Unit       `json:"unit"`
	Cost         *float64   `json:"cost"`
	Price        *float64   `json:"price"`
}

// Priced reports whether both monetary fields are set.
func (s LineItemShell) Priced() bool {
	return s.Cost != nil && s.Price != nil
}

// Float returns a pointer to v. Handy for filling the nullable money fields.
func Float(v float64) *float64 {
	return &v
}
