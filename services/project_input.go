package services

// LOD is a modeling level-of-detail tier.
type LOD string

const (
	LOD200 LOD = "200"
	LOD300 LOD = "300"
	LOD350 LOD = "350"
)

// rank orders LODs from least to most detailed.
func (l LOD) rank() int {
	switch l {
	case LOD200:
		return 1
	case LOD300:
		return 2
	case LOD350:
		return 3
	}
	return 0
}

// Scope is the physical extent of an area that gets modeled.
type Scope string

const (
	ScopeFull       Scope = "full"
	ScopeInterior   Scope = "interior"
	ScopeExterior   Scope = "exterior"
	ScopeRoofFacade Scope = "roof_facade"
)

// CADDeliverable selects the 2D CAD package for an area.
type CADDeliverable string

const (
	CADNone   CADDeliverable = "none"
	CADBasic  CADDeliverable = "basic"
	CADASSite CADDeliverable = "a_s_site"
	CADFull   CADDeliverable = "full"
)

// Requested reports whether the selector asks for any CAD output.
func (c CADDeliverable) Requested() bool {
	return c != "" && c != CADNone
}

// TravelMode is how the crew reaches the site.
type TravelMode string

const (
	TravelDriving TravelMode = "driving"
	TravelFlight  TravelMode = "flight"
)

// LandscapeMode selects site/landscape modeling.
type LandscapeMode string

const (
	LandscapeNone    LandscapeMode = "none"
	LandscapeBuilt   LandscapeMode = "built"
	LandscapeNatural LandscapeMode = "natural"
)

// Enabled reports whether landscape modeling is requested.
func (m LandscapeMode) Enabled() bool {
	return m != "" && m != LandscapeNone
}

// Terrain describes landscape difficulty.
type Terrain string

const (
	TerrainFlat    Terrain = "flat"
	TerrainRolling Terrain = "rolling"
	TerrainWooded  Terrain = "wooded"
)

// ScanRegistrationMode selects a registered point cloud as the only deliverable format.
type ScanRegistrationMode string

const (
	ScanRegistrationNone ScanRegistrationMode = "none"
	ScanRegistrationE57  ScanRegistrationMode = "e57"
	ScanRegistrationRCP  ScanRegistrationMode = "rcp"
)

// Enabled reports whether a scan-registration-only line is requested.
func (m ScanRegistrationMode) Enabled() bool {
	return m != "" && m != ScanRegistrationNone
}

// ProjectInput describes one scanning/modeling project to be quoted.
type ProjectInput struct {
	DispatchLocation     string               `json:"dispatchLocation" yaml:"dispatchLocation" validate:"required"`
	DistanceMiles        *float64             `json:"distanceMiles" yaml:"distanceMiles" validate:"required,finite,gte=0"`
	TravelMode           TravelMode           `json:"travelMode" yaml:"travelMode" validate:"required,oneof=driving flight"`
	MileageRate          *float64             `json:"mileageRate,omitempty" yaml:"mileageRate,omitempty" validate:"omitempty,finite,gt=0"`
	TravelCostOverride   *float64             `json:"travelCostOverride,omitempty" yaml:"travelCostOverride,omitempty" validate:"omitempty,finite,gte=0"`
	Georeferencing       bool                 `json:"georeferencing" yaml:"georeferencing"`
	Expedited            bool                 `json:"expedited" yaml:"expedited"`
	ScanRegistrationOnly ScanRegistrationMode `json:"scanRegistrationOnly,omitempty" yaml:"scanRegistrationOnly,omitempty" validate:"omitempty,oneof=none e57 rcp"`
	LandscapeMode        LandscapeMode        `json:"landscapeMode,omitempty" yaml:"landscapeMode,omitempty" validate:"omitempty,oneof=none built natural"`
	LandscapeAcres       *float64             `json:"landscapeAcres,omitempty" yaml:"landscapeAcres,omitempty" validate:"omitempty,finite,gt=0"`
	LandscapeTerrain     Terrain              `json:"landscapeTerrain,omitempty" yaml:"landscapeTerrain,omitempty" validate:"omitempty,oneof=flat rolling wooded"`
	Areas                []AreaInput          `json:"areas" yaml:"areas" validate:"dive"`
}

// AreaInput is one scope area of a project.
type AreaInput struct {
	ID            string         `json:"id" yaml:"id" validate:"required"`
	Kind          string         `json:"kind" yaml:"kind" validate:"required"`
	Name          string         `json:"name" yaml:"name"`
	SquareFootage *float64       `json:"squareFootage" yaml:"squareFootage" validate:"required,finite,gt=0"`
	Scope         Scope          `json:"scope" yaml:"scope" validate:"required,oneof=full interior exterior roof_facade"`
	LOD           LOD            `json:"lod" yaml:"lod" validate:"required,oneof=200 300 350"`
	MixedLOD      *MixedLOD      `json:"mixedLod,omitempty" yaml:"mixedLod,omitempty"`
	Structural    *SubScopeInput `json:"structural,omitempty" yaml:"structural,omitempty"`
	MEPF          *SubScopeInput `json:"mepf,omitempty" yaml:"mepf,omitempty"`
	ACT           *SubScopeInput `json:"act,omitempty" yaml:"act,omitempty"`
	BelowFloor    *SubScopeInput `json:"belowFloor,omitempty" yaml:"belowFloor,omitempty"`
	CAD           CADDeliverable `json:"cadDeliverable,omitempty" yaml:"cadDeliverable,omitempty" validate:"omitempty,oneof=none basic a_s_site full"`
	CustomItems   []CustomItem   `json:"customLineItems,omitempty" yaml:"customLineItems,omitempty" validate:"dive"`
}

// MixedLOD splits an area's detail tier between interior and exterior.
type MixedLOD struct {
	Interior LOD `json:"interior" yaml:"interior" validate:"required,oneof=200 300 350"`
	Exterior LOD `json:"exterior" yaml:"exterior" validate:"required,oneof=200 300 350"`
}

// Highest returns the more detailed of the two tiers.
func (m MixedLOD) Highest() LOD {
	if m.Exterior.rank() > m.Interior.rank() {
		return m.Exterior
	}
	return m.Interior
}

// SubScopeInput is the raw wire shape of an optional sub-scope. A nil pointer
// means the sub-scope is absent.
type SubScopeInput struct {
	Enabled       *bool    `json:"enabled" yaml:"enabled"`
	SquareFootage *float64 `json:"squareFootage" yaml:"squareFootage"`
}

// CustomItem is a free-form line item supplied on an area. It is emitted verbatim.
type CustomItem struct {
	Description string     `json:"description" yaml:"description" validate:"required"`
	Discipline  Discipline `json:"discipline,omitempty" yaml:"discipline,omitempty"`
	Quantity    float64    `json:"quantity,omitempty" yaml:"quantity,omitempty" validate:"finite,gte=0"`
	Unit        Unit       `json:"unit,omitempty" yaml:"unit,omitempty"`
	Cost        *float64   `json:"cost,omitempty" yaml:"cost,omitempty" validate:"omitempty,finite,gte=0"`
	Price       *float64   `json:"price,omitempty" yaml:"price,omitempty" validate:"omitempty,finite,gte=0"`
}

// ScopeOption is a validated sub-scope: either Some(square footage) or None.
type ScopeOption struct {
	set  bool
	sqft float64
}

// Some returns an enabled sub-scope of the given size.
func Some(sqft float64) ScopeOption {
	return ScopeOption{set: true, sqft: sqft}
}

// None returns a disabled sub-scope.
func None() ScopeOption {
	return ScopeOption{}
}

// Get returns the square footage and whether the sub-scope is enabled.
func (o ScopeOption) Get() (float64, bool) {
	return o.sqft, o.set
}
