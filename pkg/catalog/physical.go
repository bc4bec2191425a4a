package catalog

// Kind is the raw type of a physical field.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"
)

// Field is the definition of one physical input field.
//
// Numeric fields are min-max normalised into [0,1] using Lo/Hi and clamped;
// Inverted fields are reported as 1-n so that "closer" reads as "riskier".
// Importance scales minor factors down without a separate weight table.
type Field struct {
	Name       string
	Kind       Kind
	Lo, Hi     float64
	Inverted   bool
	Importance float64
	Categories []string
	Label      string
}

// Scale returns the importance multiplier, defaulting to 1.
func (f Field) Scale() float64 {
	if f.Importance <= 0 {
		return 1
	}
	return f.Importance
}

// Enum categories.
var (
	SurfaceRunoffCategories = []string{"low", "medium", "high"}
	RoofDesignCategories    = []string{"gable", "hip", "flat", "other"}
)

// physicalFields is the canonical physical order. Enum fields expand in place
// into one indicator per category.
var physicalFields = []Field{
	{Name: "fault_distance_km", Kind: KindNumeric, Lo: 0, Hi: 50, Inverted: true, Label: "Near fault line (lower distance)"},
	{Name: "basic_wind_speed_mps", Kind: KindNumeric, Lo: 15, Hi: 60, Label: "High wind exposure"},
	{Name: "slope_deg", Kind: KindNumeric, Lo: 0, Hi: 35, Label: "Steep terrain slope"},
	{Name: "elevation_m", Kind: KindNumeric, Lo: 0, Hi: 1500, Importance: 0.35, Label: "Higher elevation (minor factor)"},
	{Name: "potential_liquefaction", Kind: KindBoolean, Label: "Liquefaction potential"},
	{Name: "distance_to_rivers_and_seas_km", Kind: KindNumeric, Lo: 0, Hi: 10, Inverted: true, Label: "Near rivers/seas (lower distance)"},
	{Name: "vertical_irregularity", Kind: KindBoolean, Label: "Vertical irregularity"},
	{Name: "building_proximity_m", Kind: KindNumeric, Lo: 0, Hi: 8, Inverted: true, Label: "Very close adjacent buildings (lower distance)"},
	{Name: "number_of_bays", Kind: KindNumeric, Lo: 1, Hi: 12, Importance: 0.25, Label: "More bays (minor factor)"},
	{Name: "column_spacing_m", Kind: KindNumeric, Lo: 2, Hi: 8, Importance: 0.35, Label: "Larger column spacing (minor factor)"},
	{Name: "maximum_crack_mm", Kind: KindNumeric, Lo: 0, Hi: 50, Label: "Large maximum crack"},
	{Name: "roof_slope_deg", Kind: KindNumeric, Lo: 0, Hi: 45, Importance: 0.2, Label: "Roof slope (minor factor)"},
	{Name: "roof_fastener_distance_cm", Kind: KindNumeric, Lo: 2, Hi: 20, Label: "Roof fasteners spaced far apart"},
	{Name: "surface_runoff", Kind: KindEnum, Categories: SurfaceRunoffCategories, Label: "Surface runoff"},
	{Name: "roof_design", Kind: KindEnum, Categories: RoofDesignCategories, Label: "Roof design"},
}

// indicatorPrefix names the one-hot columns of each enum field.
var indicatorPrefix = map[string]string{
	"surface_runoff": "runoff",
	"roof_design":    "roof",
}

// Physical is the immutable catalog of physical fields.
type Physical struct {
	fields []Field
	names  []string
	labels map[string]string
}

// DefaultPhysical returns the physical catalog with the default bounds table.
func DefaultPhysical() *Physical {
	return NewPhysical(physicalFields)
}

// NewPhysical builds a catalog from field definitions. Enum fields are placed
// after all scalar fields in the feature order, in definition order.
func NewPhysical(fields []Field) *Physical {
	p := &Physical{
		fields: make([]Field, len(fields)),
		labels: make(map[string]string),
	}
	copy(p.fields, fields)

	var enums []Field
	for _, f := range p.fields {
		if f.Kind == KindEnum {
			enums = append(enums, f)
			continue
		}
		p.names = append(p.names, f.Name)
		p.labels[f.Name] = f.Label
	}
	for _, f := range enums {
		for _, c := range f.Categories {
			col := IndicatorName(f.Name, c)
			p.names = append(p.names, col)
			p.labels[col] = f.Label + ": " + c
		}
	}
	return p
}

// IndicatorName returns the one-hot column name for an enum category,
// e.g. ("surface_runoff", "high") -> "runoff_high".
func IndicatorName(field, category string) string {
	prefix, ok := indicatorPrefix[field]
	if !ok {
		prefix = field
	}
	return prefix + "_" + category
}

// Fields returns the field definitions in declaration order.
func (p *Physical) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Field looks up a definition by name.
func (p *Physical) Field(name string) (Field, bool) {
	for _, f := range p.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the canonical feature order (scalars first, then indicators).
func (p *Physical) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Label returns the explanation text for a feature column.
func (p *Physical) Label(column string) string {
	if l, ok := p.labels[column]; ok && l != "" {
		return l
	}
	return column
}
