package layout

// Properties is the ordered property list carried by elements, cells and
// libraries.
type Properties []Property

// Props returns the list.
func (p Properties) Props() []Property {
	return p
}

// AddProperty appends prop.
func (p *Properties) AddProperty(prop Property) {
	*p = append(*p, prop)
}

// Lookup returns the first property called name.
func (p Properties) Lookup(name string) (Property, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop, true
		}
	}

	return Property{}, false
}

// Property is a named list of values.
type Property struct {
	Name   string
	Values []PropertyValue
}

// PropertyValue is one property value. The set of implementations is
// closed: RealValue, UnsignedValue, SignedValue, AStringValue, BStringValue
// and ReferenceValue.
type PropertyValue interface {
	isPropertyValue()
}

type (
	// RealValue is a floating point value.
	RealValue float64
	// UnsignedValue is a non-negative integer.
	UnsignedValue uint64
	// SignedValue is a signed integer.
	SignedValue int64
	// AStringValue is a printable ASCII string.
	AStringValue string
	// BStringValue is an arbitrary byte string.
	BStringValue []byte
	// ReferenceValue is a reference number into a string table that could
	// not be resolved.
	ReferenceValue uint64
)

func (RealValue) isPropertyValue()      {}
func (UnsignedValue) isPropertyValue()  {}
func (SignedValue) isPropertyValue()    {}
func (AStringValue) isPropertyValue()   {}
func (BStringValue) isPropertyValue()   {}
func (ReferenceValue) isPropertyValue() {}
