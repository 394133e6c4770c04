package weather

const (
	millimetersPerInch = 25.4
	kmhPerKnot         = 1.852
)

// FahrenheitToCelsius converts °F to °C. A nil input yields nil.
func FahrenheitToCelsius(f *float64) *float64 {
	if f == nil {
		return nil
	}
	c := (*f - 32) * 5 / 9
	return &c
}

// InchesToMillimeters converts inches to millimetres. A nil input yields nil.
func InchesToMillimeters(in *float64) *float64 {
	if in == nil {
		return nil
	}
	mm := *in * millimetersPerInch
	return &mm
}

// KnotsToKmh converts knots to km/h. A nil input yields nil.
func KnotsToKmh(kn *float64) *float64 {
	if kn == nil {
		return nil
	}
	kmh := *kn * kmhPerKnot
	return &kmh
}
