package unit

import "math"

func dims(d Dimension, exp int8) Dims {
	var v Dims
	v[d] = exp
	return v
}

func dims2(d1 Dimension, e1 int8, d2 Dimension, e2 int8) Dims {
	v := dims(d1, e1)
	v[d2] = e2
	return v
}

func dims3(d1 Dimension, e1 int8, d2 Dimension, e2 int8, d3 Dimension, e3 int8) Dims {
	v := dims2(d1, e1, d2, e2)
	v[d3] = e3
	return v
}

func dims4(d1 Dimension, e1 int8, d2 Dimension, e2 int8, d3 Dimension, e3 int8, d4 Dimension, e4 int8) Dims {
	v := dims3(d1, e1, d2, e2, d3, e3)
	v[d4] = e4
	return v
}

// entry declares one simple unit plus the aliases it is known by. The
// first alias is the display name.
type entry struct {
	aliases []string
	dims    Dims
	factor  float64
	offset  float64
}

var (
	length = dims(Length, 1)
	mass   = dims(Mass, 1)
	tim    = dims(Time, 1)
	angle  = dims(Angle, 1)
	volume = dims(Length, 3)
	money  = dims(Currency, 1)
	data   = dims(Data, 1)
	speed  = dims2(Length, 1, Time, -1)
	force  = dims3(Mass, 1, Length, 1, Time, -2)
	press  = dims3(Mass, 1, Length, -1, Time, -2)
	energy = dims3(Mass, 1, Length, 2, Time, -2)
	power  = dims3(Mass, 1, Length, 2, Time, -3)
	volt   = dims4(Mass, 1, Length, 2, Time, -3, Current, -1)
	resist = dims4(Mass, 1, Length, 2, Time, -3, Current, -2)
)

const (
	inchM = 0.0254
	footM = 0.3048
	lbKg  = 0.45359237
	galL  = 3.785411784e-3 // US gallon in m3
)

var table = []entry{
	// Length, base meter.
	{aliases: []string{"nm"}, dims: length, factor: 1e-9},
	{aliases: []string{"um", "μm"}, dims: length, factor: 1e-6},
	{aliases: []string{"mm"}, dims: length, factor: 1e-3},
	{aliases: []string{"cm"}, dims: length, factor: 1e-2},
	{aliases: []string{"m", "meter", "meters"}, dims: length, factor: 1},
	{aliases: []string{"km"}, dims: length, factor: 1e3},
	{aliases: []string{"mil"}, dims: length, factor: inchM / 1000},
	{aliases: []string{"in", "inch", "inches"}, dims: length, factor: inchM},
	{aliases: []string{"ft", "foot", "feet"}, dims: length, factor: footM},
	{aliases: []string{"yd", "yard", "yards"}, dims: length, factor: 0.9144},
	{aliases: []string{"mi", "mile", "miles"}, dims: length, factor: 1609.344},
	{aliases: []string{"nmi"}, dims: length, factor: 1852},

	// Mass, base kilogram.
	{aliases: []string{"mg"}, dims: mass, factor: 1e-6},
	{aliases: []string{"g", "gram", "grams"}, dims: mass, factor: 1e-3},
	{aliases: []string{"kg"}, dims: mass, factor: 1},
	{aliases: []string{"tonne"}, dims: mass, factor: 1000},
	{aliases: []string{"oz"}, dims: mass, factor: lbKg / 16},
	{aliases: []string{"lb", "lbs", "pound", "pounds"}, dims: mass, factor: lbKg},
	{aliases: []string{"ton"}, dims: mass, factor: 2000 * lbKg},
	{aliases: []string{"slug"}, dims: mass, factor: 14.59390294},

	// Time, base second.
	{aliases: []string{"ns"}, dims: tim, factor: 1e-9},
	{aliases: []string{"us"}, dims: tim, factor: 1e-6},
	{aliases: []string{"ms"}, dims: tim, factor: 1e-3},
	{aliases: []string{"s", "sec", "second", "seconds"}, dims: tim, factor: 1},
	{aliases: []string{"min", "minute", "minutes"}, dims: tim, factor: 60},
	{aliases: []string{"hr", "h", "hour", "hours"}, dims: tim, factor: 3600},
	{aliases: []string{"day", "days"}, dims: tim, factor: 86400},
	{aliases: []string{"wk", "week", "weeks"}, dims: tim, factor: 604800},
	{aliases: []string{"yr", "year", "years"}, dims: tim, factor: 31557600},

	// Electric current, base ampere.
	{aliases: []string{"A", "amp", "amps"}, dims: dims(Current, 1), factor: 1},
	{aliases: []string{"mA"}, dims: dims(Current, 1), factor: 1e-3},
	{aliases: []string{"V", "volt", "volts"}, dims: volt, factor: 1},
	{aliases: []string{"mV"}, dims: volt, factor: 1e-3},
	{aliases: []string{"ohm", "Ω", "ohms"}, dims: resist, factor: 1},
	{aliases: []string{"kohm"}, dims: resist, factor: 1e3},

	// Temperature, base kelvin. degC and degF carry additive offsets and
	// convert exactly only as simple first-power units.
	{aliases: []string{"K", "kelvin"}, dims: dims(Temperature, 1), factor: 1},
	{aliases: []string{"degC", "°C"}, dims: dims(Temperature, 1), factor: 1, offset: 273.15},
	{aliases: []string{"degF", "°F"}, dims: dims(Temperature, 1), factor: 5.0 / 9.0, offset: 273.15 - 32*5.0/9.0},

	// Amount of substance.
	{aliases: []string{"mol"}, dims: dims(Amount, 1), factor: 1},

	// Angle, base radian.
	{aliases: []string{"rad"}, dims: angle, factor: 1},
	{aliases: []string{"deg", "°", "degree", "degrees"}, dims: angle, factor: math.Pi / 180},
	{aliases: []string{"grad"}, dims: angle, factor: math.Pi / 200},
	{aliases: []string{"rev"}, dims: angle, factor: 2 * math.Pi},
	{aliases: []string{"arcmin"}, dims: angle, factor: math.Pi / 180 / 60},
	{aliases: []string{"arcsec"}, dims: angle, factor: math.Pi / 180 / 3600},

	// Currency, base US dollar. Static factors; no live exchange rates.
	{aliases: []string{"USD", "dollar", "dollars"}, dims: money, factor: 1},
	{aliases: []string{"cents", "cent", "pennies", "penny"}, dims: money, factor: 0.01},

	// Data, base byte.
	{aliases: []string{"bit", "bits"}, dims: data, factor: 0.125},
	{aliases: []string{"B", "byte", "bytes"}, dims: data, factor: 1},
	{aliases: []string{"KB"}, dims: data, factor: 1e3},
	{aliases: []string{"MB"}, dims: data, factor: 1e6},
	{aliases: []string{"GB"}, dims: data, factor: 1e9},
	{aliases: []string{"TB"}, dims: data, factor: 1e12},
	{aliases: []string{"KiB"}, dims: data, factor: 1024},
	{aliases: []string{"MiB"}, dims: data, factor: 1024 * 1024},
	{aliases: []string{"GiB"}, dims: data, factor: 1024 * 1024 * 1024},

	// Dimensionless ratios.
	{aliases: []string{"pct", "percent"}, factor: 1e-2},
	{aliases: []string{"ppm"}, factor: 1e-6},
	{aliases: []string{"ppb"}, factor: 1e-9},
	{aliases: []string{"unitless"}, factor: 1},

	// Volume, base cubic meter.
	{aliases: []string{"mL"}, dims: volume, factor: 1e-6},
	{aliases: []string{"L", "liter", "liters"}, dims: volume, factor: 1e-3},
	{aliases: []string{"floz"}, dims: volume, factor: galL / 128},
	{aliases: []string{"cup", "cups"}, dims: volume, factor: galL / 16},
	{aliases: []string{"pt", "pint", "pints"}, dims: volume, factor: galL / 8},
	{aliases: []string{"qt", "quart", "quarts"}, dims: volume, factor: galL / 4},
	{aliases: []string{"gal", "gallon", "gallons"}, dims: volume, factor: galL},

	// Named compounds.
	{aliases: []string{"Hz"}, dims: dims(Time, -1), factor: 1},
	{aliases: []string{"mph"}, dims: speed, factor: 1609.344 / 3600},
	{aliases: []string{"kph"}, dims: speed, factor: 1000.0 / 3600},
	{aliases: []string{"knot", "knots"}, dims: speed, factor: 1852.0 / 3600},
	{aliases: []string{"N", "newton", "newtons"}, dims: force, factor: 1},
	{aliases: []string{"kN"}, dims: force, factor: 1e3},
	{aliases: []string{"lbf"}, dims: force, factor: 4.4482216152605},
	{aliases: []string{"kgf"}, dims: force, factor: 9.80665},
	{aliases: []string{"Pa"}, dims: press, factor: 1},
	{aliases: []string{"kPa"}, dims: press, factor: 1e3},
	{aliases: []string{"MPa"}, dims: press, factor: 1e6},
	{aliases: []string{"bar"}, dims: press, factor: 1e5},
	{aliases: []string{"atm"}, dims: press, factor: 101325},
	{aliases: []string{"psi"}, dims: press, factor: 4.4482216152605 / (inchM * inchM)},
	{aliases: []string{"J", "joule", "joules"}, dims: energy, factor: 1},
	{aliases: []string{"kJ"}, dims: energy, factor: 1e3},
	{aliases: []string{"cal"}, dims: energy, factor: 4.184},
	{aliases: []string{"kcal"}, dims: energy, factor: 4184},
	{aliases: []string{"Wh"}, dims: energy, factor: 3600},
	{aliases: []string{"kWh"}, dims: energy, factor: 3.6e6},
	{aliases: []string{"BTU"}, dims: energy, factor: 1055.05585262},
	{aliases: []string{"W", "watt", "watts"}, dims: power, factor: 1},
	{aliases: []string{"kW"}, dims: power, factor: 1e3},
	{aliases: []string{"hp"}, dims: power, factor: 745.69987158227},
	// pcf is pounds per cubic foot, a density shorthand.
	{aliases: []string{"pcf"}, dims: dims2(Mass, 1, Length, -3), factor: lbKg / (footM * footM * footM)},
}

var lookup map[string]*simple

func init() {
	lookup = make(map[string]*simple, len(table)*2)
	for i := range table {
		e := &table[i]
		s := &simple{name: e.aliases[0], dims: e.dims, factor: e.factor, offset: e.offset}
		for _, a := range e.aliases {
			lookup[a] = s
		}
	}
}

func find(name string) *simple {
	return lookup[name]
}
