package primitive

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Converter turns a value of one type into a value of another.
// Converters never fail: input that cannot be parsed gives the
// destination type's zero value.
type Converter func(reflect.Value) reflect.Value

// builder creates the converter for one kind pair. It returns nil when the
// concrete types do not support the conversion after all (e.g. an int enum
// without a String method converted to string).
type builder func(src, dst reflect.Type) Converter

var (
	builders map[ConversionPair]builder

	stringerType  = reflect.TypeFor[fmt.Stringer]()
	validatorType = reflect.TypeFor[interface{ IsValid() bool }]()
)

func init() {
	builders = map[ConversionPair]builder{}

	// CategorySafeNumber
	// CategoryUnsafeNumber
	for fromKind := KindEnum(0); int(fromKind) < KindTotal; fromKind++ {
		if !fromKind.IsNumber() {
			continue
		}

		for toKind := KindEnum(0); int(toKind) < KindTotal; toKind++ {
			if toKind.IsNumber() {
				builders[ConversionPair{fromKind, toKind}] = numberToNumber
			}
		}
	}

	for numberKind := KindEnum(0); int(numberKind) < KindTotal; numberKind++ {
		// CategoryTextNumber
		switch {
		case numberKind.IsSigned():
			builders[ConversionPair{numberKind, KindString}] = signedToString
			builders[ConversionPair{KindString, numberKind}] = stringToSigned
		case numberKind.IsUnsigned():
			builders[ConversionPair{numberKind, KindString}] = unsignedToString
			builders[ConversionPair{KindString, numberKind}] = stringToUnsigned
		case numberKind.IsFloat():
			builders[ConversionPair{numberKind, KindString}] = floatToString
			builders[ConversionPair{KindString, numberKind}] = stringToFloat
			// CategorySeconds
			builders[ConversionPair{numberKind, KindDuration}] = secondsToDuration
			builders[ConversionPair{KindDuration, numberKind}] = durationToSeconds
		}

		if !numberKind.IsInteger() {
			continue
		}

		// CategoryNumericBool
		builders[ConversionPair{numberKind, KindBool}] = integerToBool
		builders[ConversionPair{KindBool, numberKind}] = boolToInteger

		// CategoryTimestamp
		builders[ConversionPair{numberKind, KindTime}] = unixToTime
		builders[ConversionPair{KindTime, numberKind}] = timeToUnix

		// CategoryNanoseconds
		builders[ConversionPair{numberKind, KindDuration}] = nanosToDuration
		builders[ConversionPair{KindDuration, numberKind}] = durationToNanos
	}

	// CategoryTextualBool
	builders[ConversionPair{KindString, KindBool}] = stringToBool
	builders[ConversionPair{KindBool, KindString}] = boolToString

	// CategoryDatetime
	builders[ConversionPair{KindString, KindTime}] = stringToTime
	builders[ConversionPair{KindTime, KindString}] = timeToString

	// CategoryDuration
	builders[ConversionPair{KindString, KindDuration}] = stringToDuration
	builders[ConversionPair{KindDuration, KindString}] = durationToString

	// CategoryEnumString
	builders[ConversionPair{KindString, KindPrimitiveEnum}] = stringToEnum
	builders[ConversionPair{KindPrimitiveEnum, KindString}] = enumToString
	builders[ConversionPair{KindPrimitiveEnum, KindPrimitiveEnum}] = enumToEnum
}

func newValue(dst reflect.Type) reflect.Value {
	return reflect.New(dst).Elem()
}

func stringValue(s string, dst reflect.Type) reflect.Value {
	out := newValue(dst)
	out.SetString(s)

	return out
}

func numberToNumber(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		return v.Convert(dst)
	}
}

func signedToString(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		return stringValue(strconv.FormatInt(v.Int(), 10), dst)
	}
}

func unsignedToString(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		return stringValue(strconv.FormatUint(v.Uint(), 10), dst)
	}
}

func floatToString(src, dst reflect.Type) Converter {
	bits := BaseKind(src).Bits()

	return func(v reflect.Value) reflect.Value {
		return stringValue(strconv.FormatFloat(v.Float(), 'f', -1, bits), dst)
	}
}

func stringToSigned(_, dst reflect.Type) Converter {
	bits := BaseKind(dst).Bits()

	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		if n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, bits); err == nil {
			out.SetInt(n)
		}

		return out
	}
}

func stringToUnsigned(_, dst reflect.Type) Converter {
	bits := BaseKind(dst).Bits()

	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		if n, err := strconv.ParseUint(strings.TrimSpace(v.String()), 10, bits); err == nil {
			out.SetUint(n)
		}

		return out
	}
}

func stringToFloat(_, dst reflect.Type) Converter {
	bits := BaseKind(dst).Bits()

	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), bits); err == nil {
			out.SetFloat(f)
		}

		return out
	}
}

func integerToBool(src, dst reflect.Type) Converter {
	signed := BaseKind(src).IsSigned()

	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		if signed {
			out.SetBool(v.Int() != 0)
		} else {
			out.SetBool(v.Uint() != 0)
		}

		return out
	}
}

func boolToInteger(_, dst reflect.Type) Converter {
	signed := BaseKind(dst).IsSigned()

	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		if !v.Bool() {
			return out
		}

		if signed {
			out.SetInt(1)
		} else {
			out.SetUint(1)
		}

		return out
	}
}

// parseBool accepts yes/no, on/off, true/false, y/n, t/f and 1/0, case-insensitively.
func parseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y", "on", "1":
		return true, true
	case "false", "f", "no", "n", "off", "0", "":
		return false, true
	default:
		return false, false
	}
}

func stringToBool(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		if b, ok := parseBool(v.String()); ok {
			out.SetBool(b)
		}

		return out
	}
}

func boolToString(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		return stringValue(strconv.FormatBool(v.Bool()), dst)
	}
}

func stringToTime(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.String())); err == nil {
			out.Set(reflect.ValueOf(t))
		}

		return out
	}
}

func timeToString(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		t, _ := v.Interface().(time.Time)

		return stringValue(t.Format(time.RFC3339Nano), dst)
	}
}

func unixToTime(src, dst reflect.Type) Converter {
	signed := BaseKind(src).IsSigned()

	return func(v reflect.Value) reflect.Value {
		var seconds int64
		if signed {
			seconds = v.Int()
		} else {
			seconds = int64(v.Uint())
		}

		out := newValue(dst)
		out.Set(reflect.ValueOf(time.Unix(seconds, 0).UTC()))

		return out
	}
}

func timeToUnix(_, dst reflect.Type) Converter {
	signed := BaseKind(dst).IsSigned()

	return func(v reflect.Value) reflect.Value {
		t, _ := v.Interface().(time.Time)

		out := newValue(dst)
		if signed {
			out.SetInt(t.Unix())
		} else {
			out.SetUint(uint64(t.Unix()))
		}

		return out
	}
}

func stringToDuration(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		if d, err := time.ParseDuration(strings.TrimSpace(v.String())); err == nil {
			out.SetInt(int64(d))
		}

		return out
	}
}

func durationToString(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		return stringValue(time.Duration(v.Int()).String(), dst)
	}
}

func nanosToDuration(src, dst reflect.Type) Converter {
	signed := BaseKind(src).IsSigned()

	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		if signed {
			out.SetInt(v.Int())
		} else {
			out.SetInt(int64(v.Uint()))
		}

		return out
	}
}

func durationToNanos(_, dst reflect.Type) Converter {
	signed := BaseKind(dst).IsSigned()

	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		if signed {
			out.SetInt(v.Int())
		} else {
			out.SetUint(uint64(v.Int()))
		}

		return out
	}
}

func secondsToDuration(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		out.SetInt(int64(v.Float() * float64(time.Second)))

		return out
	}
}

func durationToSeconds(_, dst reflect.Type) Converter {
	return func(v reflect.Value) reflect.Value {
		out := newValue(dst)
		out.SetFloat(time.Duration(v.Int()).Seconds())

		return out
	}
}

// enumText returns how a value of an enum type is rendered as text:
// its String method when present, otherwise its underlying string.
func enumText(src reflect.Type) func(reflect.Value) string {
	switch {
	case src.Implements(stringerType):
		return func(v reflect.Value) string {
			return v.Interface().(fmt.Stringer).String()
		}
	case src.Kind() == reflect.String:
		return reflect.Value.String
	default:
		return nil
	}
}

// enumFromText parses text into a string-based enum type, rejecting values
// the type's IsValid method refuses.
func enumFromText(dst reflect.Type) func(string) reflect.Value {
	if dst.Kind() != reflect.String {
		return nil
	}

	validate := dst.Implements(validatorType)

	return func(s string) reflect.Value {
		out := stringValue(s, dst)
		if validate && !out.Interface().(interface{ IsValid() bool }).IsValid() {
			return reflect.Zero(dst)
		}

		return out
	}
}

func enumToString(src, dst reflect.Type) Converter {
	text := enumText(src)
	if text == nil {
		return nil
	}

	return func(v reflect.Value) reflect.Value {
		return stringValue(text(v), dst)
	}
}

func stringToEnum(_, dst reflect.Type) Converter {
	parse := enumFromText(dst)
	if parse == nil {
		return nil
	}

	return func(v reflect.Value) reflect.Value {
		return parse(v.String())
	}
}

func enumToEnum(src, dst reflect.Type) Converter {
	if src.Kind() == reflect.Int && dst.Kind() == reflect.Int {
		return numberToNumber(src, dst)
	}

	text, parse := enumText(src), enumFromText(dst)
	if text == nil || parse == nil {
		return nil
	}

	return func(v reflect.Value) reflect.Value {
		return parse(text(v))
	}
}
