package timon

import (
	"fmt"
	"time"
)

// opError distinguishes the two runtime-error kinds arithmetic and
// comparison helpers in this file can raise, so the evaluator can wrap them
// into the right TimonError kind (spec §7) without re-deriving it from the
// message text.
type opError struct {
	kind string // "Type" or "Arithmetic"
	msg  string
}

func (e *opError) Error() string { return e.msg }

func typeErrf(format string, args ...any) error {
	return &opError{kind: "Type", msg: fmt.Sprintf(format, args...)}
}

func arithErrf(format string, args ...any) error {
	return &opError{kind: "Arithmetic", msg: fmt.Sprintf(format, args...)}
}

func validateDate(d DateVal) (DateVal, error) {
	if d.Year <= 0 || d.Year >= 10000 {
		return DateVal{}, arithErrf("date out of representable range: %04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
	return d, nil
}

// normalizeYM folds a possibly out-of-range 1-based month back into [1,12],
// carrying the overflow/underflow into year.
func normalizeYM(year, month int) (int, int) {
	m0 := month - 1
	year += m0 / 12
	m0 %= 12
	if m0 < 0 {
		m0 += 12
		year--
	}
	return year, m0 + 1
}

// applyMonthly advances (day, month, year) by the given signed years/months,
// clamping the day-of-month to the last valid day of the resulting month
// (spec §4.3: years first, then months, then re-clamp).
func applyMonthly(d DateVal, years, months, sign int64) DateVal {
	year := d.Year + int(years*sign)
	month := d.Month
	year, month = normalizeYM(year, month)
	month += int(months * sign)
	year, month = normalizeYM(year, month)
	day := d.Day
	if dim := daysInMonth(year, month); day > dim {
		day = dim
	}
	return DateVal{Day: day, Month: month, Year: year}
}

func absSeconds(td TimedeltaVal, sign int64) int64 {
	total := (td.Weeks*7+td.Days)*86400 + td.Hours*3600 + td.Minutes*60 + td.Seconds
	return total * sign
}

func applyTimedeltaToDate(d DateVal, td TimedeltaVal, sign int64) (DateVal, error) {
	monthly := applyMonthly(d, td.Years, td.Months, sign)
	seconds := absSeconds(td, sign)
	wholeDays := seconds / 86400 // fractional remainder below one day is discarded for a pure Date
	result := monthly
	if wholeDays != 0 {
		tm := asTime(monthly, TimeVal{}).AddDate(0, 0, int(wholeDays))
		result, _ = fromTime(tm)
	}
	return validateDate(result)
}

func applyTimedeltaToTime(t TimeVal, td TimedeltaVal, sign int64) TimeVal {
	total := int64(t.Hour)*3600 + int64(t.Minute)*60 + int64(t.Second)
	total += absSeconds(td, sign)
	total = ((total % 86400) + 86400) % 86400
	h := total / 3600
	rem := total % 3600
	return TimeVal{Hour: int(h), Minute: int(rem / 60), Second: int(rem % 60)}
}

func applyTimedeltaToDatetime(dt DatetimeVal, td TimedeltaVal, sign int64) (DatetimeVal, error) {
	monthly := applyMonthly(dt.Date, td.Years, td.Months, sign)
	seconds := absSeconds(td, sign)
	tm := asTime(monthly, dt.Time).Add(time.Duration(seconds) * time.Second)
	resDate, resTime := fromTime(tm)
	resDate, err := validateDate(resDate)
	if err != nil {
		return DatetimeVal{}, err
	}
	return DatetimeVal{Date: resDate, Time: resTime}, nil
}

func dateDiffDays(a, b DateVal) int64 {
	d := asTime(a, TimeVal{}).Sub(asTime(b, TimeVal{}))
	return int64(d / (24 * time.Hour))
}

func timeDiffSeconds(a, b TimeVal) int64 {
	ta := int64(a.Hour)*3600 + int64(a.Minute)*60 + int64(a.Second)
	tb := int64(b.Hour)*3600 + int64(b.Minute)*60 + int64(b.Second)
	return ta - tb
}

func datetimeDiffSeconds(a, b DatetimeVal) int64 {
	d := asTime(a.Date, a.Time).Sub(asTime(b.Date, b.Time))
	return int64(d / time.Second)
}

func secondsToHMS(total int64) (hours, minutes, seconds int64) {
	hours = total / 3600
	rem := total % 3600
	minutes = rem / 60
	seconds = rem % 60
	return
}

func secondsToDHMS(total int64) (days, hours, minutes, seconds int64) {
	days = total / 86400
	rem := total % 86400
	h, m, s := secondsToHMS(rem)
	return days, h, m, s
}

// applyBinary implements the operator matrix from spec §4.3 for every
// operator except the short-circuiting `&`/`|`, which the evaluator handles
// directly so it can avoid evaluating the right-hand side when unnecessary.
func applyBinary(op TokenType, lhs, rhs Value) (Value, error) {
	switch op {
	case PLUS:
		return applyPlus(lhs, rhs)
	case MINUS:
		return applyMinus(lhs, rhs)
	case STAR:
		return applyStar(lhs, rhs)
	case SLASH:
		return applySlash(lhs, rhs)
	case EQ:
		eq, err := valuesEqual(lhs, rhs)
		if err != nil {
			return Value{}, err
		}
		return BoolVal(eq), nil
	case NEQ:
		eq, err := valuesEqual(lhs, rhs)
		if err != nil {
			return Value{}, err
		}
		return BoolVal(!eq), nil
	case GT, GE, LT, LE:
		return applyRelational(op, lhs, rhs)
	default:
		return Value{}, typeErrf("unsupported operator %s", op)
	}
}

func applyPlus(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == VNumber && rhs.Kind == VNumber:
		return NumberVal(lhs.Num + rhs.Num), nil
	case lhs.Kind == VString && rhs.Kind == VString:
		return StringVal(lhs.Str + rhs.Str), nil
	case lhs.Kind == VTimedelta && rhs.Kind == VTimedelta:
		return TimedeltaValOf(addTimedeltas(lhs.TD, rhs.TD, 1)), nil
	case lhs.Kind == VDate && rhs.Kind == VTimedelta:
		d, err := applyTimedeltaToDate(lhs.Date, rhs.TD, 1)
		if err != nil {
			return Value{}, err
		}
		return DateValOf(d), nil
	case lhs.Kind == VDatetime && rhs.Kind == VTimedelta:
		dt, err := applyTimedeltaToDatetime(lhs.DT, rhs.TD, 1)
		if err != nil {
			return Value{}, err
		}
		return DatetimeValOf(dt), nil
	case lhs.Kind == VTime && rhs.Kind == VTimedelta:
		return TimeValOf(applyTimedeltaToTime(lhs.Time, rhs.TD, 1)), nil
	default:
		return Value{}, typeErrf("'+' not defined for %s and %s", lhs.Kind, rhs.Kind)
	}
}

func applyMinus(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == VNumber && rhs.Kind == VNumber:
		return NumberVal(lhs.Num - rhs.Num), nil
	case lhs.Kind == VTimedelta && rhs.Kind == VTimedelta:
		return TimedeltaValOf(addTimedeltas(lhs.TD, rhs.TD, -1)), nil
	case lhs.Kind == VDate && rhs.Kind == VTimedelta:
		d, err := applyTimedeltaToDate(lhs.Date, rhs.TD, -1)
		if err != nil {
			return Value{}, err
		}
		return DateValOf(d), nil
	case lhs.Kind == VDatetime && rhs.Kind == VTimedelta:
		dt, err := applyTimedeltaToDatetime(lhs.DT, rhs.TD, -1)
		if err != nil {
			return Value{}, err
		}
		return DatetimeValOf(dt), nil
	case lhs.Kind == VTime && rhs.Kind == VTimedelta:
		return TimeValOf(applyTimedeltaToTime(lhs.Time, rhs.TD, -1)), nil
	case lhs.Kind == VDate && rhs.Kind == VDate:
		return TimedeltaValOf(TimedeltaVal{Days: dateDiffDays(lhs.Date, rhs.Date)}), nil
	case lhs.Kind == VDatetime && rhs.Kind == VDatetime:
		days, h, m, s := secondsToDHMS(datetimeDiffSeconds(lhs.DT, rhs.DT))
		return TimedeltaValOf(TimedeltaVal{Days: days, Hours: h, Minutes: m, Seconds: s}), nil
	case lhs.Kind == VTime && rhs.Kind == VTime:
		h, m, s := secondsToHMS(timeDiffSeconds(lhs.Time, rhs.Time))
		return TimedeltaValOf(TimedeltaVal{Hours: h, Minutes: m, Seconds: s}), nil
	default:
		return Value{}, typeErrf("'-' not defined for %s and %s", lhs.Kind, rhs.Kind)
	}
}

func applyStar(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == VNumber && rhs.Kind == VNumber:
		return NumberVal(lhs.Num * rhs.Num), nil
	case lhs.Kind == VTimedelta && rhs.Kind == VNumber:
		return TimedeltaValOf(scaleTimedelta(lhs.TD, rhs.Num)), nil
	case lhs.Kind == VNumber && rhs.Kind == VTimedelta:
		return TimedeltaValOf(scaleTimedelta(rhs.TD, lhs.Num)), nil
	default:
		return Value{}, typeErrf("'*' not defined for %s and %s", lhs.Kind, rhs.Kind)
	}
}

func applySlash(lhs, rhs Value) (Value, error) {
	switch {
	case lhs.Kind == VNumber && rhs.Kind == VNumber:
		if rhs.Num == 0 {
			return Value{}, arithErrf("division by zero")
		}
		return NumberVal(lhs.Num / rhs.Num), nil
	case lhs.Kind == VTimedelta && rhs.Kind == VNumber:
		if rhs.Num == 0 {
			return Value{}, arithErrf("division by zero")
		}
		return TimedeltaValOf(divTimedelta(lhs.TD, rhs.Num)), nil
	default:
		return Value{}, typeErrf("'/' not defined for %s and %s", lhs.Kind, rhs.Kind)
	}
}

func addTimedeltas(a, b TimedeltaVal, sign int64) TimedeltaVal {
	return TimedeltaVal{
		Years:   a.Years + b.Years*sign,
		Months:  a.Months + b.Months*sign,
		Weeks:   a.Weeks + b.Weeks*sign,
		Days:    a.Days + b.Days*sign,
		Hours:   a.Hours + b.Hours*sign,
		Minutes: a.Minutes + b.Minutes*sign,
		Seconds: a.Seconds + b.Seconds*sign,
	}
}

func scaleTimedelta(a TimedeltaVal, n int64) TimedeltaVal {
	return TimedeltaVal{
		Years: a.Years * n, Months: a.Months * n, Weeks: a.Weeks * n, Days: a.Days * n,
		Hours: a.Hours * n, Minutes: a.Minutes * n, Seconds: a.Seconds * n,
	}
}

func divTimedelta(a TimedeltaVal, n int64) TimedeltaVal {
	return TimedeltaVal{
		Years: a.Years / n, Months: a.Months / n, Weeks: a.Weeks / n, Days: a.Days / n,
		Hours: a.Hours / n, Minutes: a.Minutes / n, Seconds: a.Seconds / n,
	}
}

func negateTimedelta(a TimedeltaVal) TimedeltaVal {
	return scaleTimedelta(a, -1)
}

// applyUnary implements unary '-' (Number, Timedelta) and '!' (Bool).
func applyUnary(op TokenType, v Value) (Value, error) {
	switch op {
	case MINUS:
		switch v.Kind {
		case VNumber:
			return NumberVal(-v.Num), nil
		case VTimedelta:
			return TimedeltaValOf(negateTimedelta(v.TD)), nil
		default:
			return Value{}, typeErrf("unary '-' not defined for %s", v.Kind)
		}
	case NOT:
		if v.Kind != VBool {
			return Value{}, typeErrf("'!' requires Bool, got %s", v.Kind)
		}
		return BoolVal(!v.Bool), nil
	default:
		return Value{}, typeErrf("unsupported unary operator %s", op)
	}
}

func valuesEqual(lhs, rhs Value) (bool, error) {
	if lhs.Kind != rhs.Kind {
		return false, typeErrf("cannot compare %s with %s for equality", lhs.Kind, rhs.Kind)
	}
	switch lhs.Kind {
	case VNumber:
		return lhs.Num == rhs.Num, nil
	case VString:
		return lhs.Str == rhs.Str, nil
	case VBool:
		return lhs.Bool == rhs.Bool, nil
	case VUnit:
		return true, nil
	case VDate:
		return lhs.Date == rhs.Date, nil
	case VTime:
		return lhs.Time == rhs.Time, nil
	case VDatetime:
		return lhs.DT == rhs.DT, nil
	case VTimedelta:
		return lhs.TD == rhs.TD, nil
	default:
		return false, typeErrf("unsupported equality on %s", lhs.Kind)
	}
}

// timedeltaOrderKey gives timedeltas a deterministic total order by
// comparing components in the same Y,M,W,D,h,m,s priority the canonical
// string form prints them in. Since a Timedelta is not normalized until
// applied to an anchor, this does not claim to reflect actual duration
// magnitude across differing units (e.g. '1Y' vs '12M') — it is simply a
// consistent, total tie-break over the raw components.
func timedeltaOrderKey(d TimedeltaVal) [7]int64 {
	return [7]int64{d.Years, d.Months, d.Weeks, d.Days, d.Hours, d.Minutes, d.Seconds}
}

func compareOrdered(lhs, rhs Value) (int, error) {
	if lhs.Kind != rhs.Kind {
		return 0, typeErrf("cannot compare %s with %s", lhs.Kind, rhs.Kind)
	}
	switch lhs.Kind {
	case VNumber:
		return cmpInt64(lhs.Num, rhs.Num), nil
	case VString:
		return cmpString(lhs.Str, rhs.Str), nil
	case VDate:
		return cmpInt64Tuple3(
			int64(lhs.Date.Year), int64(lhs.Date.Month), int64(lhs.Date.Day),
			int64(rhs.Date.Year), int64(rhs.Date.Month), int64(rhs.Date.Day),
		), nil
	case VTime:
		return cmpInt64Tuple3(
			int64(lhs.Time.Hour), int64(lhs.Time.Minute), int64(lhs.Time.Second),
			int64(rhs.Time.Hour), int64(rhs.Time.Minute), int64(rhs.Time.Second),
		), nil
	case VDatetime:
		dc := cmpInt64Tuple3(
			int64(lhs.DT.Date.Year), int64(lhs.DT.Date.Month), int64(lhs.DT.Date.Day),
			int64(rhs.DT.Date.Year), int64(rhs.DT.Date.Month), int64(rhs.DT.Date.Day),
		)
		if dc != 0 {
			return dc, nil
		}
		return cmpInt64Tuple3(
			int64(lhs.DT.Time.Hour), int64(lhs.DT.Time.Minute), int64(lhs.DT.Time.Second),
			int64(rhs.DT.Time.Hour), int64(rhs.DT.Time.Minute), int64(rhs.DT.Time.Second),
		), nil
	case VTimedelta:
		la, ra := timedeltaOrderKey(lhs.TD), timedeltaOrderKey(rhs.TD)
		for i := range la {
			if c := cmpInt64(la[i], ra[i]); c != 0 {
				return c, nil
			}
		}
		return 0, nil
	default:
		return 0, typeErrf("'<'/'>' not defined for %s", lhs.Kind)
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt64Tuple3(a1, a2, a3, b1, b2, b3 int64) int {
	if c := cmpInt64(a1, b1); c != 0 {
		return c
	}
	if c := cmpInt64(a2, b2); c != 0 {
		return c
	}
	return cmpInt64(a3, b3)
}

func applyRelational(op TokenType, lhs, rhs Value) (Value, error) {
	c, err := compareOrdered(lhs, rhs)
	if err != nil {
		return Value{}, err
	}
	var result bool
	switch op {
	case GT:
		result = c > 0
	case GE:
		result = c >= 0
	case LT:
		result = c < 0
	case LE:
		result = c <= 0
	}
	return BoolVal(result), nil
}

// fieldAccess implements the `.field` operator of the operator matrix (spec
// §4.3 Field access table).
func fieldAccess(v Value, field string) (Value, error) {
	switch v.Kind {
	case VTimedelta:
		switch field {
		case "years":
			return NumberVal(v.TD.Years), nil
		case "months":
			return NumberVal(v.TD.Months), nil
		case "weeks":
			return NumberVal(v.TD.Weeks), nil
		case "days":
			return NumberVal(v.TD.Days), nil
		case "hours":
			return NumberVal(v.TD.Hours), nil
		case "minutes":
			return NumberVal(v.TD.Minutes), nil
		case "seconds":
			return NumberVal(v.TD.Seconds), nil
		}
	case VDate:
		switch field {
		case "years":
			return NumberVal(int64(v.Date.Year)), nil
		case "months":
			return NumberVal(int64(v.Date.Month)), nil
		case "days":
			return NumberVal(int64(v.Date.Day)), nil
		}
	case VTime:
		switch field {
		case "hours":
			return NumberVal(int64(v.Time.Hour)), nil
		case "minutes":
			return NumberVal(int64(v.Time.Minute)), nil
		case "seconds":
			return NumberVal(int64(v.Time.Second)), nil
		}
	case VDatetime:
		switch field {
		case "years":
			return NumberVal(int64(v.DT.Date.Year)), nil
		case "months":
			return NumberVal(int64(v.DT.Date.Month)), nil
		case "days":
			return NumberVal(int64(v.DT.Date.Day)), nil
		case "hours":
			return NumberVal(int64(v.DT.Time.Hour)), nil
		case "minutes":
			return NumberVal(int64(v.DT.Time.Minute)), nil
		case "seconds":
			return NumberVal(int64(v.DT.Time.Second)), nil
		}
	}
	return Value{}, typeErrf("%s has no field '%s'", v.Kind, field)
}

// stepTimedelta builds the single-unit-of-1 Timedelta used by a `from` loop
// (spec §4.4) and validates that the unit applies to the loop's temporal
// variant (spec: "Step unit incompatible with operand variant ⇒ error").
func stepTimedelta(unit TokenType, anchorKind ValueKind) (TimedeltaVal, error) {
	name, ok := stepUnitByToken[unit]
	if !ok {
		return TimedeltaVal{}, typeErrf("invalid step unit %s", unit)
	}
	switch anchorKind {
	case VDate:
		switch name {
		case "years", "months", "weeks", "days":
		default:
			return TimedeltaVal{}, typeErrf("step unit '%s' is incompatible with Date", name)
		}
	case VTime:
		switch name {
		case "hours", "minutes", "seconds":
		default:
			return TimedeltaVal{}, typeErrf("step unit '%s' is incompatible with Time", name)
		}
	case VDatetime:
		// all seven units are meaningful on a Datetime cursor
	default:
		return TimedeltaVal{}, typeErrf("'from' requires a Date, Time, or Datetime range, got %s", anchorKind)
	}
	td := TimedeltaVal{}
	switch name {
	case "years":
		td.Years = 1
	case "months":
		td.Months = 1
	case "weeks":
		td.Weeks = 1
	case "days":
		td.Days = 1
	case "hours":
		td.Hours = 1
	case "minutes":
		td.Minutes = 1
	case "seconds":
		td.Seconds = 1
	}
	return td, nil
}
