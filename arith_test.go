package timon

import "testing"

func mustDate(t *testing.T, day, month, year int) DateVal {
	t.Helper()
	d, err := newDate(day, month, year)
	if err != nil {
		t.Fatalf("newDate(%d,%d,%d): %v", day, month, year, err)
	}
	return d
}

func TestNumberArithmeticTruncates(t *testing.T) {
	v, err := applyBinary(SLASH, NumberVal(7), NumberVal(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 3 {
		t.Fatalf("expected truncating division to give 3, got %d", v.Num)
	}

	v, err = applyBinary(SLASH, NumberVal(-7), NumberVal(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != -3 {
		t.Fatalf("expected -7/2 to truncate toward zero to -3, got %d", v.Num)
	}
}

func TestDivisionByZeroIsArithmeticError(t *testing.T) {
	_, err := applyBinary(SLASH, NumberVal(1), NumberVal(0))
	oe, ok := err.(*opError)
	if !ok || oe.kind != "Arithmetic" {
		t.Fatalf("expected an Arithmetic opError, got %#v", err)
	}
}

func TestDateMonthEndClamping(t *testing.T) {
	jan31 := mustDate(t, 31, 1, 2023)
	result, err := applyTimedeltaToDate(jan31, TimedeltaVal{Months: 1}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Day != 28 || result.Month != 2 || result.Year != 2023 {
		t.Fatalf("expected Jan 31 + 1 month to clamp to Feb 28 2023, got %+v", result)
	}
}

func TestDateMonthEndClampingLeapYear(t *testing.T) {
	jan31 := mustDate(t, 31, 1, 2024)
	result, err := applyTimedeltaToDate(jan31, TimedeltaVal{Months: 1}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Day != 29 || result.Month != 2 || result.Year != 2024 {
		t.Fatalf("expected Jan 31 2024 + 1 month to clamp to Feb 29 2024, got %+v", result)
	}
}

func TestTimePlusTimedeltaWrapsWithoutDayCarry(t *testing.T) {
	t23 := TimeVal{Hour: 23, Minute: 30, Second: 0}
	result := applyTimedeltaToTime(t23, TimedeltaVal{Hours: 1}, 1)
	if result.Hour != 0 || result.Minute != 30 || result.Second != 0 {
		t.Fatalf("expected 23:30 + 1h to wrap to 00:30 with day overflow discarded, got %+v", result)
	}
}

func TestDateMonthsComponentDoesNotAddYears(t *testing.T) {
	d := mustDate(t, 15, 6, 2023)
	result, err := applyTimedeltaToDate(d, TimedeltaVal{Months: 1}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Day != 15 || result.Month != 7 || result.Year != 2023 {
		t.Fatalf("expected 15.06.2023 + 1 month to be 15.07.2023, got %+v", result)
	}
}

func TestDateMonthsComponentRollsOverYearBoundary(t *testing.T) {
	d := mustDate(t, 15, 12, 2023)
	result, err := applyTimedeltaToDate(d, TimedeltaVal{Months: 2}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Day != 15 || result.Month != 2 || result.Year != 2024 {
		t.Fatalf("expected 15.12.2023 + 2 months to roll over into 15.02.2024, got %+v", result)
	}
}

func TestDateMinusDateGivesTimedeltaInDays(t *testing.T) {
	a := mustDate(t, 10, 3, 2024)
	b := mustDate(t, 1, 3, 2024)
	td := dateDiffDays(a, b)
	if td != 9 {
		t.Fatalf("expected 9 days between 2024-03-01 and 2024-03-10, got %d", td)
	}
}

func TestTimedeltaFieldAccess(t *testing.T) {
	v := TimedeltaValOf(TimedeltaVal{Years: 1, Days: 5})
	years, err := fieldAccess(v, "years")
	if err != nil || years.Num != 1 {
		t.Fatalf("expected years field 1, got %+v err=%v", years, err)
	}
	days, err := fieldAccess(v, "days")
	if err != nil || days.Num != 5 {
		t.Fatalf("expected days field 5, got %+v err=%v", days, err)
	}
}

func TestFieldAccessRejectsWrongVariant(t *testing.T) {
	v := DateValOf(mustDate(t, 1, 1, 2024))
	if _, err := fieldAccess(v, "hours"); err == nil {
		t.Fatalf("expected error accessing 'hours' on a Date")
	}
}

func TestEqualityAcrossKindsIsTypeError(t *testing.T) {
	_, err := applyBinary(EQ, NumberVal(1), StringVal("1"))
	if err == nil {
		t.Fatalf("expected TypeError comparing Number to String")
	}
}

func TestRelationalOrderingOnDates(t *testing.T) {
	early := DateValOf(mustDate(t, 1, 1, 2024))
	late := DateValOf(mustDate(t, 2, 1, 2024))
	v, err := applyBinary(LT, early, late)
	if err != nil || !v.Bool {
		t.Fatalf("expected 1.1.2024 < 2.1.2024 to be true, got %+v err=%v", v, err)
	}
}

func TestStepTimedeltaRejectsIncompatibleUnit(t *testing.T) {
	if _, err := stepTimedelta(HOURS, VDate); err == nil {
		t.Fatalf("expected error stepping a Date range by hours")
	}
	if _, err := stepTimedelta(DAYS, VDate); err != nil {
		t.Fatalf("unexpected error stepping a Date range by days: %v", err)
	}
}
