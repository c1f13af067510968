package calendar

// DefaultStep is the slot spacing used when a configured step is missing or malformed.
const DefaultStep = 30

// EnumerateSlots lists the bookable times of day from start to end inclusive,
// spaced step minutes apart. A non-positive step falls back to DefaultStep and a
// start later than end yields no slots.
func EnumerateSlots(start, end string, step int) ([]string, error) {
	from, err := ParseClock(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseClock(end)
	if err != nil {
		return nil, err
	}
	if step <= 0 {
		step = DefaultStep
	}
	if from > to {
		return []string{}, nil
	}

	slots := make([]string, 0, (to-from)/step+1)
	for minute := from; minute <= to; minute += step {
		slots = append(slots, FormatClock(minute))
	}
	return slots, nil
}
