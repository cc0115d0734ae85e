package series

import "fmt"

// Days of the week, numbered from 1 as in the reference data.
const (
	Sunday   = 1
	Monday   = 2
	Saturday = 7
)

// ValidateDayOfWeek returns ErrConfiguration unless day is in [1,7].
func ValidateDayOfWeek(day int) error {
	if day < Sunday || day > Saturday {
		return fmt.Errorf("%w: day of week %d must be between 1 (Sunday) and 7 (Saturday)", ErrConfiguration, day)
	}
	return nil
}

// IsWeekend returns true for Saturday and Sunday.
func IsWeekend(day int) bool {
	return day == Sunday || day == Saturday
}

// NextDayOfWeek advances day by one, wrapping Saturday to Sunday.
func NextDayOfWeek(day int) int {
	if day >= Saturday {
		return Sunday
	}
	return day + 1
}

// SlotOfDay returns the 10-minute slot (0-143) containing the given minute of the year.
func SlotOfDay(minute int) int {
	return (minute % MinutesPerDay) / 10
}
