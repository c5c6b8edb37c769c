package services

import (
	"sort"
	"strconv"

	"tableside-backend/models"
)

const (
	DefaultSeatCount = 12
	// MaxSeatNumber caps counts and range bounds; labels must fit Seat.Label.
	MaxSeatNumber = 999
)

// SeatSpec says which seats to create: an explicit inclusive range when
// HasRange, otherwise Count seats labelled "1".."Count".
type SeatSpec struct {
	HasRange bool
	Start    int
	End      int
	Count    int
}

// ParseSeatSpec validates the start/end/count triple a staff member sends
// when starting or joining an order. Nil means "not supplied".
func ParseSeatSpec(start, end, count *int) (SeatSpec, error) {
	spec := SeatSpec{Count: DefaultSeatCount}

	if count != nil {
		if *count < 1 {
			return SeatSpec{}, validationf("The number of seats must be at least 1.")
		}
		if *count > MaxSeatNumber {
			return SeatSpec{}, validationf("The number of seats cannot be more than %d.", MaxSeatNumber)
		}
		spec.Count = *count
	}

	if (start == nil) != (end == nil) {
		return SeatSpec{}, validationf("Both first and last seat numbers must be filled or both left empty.")
	}
	if start == nil {
		return spec, nil
	}

	if *start < 1 || *end < 1 {
		return SeatSpec{}, validationf("Seat numbers must be at least 1.")
	}
	if *start > MaxSeatNumber || *end > MaxSeatNumber {
		return SeatSpec{}, validationf("Seat numbers cannot be greater than %d.", MaxSeatNumber)
	}
	if *start > *end {
		return SeatSpec{}, validationf("The first seat number cannot be greater than the last seat number.")
	}
	if count != nil && *end > *count {
		return SeatSpec{}, validationf("The seat range cannot exceed the total number of seats you entered.")
	}

	spec.HasRange = true
	spec.Start = *start
	spec.End = *end
	return spec, nil
}

// Numbers lists the seat numbers the seat spec covers, ascending.
func (s SeatSpec) Numbers() []int {
	lo, hi := 1, s.Count
	if s.HasRange {
		lo, hi = s.Start, s.End
	}
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

// numericLabel reports whether label is all ASCII digits and its value.
func numericLabel(label string) (int, bool) {
	if label == "" {
		return 0, false
	}
	for _, r := range label {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NumericLabels returns the set of numeric labels; other labels are ignored.
func NumericLabels(labels []string) map[int]struct{} {
	out := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		if n, ok := numericLabel(l); ok {
			out[n] = struct{}{}
		}
	}
	return out
}

// NextSeatLabel is max(numeric labels, default 0) + 1.
func NextSeatLabel(labels []string) string {
	max := 0
	for _, l := range labels {
		if n, ok := numericLabel(l); ok && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// seatLess orders numeric labels numerically ahead of all non-numeric
// labels, which compare lexically.
func seatLess(a, b string) bool {
	na, aok := numericLabel(a)
	nb, bok := numericLabel(b)
	switch {
	case aok && bok:
		if na != nb {
			return na < nb
		}
		return a < b
	case aok:
		return true
	case bok:
		return false
	default:
		return a < b
	}
}

// SortLabels sorts labels in display order.
func SortLabels(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool { return seatLess(labels[i], labels[j]) })
}

// SortSeats sorts seats in display order.
func SortSeats(seats []models.Seat) {
	sort.SliceStable(seats, func(i, j int) bool { return seatLess(seats[i].Label, seats[j].Label) })
}

// SeatRange is an inclusive visibility filter on numeric labels.
type SeatRange struct {
	Start int
	End   int
}

// FilterSeats keeps the seats visible under r. With a range only numeric
// labels inside it survive; without one every seat does.
func FilterSeats(seats []models.Seat, r *SeatRange) []models.Seat {
	if r == nil {
		return seats
	}
	out := make([]models.Seat, 0, len(seats))
	for _, s := range seats {
		if n, ok := numericLabel(s.Label); ok && n >= r.Start && n <= r.End {
			out = append(out, s)
		}
	}
	return out
}
