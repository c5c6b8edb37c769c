package services

import (
	"errors"
	"math"
	"testing"

	"tableside-backend/models"
)

func TestParseSeatSpec(t *testing.T) {
	tests := []struct {
		name       string
		start, end *int
		count      *int
		wantErr    bool
		wantNums   []int
	}{
		{name: "defaults to twelve seats", wantNums: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{name: "count only", count: intPtr(4), wantNums: []int{1, 2, 3, 4}},
		{name: "range", start: intPtr(5), end: intPtr(7), wantNums: []int{5, 6, 7}},
		{name: "single seat range", start: intPtr(3), end: intPtr(3), wantNums: []int{3}},
		{name: "range within count", start: intPtr(1), end: intPtr(4), count: intPtr(4), wantNums: []int{1, 2, 3, 4}},
		{name: "start without end", start: intPtr(5), wantErr: true},
		{name: "end without start", end: intPtr(5), wantErr: true},
		{name: "start after end", start: intPtr(7), end: intPtr(5), wantErr: true},
		{name: "zero start", start: intPtr(0), end: intPtr(3), wantErr: true},
		{name: "range beyond count", start: intPtr(1), end: intPtr(5), count: intPtr(4), wantErr: true},
		{name: "zero count", count: intPtr(0), wantErr: true},
		{name: "largest count", count: intPtr(MaxSeatNumber), wantNums: seatRange(1, MaxSeatNumber)},
		{name: "count above max", count: intPtr(MaxSeatNumber + 1), wantErr: true},
		{name: "huge count", count: intPtr(math.MaxInt), wantErr: true},
		{name: "range end above max", start: intPtr(1), end: intPtr(MaxSeatNumber + 1), wantErr: true},
		{name: "huge range", start: intPtr(1), end: intPtr(math.MaxInt), wantErr: true},
		{name: "both bounds above max", start: intPtr(math.MaxInt - 1), end: intPtr(math.MaxInt), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseSeatSpec(tt.start, tt.end, tt.count)
			if tt.wantErr {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := spec.Numbers()
			if len(got) != len(tt.wantNums) {
				t.Fatalf("Numbers() = %v, want %v", got, tt.wantNums)
			}
			for i := range got {
				if got[i] != tt.wantNums[i] {
					t.Fatalf("Numbers() = %v, want %v", got, tt.wantNums)
				}
			}
		})
	}
}

func seatRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func TestNextSeatLabel(t *testing.T) {
	tests := []struct {
		labels []string
		want   string
	}{
		{nil, "1"},
		{[]string{"1", "3", "5"}, "6"},
		{[]string{"A", "B"}, "1"},
		{[]string{"2", "10", "X"}, "11"},
		{[]string{"-4", "2"}, "3"},
	}
	for _, tt := range tests {
		if got := NextSeatLabel(tt.labels); got != tt.want {
			t.Errorf("NextSeatLabel(%v) = %q, want %q", tt.labels, got, tt.want)
		}
	}
}

func TestSortLabels(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"10", "2", "A", "1"}, []string{"1", "2", "10", "A"}},
		{[]string{"B", "A", "3"}, []string{"3", "A", "B"}},
		{[]string{"12", "9", "100"}, []string{"9", "12", "100"}},
	}
	for _, tt := range tests {
		got := append([]string(nil), tt.in...)
		SortLabels(got)
		if !equalStrings(got, tt.want) {
			t.Errorf("SortLabels(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNumericLabels(t *testing.T) {
	got := NumericLabels([]string{"1", "04", "A", "-2", "", "١"})
	if len(got) != 2 {
		t.Fatalf("expected 2 numeric labels, got %v", got)
	}
	for _, n := range []int{1, 4} {
		if _, ok := got[n]; !ok {
			t.Errorf("expected %d in %v", n, got)
		}
	}
}

func TestFilterSeats(t *testing.T) {
	seats := []models.Seat{{Label: "1"}, {Label: "2"}, {Label: "3"}, {Label: "7"}, {Label: "A"}}

	if got := FilterSeats(seats, nil); len(got) != len(seats) {
		t.Fatalf("no filter should keep all seats, got %d", len(got))
	}

	got := FilterSeats(seats, &SeatRange{Start: 2, End: 3})
	labels := make([]string, 0, len(got))
	for _, s := range got {
		labels = append(labels, s.Label)
	}
	if !equalStrings(labels, []string{"2", "3"}) {
		t.Fatalf("FilterSeats(2..3) = %v", labels)
	}
}

func TestSeatOverlapErrorSortsLabels(t *testing.T) {
	err := seatOverlapError([]int{4, 3})
	if err.Message != "The seats 3, 4 already exist in this order. Pick a different range." {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if len(err.Labels) != 2 || err.Labels[0] != 3 || err.Labels[1] != 4 {
		t.Fatalf("unexpected labels %v", err.Labels)
	}
}
