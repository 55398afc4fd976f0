package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := On(time.Date(2025, 7, 31, 23, 59, 0, 0, time.UTC))

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	got := New(2025, 2, 30)
	want := New(2025, 3, 2)
	if got != want {
		t.Errorf("New(2025, 2, 30) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "2025-07-01", want: "2025-07-01"},
		{input: "2025-7-1", want: "2025-07-01"},
		{input: "2024-12-31", want: "2024-12-31"},
		{input: "", wantErr: true},
		{input: "01/07/2025", wantErr: true},
		{input: "2025-13-01", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tc.input, err)
			}
			if got.String() != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	if !(Date{}).IsZero() {
		t.Errorf("Date{}.IsZero() = false, want true")
	}
	if MustParse("2025-01-01").IsZero() {
		t.Errorf("MustParse(2025-01-01).IsZero() = true, want false")
	}
}

func TestBeforeAfter(t *testing.T) {
	a, b := MustParse("2025-01-01"), MustParse("2025-01-02")
	if !a.Before(b) || a.After(b) {
		t.Errorf("%v should be before %v", a, b)
	}
	if !b.After(a) || b.Before(a) {
		t.Errorf("%v should be after %v", b, a)
	}
}

func TestJSON(t *testing.T) {
	in := struct {
		On Date `json:"on"`
	}{On: MustParse("2025-03-04")}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal() failed: %v", err)
	}
	if got, want := string(data), `{"on":"2025-03-04"}`; got != want {
		t.Errorf("json.Marshal() = %s, want %s", got, want)
	}

	var out struct {
		On Date `json:"on"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if out.On != in.On {
		t.Errorf("json round trip = %v, want %v", out.On, in.On)
	}

	if err := json.Unmarshal([]byte(`{"on":"not a date"}`), &out); err == nil {
		t.Errorf("json.Unmarshal() of an invalid date succeeded, want error")
	}
}
