// Package period holds the period and prediction records shown on the
// calendar and the wire shapes the store exchanges for them.
package period

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tableflip.dev/cycle/pkg/interval"
)

var (
	ErrMissingID      = errors.New("period: record id required")
	ErrMissingStart   = errors.New("period: start date required")
	ErrEndBeforeStart = errors.New("period: end date before start date")
)

// Phase names reported by the store for the current cycle.
const (
	PhaseMenstrual  = "menstrual"
	PhaseFollicular = "follicular"
	PhaseOvulation  = "ovulation"
	PhaseLuteal     = "luteal"
	PhaseUnknown    = "unknown"
)

// Record is a period as returned by the store. EndDate is nil while the
// period is ongoing.
type Record struct {
	ID        string  `json:"id"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// PredictionRecord is a predicted period as returned by the store.
type PredictionRecord struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// CycleStatus carries the phase the theme selector keys off.
type CycleStatus struct {
	CurrentPhase string `json:"currentPhase"`
}

// Candidate is a not-yet-committed period sent to the store.
type Candidate struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewCandidate builds the wire candidate for r.
func NewCandidate(r interval.Range) Candidate {
	return Candidate{Start: interval.Key(r.Start), End: interval.Key(r.End)}
}

// Range parses the candidate back into a day range.
func (c Candidate) Range(loc *time.Location) (interval.Range, error) {
	start, err := interval.ParseDay(c.Start, loc)
	if err != nil {
		return interval.Range{}, err
	}
	end, err := interval.ParseDay(c.End, loc)
	if err != nil {
		return interval.Range{}, err
	}
	if end.Before(start) {
		return interval.Range{}, ErrEndBeforeStart
	}
	return interval.Range{Start: start, End: end}, nil
}

// Period is a logged period. For an ongoing period End is the day the record
// was fetched and Ongoing is set; End is not a real end date in that case.
type Period struct {
	ID      string
	Start   time.Time
	End     time.Time
	Ongoing bool
}

// Range returns the period as a day range.
func (p Period) Range() interval.Range {
	return interval.Range{Start: p.Start, End: p.End}
}

func (p Period) String() string {
	if p.Ongoing {
		return fmt.Sprintf("%s %s..", p.ID, interval.Key(p.Start))
	}
	return fmt.Sprintf("%s %s", p.ID, p.Range())
}

// Prediction is a predicted period.
type Prediction struct {
	Start time.Time
	End   time.Time
}

// Range returns the prediction as a day range.
func (p Prediction) Range() interval.Range {
	return interval.Range{Start: p.Start, End: p.End}
}

// Parse converts a store record into a Period. today stands in for the end
// of an ongoing period.
func Parse(rec Record, today time.Time) (Period, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return Period{}, ErrMissingID
	}
	if strings.TrimSpace(rec.StartDate) == "" {
		return Period{}, fmt.Errorf("%w: %s", ErrMissingStart, id)
	}
	loc := today.Location()
	start, err := interval.ParseDay(rec.StartDate, loc)
	if err != nil {
		return Period{}, err
	}
	p := Period{ID: id, Start: start}
	if rec.EndDate == nil || strings.TrimSpace(*rec.EndDate) == "" {
		p.End = interval.Day(today)
		p.Ongoing = true
		return p, nil
	}
	end, err := interval.ParseDay(*rec.EndDate, loc)
	if err != nil {
		return Period{}, err
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("%w: %s", ErrEndBeforeStart, id)
	}
	p.End = end
	return p, nil
}

// ParseAll converts records into periods sorted by start date. Records that
// fail to parse are returned as errors alongside the ones that parsed.
func ParseAll(recs []Record, today time.Time) ([]Period, []error) {
	periods := make([]Period, 0, len(recs))
	var errs []error
	for _, rec := range recs {
		p, err := Parse(rec, today)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		periods = append(periods, p)
	}
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Start.Before(periods[j].Start)
	})
	return periods, errs
}

// ParsePrediction converts a store prediction record.
func ParsePrediction(rec PredictionRecord, loc *time.Location) (Prediction, error) {
	start, err := interval.ParseDay(rec.StartDate, loc)
	if err != nil {
		return Prediction{}, err
	}
	end, err := interval.ParseDay(rec.EndDate, loc)
	if err != nil {
		return Prediction{}, err
	}
	if end.Before(start) {
		return Prediction{}, ErrEndBeforeStart
	}
	return Prediction{Start: start, End: end}, nil
}

// ParsePredictions converts prediction records, skipping malformed ones.
func ParsePredictions(recs []PredictionRecord, loc *time.Location) ([]Prediction, []error) {
	out := make([]Prediction, 0, len(recs))
	var errs []error
	for _, rec := range recs {
		p, err := ParsePrediction(rec, loc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, p)
	}
	return out, errs
}

// Find returns the period with the given id.
func Find(periods []Period, id string) (Period, bool) {
	for _, p := range periods {
		if p.ID == id {
			return p, true
		}
	}
	return Period{}, false
}

// At returns the first period whose interval contains d.
func At(periods []Period, d time.Time) (Period, bool) {
	for _, p := range periods {
		if p.Range().Contains(d) {
			return p, true
		}
	}
	return Period{}, false
}

// Ranges returns the day ranges of the given periods.
func Ranges(periods []Period) []interval.Range {
	out := make([]interval.Range, len(periods))
	for i, p := range periods {
		out[i] = p.Range()
	}
	return out
}

// PredictionRanges returns the day ranges of the given predictions.
func PredictionRanges(predictions []Prediction) []interval.Range {
	out := make([]interval.Range, len(predictions))
	for i, p := range predictions {
		out[i] = p.Range()
	}
	return out
}
