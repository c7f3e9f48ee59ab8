package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// window covers whole UTC days as the half-open range [start, end).
type window struct {
	start time.Time
	end   time.Time
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// newWindow swaps reversed bounds and widens them to whole days. end is the
// midnight after the last included day.
func newWindow(start, end time.Time) window {
	start, end = start.UTC(), end.UTC()
	if start.After(end) {
		start, end = end, start
	}
	return window{
		start: dateOnly(start),
		end:   dateOnly(end).Add(day),
	}
}

func (w window) days() int {
	return int(w.end.Sub(w.start) / day)
}

// previous is the equal-length window ending where w starts.
func (w window) previous() window {
	length := time.Duration(w.days()) * day
	return window{
		start: w.start.Add(-length),
		end:   w.start,
	}
}

func granularityFor(days int) Granularity {
	switch {
	case days <= 1:
		return Hourly
	case days <= 31:
		return Daily
	case days <= 180:
		return Weekly
	default:
		return Monthly
	}
}

// bucketStart maps t to the start of its bucket. Weekly buckets are 7-day
// strides counted from January 1st, so the last bucket of a year is short.
func bucketStart(g Granularity, t time.Time) time.Time {
	t = t.UTC()
	switch g {
	case Hourly:
		return t.Truncate(time.Hour)
	case Weekly:
		offset := (t.YearDay() - 1) / 7 * 7
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return dateOnly(t)
	}
}

func nextBucket(g Granularity, b time.Time) time.Time {
	switch g {
	case Hourly:
		return b.Add(time.Hour)
	case Weekly:
		next := b.AddDate(0, 0, 7)
		if next.Year() != b.Year() {
			return time.Date(next.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		}
		return next
	case Monthly:
		return b.AddDate(0, 1, 0)
	default:
		return b.AddDate(0, 0, 1)
	}
}

func bucketLabel(g Granularity, b time.Time) string {
	switch g {
	case Hourly:
		return b.Format("15:04")
	case Monthly:
		return b.Format("2006-01")
	default:
		return b.Format("2006-01-02")
	}
}

// buckets enumerates every bucket overlapping w, in order.
func buckets(g Granularity, w window) []time.Time {
	var out []time.Time
	for b := bucketStart(g, w.start); b.Before(w.end); b = nextBucket(g, b) {
		out = append(out, b)
	}
	return out
}

// buildSeries counts placed orders by order date and sums delivered revenue by
// delivered date. Every bucket of the window is present, zero-filled.
func buildSeries(w window, placed, delivered []Order) *TimeSeries {
	g := granularityFor(w.days())
	starts := buckets(g, w)

	index := make(map[time.Time]int, len(starts))
	labels := make([]string, len(starts))
	for i, b := range starts {
		index[b] = i
		labels[i] = bucketLabel(g, b)
	}

	orders := make([]float64, len(starts))
	for _, o := range placed {
		if i, ok := index[bucketStart(g, o.OrderDate)]; ok {
			orders[i]++
		}
	}

	revenue := make([]decimal.Decimal, len(starts))
	for _, o := range delivered {
		if o.Status != StatusDelivered || o.DeliveredDate == nil {
			continue
		}
		if i, ok := index[bucketStart(g, *o.DeliveredDate)]; ok {
			revenue[i] = revenue[i].Add(o.Total)
		}
	}

	revenueData := make([]float64, len(revenue))
	for i, r := range revenue {
		revenueData[i] = r.InexactFloat64()
	}

	return &TimeSeries{
		Granularity: g,
		Labels:      labels,
		Series: []Series{
			{Name: "Revenue", Data: revenueData},
			{Name: "Orders", Data: orders},
		},
	}
}
