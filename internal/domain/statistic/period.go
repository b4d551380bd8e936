package statistic

import (
	"fmt"
	"time"

	"github.com/kudoshq/backend/pkg/dateutil"
)

// Period is a leaderboard time window. Bounded periods rank fresh ledger
// sums inside [Start, End); the unbounded all-time period ranks the
// materialized totals instead.
type Period interface {
	Name() string
	Key() string
	Bounded() bool
	Start() time.Time
	End() time.Time

	// Previous returns the immediately preceding window, used for the
	// previous-rank column. Nil for the all-time period.
	Previous() Period
}

func ToPeriod(name string, current time.Time) (Period, error) {
	switch name {
	case "daily":
		return PeriodDay{current: current}, nil
	case "weekly":
		return PeriodWeek{current: current}, nil
	case "monthly":
		return PeriodMonth{current: current}, nil
	case "all":
		return PeriodAll{}, nil
	}

	return nil, fmt.Errorf("invalid period, expected daily, weekly, monthly, or all, but got %s", name)
}

type PeriodDay struct {
	current time.Time
}

func NewPeriodDay(current time.Time) PeriodDay {
	return PeriodDay{current: current}
}

func (p PeriodDay) Name() string { return "daily" }

func (p PeriodDay) Key() string {
	return fmt.Sprintf("daily:%s", p.Start().Format(dateutil.DayFormat))
}

func (p PeriodDay) Bounded() bool { return true }

func (p PeriodDay) Start() time.Time {
	return dateutil.CurrentDay(p.current)
}

func (p PeriodDay) End() time.Time {
	return p.Start().AddDate(0, 0, 1)
}

func (p PeriodDay) Previous() Period {
	return PeriodDay{current: dateutil.LastDay(p.Start())}
}

type PeriodWeek struct {
	current time.Time
}

func NewPeriodWeek(current time.Time) PeriodWeek {
	return PeriodWeek{current: current}
}

func (p PeriodWeek) Name() string { return "weekly" }

func (p PeriodWeek) Key() string {
	year, week := p.Start().ISOWeek()
	return fmt.Sprintf("weekly:%d:%d", week, year)
}

func (p PeriodWeek) Bounded() bool { return true }

func (p PeriodWeek) Start() time.Time {
	return dateutil.CurrentWeek(p.current)
}

func (p PeriodWeek) End() time.Time {
	return p.Start().AddDate(0, 0, 7)
}

func (p PeriodWeek) Previous() Period {
	return PeriodWeek{current: dateutil.LastWeek(p.Start())}
}

type PeriodMonth struct {
	current time.Time
}

func NewPeriodMonth(current time.Time) PeriodMonth {
	return PeriodMonth{current: current}
}

func (p PeriodMonth) Name() string { return "monthly" }

func (p PeriodMonth) Key() string {
	return fmt.Sprintf("monthly:%s:%d", p.Start().Month(), p.Start().Year())
}

func (p PeriodMonth) Bounded() bool { return true }

func (p PeriodMonth) Start() time.Time {
	return dateutil.CurrentMonth(p.current)
}

func (p PeriodMonth) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

func (p PeriodMonth) Previous() Period {
	return PeriodMonth{current: dateutil.LastMonth(p.Start())}
}

type PeriodAll struct{}

func NewPeriodAll() PeriodAll { return PeriodAll{} }

func (p PeriodAll) Name() string { return "all" }

func (p PeriodAll) Key() string { return "all" }

func (p PeriodAll) Bounded() bool { return false }

func (p PeriodAll) Start() time.Time { return time.Time{} }

func (p PeriodAll) End() time.Time { return time.Time{} }

func (p PeriodAll) Previous() Period { return nil }
