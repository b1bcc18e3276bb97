package handlers

import (
	"github.com/habitflow/habitflow/internal/habits"
)

const dateLayout = "2006-01-02"

// CalendarDayView is the wire form of one calendar day.
type CalendarDayView struct {
	Date                   string  `json:"date"`
	IsPlanned              bool    `json:"is_planned"`
	ActualValue            int     `json:"actual_value"`
	TargetValueSnapshot    *int    `json:"target_value_snapshot,omitempty"`
	CompletionModeSnapshot *byte   `json:"completion_mode_snapshot,omitempty"`
	HabitTypeSnapshot      *byte   `json:"habit_type_snapshot,omitempty"`
	DailyScore             float64 `json:"daily_score"`
}

// CalendarView is the wire form of a habit calendar.
type CalendarView struct {
	HabitID int               `json:"habit_id"`
	From    string            `json:"from"`
	To      string            `json:"to"`
	Days    []CalendarDayView `json:"days"`
}

func calendarResponse(c *habits.Calendar) CalendarView {
	days := make([]CalendarDayView, 0, len(c.Days))
	for _, d := range c.Days {
		view := CalendarDayView{
			Date:        d.Date.Format(dateLayout),
			IsPlanned:   d.IsPlanned,
			ActualValue: d.ActualValue,
			DailyScore:  d.DailyScore,
		}
		view.TargetValueSnapshot = d.TargetValueSnapshot
		if d.CompletionModeSnapshot != nil {
			mode := byte(*d.CompletionModeSnapshot)
			view.CompletionModeSnapshot = &mode
		}
		if d.HabitTypeSnapshot != nil {
			typ := byte(*d.HabitTypeSnapshot)
			view.HabitTypeSnapshot = &typ
		}
		days = append(days, view)
	}
	return CalendarView{
		HabitID: c.HabitID,
		From:    c.From.Format(dateLayout),
		To:      c.To.Format(dateLayout),
		Days:    days,
	}
}

// ProgressPointView is the wire form of one rolling progress point.
type ProgressPointView struct {
	Date          string  `json:"date"`
	PlannedDays   int     `json:"planned_days"`
	SumDailyScore float64 `json:"sum_daily_score"`
	SuccessRate   float64 `json:"success_rate"`
}

// ProgressView is the wire form of a rolling progress series.
type ProgressView struct {
	HabitID    int                 `json:"habit_id"`
	WindowDays int                 `json:"window_days"`
	Until      string              `json:"until"`
	Points     []ProgressPointView `json:"points"`
}

func progressResponse(p *habits.RollingProgress) ProgressView {
	points := make([]ProgressPointView, 0, len(p.Points))
	for _, pt := range p.Points {
		points = append(points, ProgressPointView{
			Date:          pt.Date.Format(dateLayout),
			PlannedDays:   pt.PlannedDays,
			SumDailyScore: pt.SumDailyScore,
			SuccessRate:   pt.SuccessRate,
		})
	}
	return ProgressView{
		HabitID:    p.HabitID,
		WindowDays: p.WindowDays,
		Until:      p.Until.Format(dateLayout),
		Points:     points,
	}
}

// TodayItemView is the wire form of one planned habit for a date.
type TodayItemView struct {
	HabitID        int     `json:"habit_id"`
	Title          string  `json:"title"`
	Type           byte    `json:"type"`
	CompletionMode byte    `json:"completion_mode"`
	TargetValue    int     `json:"target_value"`
	TargetUnit     *string `json:"target_unit,omitempty"`
	IsPlanned      bool    `json:"is_planned"`
	HasCheckin     bool    `json:"has_checkin"`
}

// TodayResponse is the wire form of the today view.
type TodayResponse struct {
	Date  string          `json:"date"`
	Items []TodayItemView `json:"items"`
}

func todayResponse(v *habits.TodayView) TodayResponse {
	items := make([]TodayItemView, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, TodayItemView{
			HabitID:        it.HabitID,
			Title:          it.Title,
			Type:           byte(it.Type),
			CompletionMode: byte(it.CompletionMode),
			TargetValue:    it.TargetValue,
			TargetUnit:     it.TargetUnit,
			IsPlanned:      it.IsPlanned,
			HasCheckin:     it.HasCheckin,
		})
	}
	return TodayResponse{Date: v.Date.Format(dateLayout), Items: items}
}
