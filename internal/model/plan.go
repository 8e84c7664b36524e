package model

import "time"

// WeeklyPlan holds the theme, focus area and per-day intentions for one
// week. Exactly one row exists per (user, week start); WeekStartDate is
// always a Monday.
type WeeklyPlan struct {
	ID            uint    `gorm:"primaryKey"`
	UserID        uint    `gorm:"index:idx_plans_user_week,unique"`
	WeekStartDate DateKey `gorm:"index:idx_plans_user_week,unique;type:varchar(10)"`
	WeekTheme     string
	FocusArea     string
	MondayPlan    string
	TuesdayPlan   string
	WednesdayPlan string
	ThursdayPlan  string
	FridayPlan    string
	SaturdayPlan  string
	SundayPlan    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DayPlans returns the seven day fields in Monday..Sunday order.
func (p *WeeklyPlan) DayPlans() [7]string {
	return [7]string{
		p.MondayPlan, p.TuesdayPlan, p.WednesdayPlan, p.ThursdayPlan,
		p.FridayPlan, p.SaturdayPlan, p.SundayPlan,
	}
}

// SetDayPlans replaces the seven day fields from Monday..Sunday order.
func (p *WeeklyPlan) SetDayPlans(days [7]string) {
	p.MondayPlan = days[0]
	p.TuesdayPlan = days[1]
	p.WednesdayPlan = days[2]
	p.ThursdayPlan = days[3]
	p.FridayPlan = days[4]
	p.SaturdayPlan = days[5]
	p.SundayPlan = days[6]
}
