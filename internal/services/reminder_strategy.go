// This file implements the Strategy Pattern for payment reminders. Each payment
// kind has a strategy deciding how early a reminder is raised.

package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
)

// ReminderStrategy decides whether a payment due on due needs a reminder at now.
type ReminderStrategy interface {
	ShouldRemind(due core.Date, now time.Time) bool
}

// LeadTimeStrategy reminds from Days days before the due date onwards.
type LeadTimeStrategy struct {
	Days int
}

func (l LeadTimeStrategy) ShouldRemind(due core.Date, now time.Time) bool {
	return daysUntil(due, now) <= l.Days
}

// daysUntil counts calendar days from now's date to due; negative when overdue.
func daysUntil(due core.Date, now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(due.Sub(today).Hours() / 24)
}

var reminderStrategies = map[core.PaymentKind]ReminderStrategy{
	core.KindTax:          LeadTimeStrategy{Days: 14},
	core.KindInsurance:    LeadTimeStrategy{Days: 7},
	core.KindSubscription: LeadTimeStrategy{Days: 3},
	core.KindMarketing:    LeadTimeStrategy{Days: 5},
	core.KindExpense:      LeadTimeStrategy{Days: 5},
	core.KindOther:        LeadTimeStrategy{Days: 5},
}

// GetReminderStrategy returns the strategy registered for kind.
func GetReminderStrategy(kind core.PaymentKind) (ReminderStrategy, error) {
	st, ok := reminderStrategies[kind]
	if !ok {
		return nil, fmt.Errorf("unknown payment kind: %s", kind)
	}
	return st, nil
}

// DuePayment is an upcoming payment that needs attention.
type DuePayment struct {
	Index    int                  `json:"index"`
	Payment  core.UpcomingPayment `json:"-"`
	Title    string               `json:"title"`
	Amount   decimal.Decimal      `json:"amount"`
	DueDate  string               `json:"date"`
	Kind     core.PaymentKind     `json:"type"`
	DaysLeft int                  `json:"daysLeft"`
	Overdue  bool                 `json:"overdue"`
}

// DuePayments lists the payments of s whose reminder window has opened at now,
// earliest due date first. Index is the position in s.Payments.
func DuePayments(s core.Snapshot, now time.Time) []DuePayment {
	var out []DuePayment
	for i, p := range s.Payments {
		st, err := GetReminderStrategy(core.ParseKind(string(p.Kind)))
		if err != nil || !st.ShouldRemind(p.DueDate, now) {
			continue
		}
		days := daysUntil(p.DueDate, now)
		out = append(out, DuePayment{
			Index:    i,
			Payment:  p,
			Title:    p.Title,
			Amount:   p.Amount,
			DueDate:  p.DueDate.String(),
			Kind:     p.Kind,
			DaysLeft: days,
			Overdue:  days < 0,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Payment.DueDate.Before(out[j].Payment.DueDate.Time)
	})
	return out
}
