package dashboard

import (
	"context"
	"math"

	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/domain/care"
	"vet-care-reminders/internal/domain/reminders"
)

// Summary es el resumen del día civil actual de una cuenta.
type Summary struct {
	Day calendar.Date `json:"day"`

	VaccineDueToday   int `json:"vaccine_due_today"`
	DewormingDueToday int `json:"deworming_due_today"`
	TotalDueToday     int `json:"total_due_today"`

	VaccineSent   int `json:"vaccine_sent"`
	DewormingSent int `json:"deworming_sent"`
	TotalSent     int `json:"total_sent"`
	FailedSends   int `json:"failed_sends"`

	ThankYouCount int `json:"thank_you_count"`
	MissedCount   int `json:"missed_count"`

	VaccineCompleted   int `json:"vaccine_completed"`
	DewormingCompleted int `json:"deworming_completed"`

	// ConversionRate = completados / enviados * 100, con un decimal. 0 si no hubo envíos.
	ConversionRate float64 `json:"conversion_rate"`
}

type Service struct {
	care   *care.Service
	ledger *reminders.Service
	cal    *calendar.Calendar
}

func NewService(careSvc *care.Service, ledger *reminders.Service, cal *calendar.Calendar) *Service {
	return &Service{care: careSvc, ledger: ledger, cal: cal}
}

func (s *Service) Today(ctx context.Context, accountID string) (Summary, error) {
	today := s.cal.Today()
	sum := Summary{Day: today}

	animals, err := s.care.ListByAccount(ctx, accountID)
	if err != nil {
		return Summary{}, err
	}

	for _, a := range animals {
		for _, kind := range care.Kinds {
			if st, ok := a.Activity(kind); ok && st.Status == care.StatusPending && st.NextDueDate.Equal(today) {
				switch kind {
				case care.KindVaccine:
					sum.VaccineDueToday++
				case care.KindDeworming:
					sum.DewormingDueToday++
				}
			}

			for _, ev := range a.HistoryOf(kind) {
				if ev.Status != care.HistoryCompleted || !ev.CompletedOn.Equal(today) {
					continue
				}
				switch kind {
				case care.KindVaccine:
					sum.VaccineCompleted++
				case care.KindDeworming:
					sum.DewormingCompleted++
				}
			}
		}
	}
	sum.TotalDueToday = sum.VaccineDueToday + sum.DewormingDueToday

	counts, err := s.ledger.CountDay(ctx, accountID, today)
	if err != nil {
		return Summary{}, err
	}
	sum.VaccineSent = counts.ByKind[care.KindVaccine]
	sum.DewormingSent = counts.ByKind[care.KindDeworming]
	sum.TotalSent = counts.Sent
	sum.FailedSends = counts.Failed
	sum.ThankYouCount = counts.ByWindow[reminders.WindowThankYou]
	sum.MissedCount = counts.ByWindow[reminders.WindowMissed]

	sum.ConversionRate = ConversionRate(sum.VaccineCompleted+sum.DewormingCompleted, sum.TotalSent)
	return sum, nil
}

func ConversionRate(completed, sent int) float64 {
	if sent <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(sent)*1000) / 10
}
