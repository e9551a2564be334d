package reminders

import (
	"strings"

	"vet-care-reminders/internal/domain/care"
)

// Window es el bucket que disparó el aviso.
type Window string

const (
	WindowSevenDay Window = "SEVEN_DAY"
	WindowOneDay   Window = "ONE_DAY"
	WindowToday    Window = "TODAY"
	WindowMissed   Window = "MISSED"
	WindowThankYou Window = "THANKYOU"
)

func (w Window) Valid() bool {
	switch w {
	case WindowSevenDay, WindowOneDay, WindowToday, WindowMissed, WindowThankYou:
		return true
	default:
		return false
	}
}

func ParseWindow(s string) (Window, bool) {
	w := Window(strings.ToUpper(strings.TrimSpace(s)))
	return w, w.Valid()
}

// WindowFor traduce un bucket del engine a la ventana del ledger (mismo nombre).
func WindowFor(b care.Bucket) Window {
	return Window(b)
}

// IsReminder indica las ventanas previas/coincidentes con el vencimiento.
func (w Window) IsReminder() bool {
	return w == WindowSevenDay || w == WindowOneDay || w == WindowToday
}

// Outcome del intento de envío.
type Outcome string

const (
	OutcomeSent   Outcome = "SENT"
	OutcomeFailed Outcome = "FAILED"
	// OutcomeSkipped: no se envió a propósito (dry-run, dueño sin teléfono).
	OutcomeSkipped Outcome = "SKIPPED"
)

func (o Outcome) Valid() bool {
	return o == OutcomeSent || o == OutcomeFailed || o == OutcomeSkipped
}

// Flag son las marcas posteriores sobre el mismo aviso.
type Flag string

const (
	FlagVisited      Flag = "visited"
	FlagThankYouSent Flag = "thank-you"
	FlagFollowupSent Flag = "follow-up"
)

func ParseFlag(s string) (Flag, bool) {
	f := Flag(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FlagVisited, FlagThankYouSent, FlagFollowupSent:
		return f, true
	default:
		return "", false
	}
}
