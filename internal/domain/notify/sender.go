package notify

import (
	"strings"

	"vet-care-reminders/internal/domain/calendar"
	"vet-care-reminders/internal/domain/care"
	"vet-care-reminders/internal/domain/directory"
)

// SenderName: "Dr. <nombre>" para cuentas de doctor, nombre de la clínica para
// clínicas; si falta, el nombre de la cuenta.
func SenderName(a directory.Account) string {
	switch a.Type {
	case directory.AccountDoctor:
		if n := strings.TrimSpace(a.DoctorName); n != "" {
			if strings.HasPrefix(strings.ToLower(n), "dr.") || strings.HasPrefix(strings.ToLower(n), "dr ") {
				return n
			}
			return "Dr. " + n
		}
	case directory.AccountClinic:
		if n := strings.TrimSpace(a.ClinicName); n != "" {
			return n
		}
	}
	if n := strings.TrimSpace(a.ClinicName); n != "" {
		return n
	}
	return strings.TrimSpace(a.Name)
}

func PetEmoji(s care.Species) string {
	switch s {
	case care.SpeciesDog:
		return "🐶"
	case care.SpeciesCat:
		return "🐱"
	default:
		return "🐾"
	}
}

// ActivityType describe la actividad para el texto del mensaje.
func ActivityType(st care.ActivityState) string {
	label := strings.TrimSpace(st.Label)
	switch st.Kind {
	case care.KindVaccine:
		if label == "" {
			return "vaccination"
		}
		return label + " vaccination"
	case care.KindDeworming:
		if label == "" {
			return "deworming"
		}
		return "deworming (" + label + ")"
	default:
		return label
	}
}

const dueDateLayout = "02 Jan 2006"

func formatDueDate(d calendar.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dueDateLayout)
}
