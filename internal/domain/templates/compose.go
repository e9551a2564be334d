package templates

import (
	"regexp"
)

// Data son los valores que se sustituyen en el cuerpo de la plantilla.
type Data struct {
	OwnerName    string `json:"ownerName"`
	PetName      string `json:"petName"`
	PetEmoji     string `json:"petEmoji"`
	ActivityType string `json:"activityType"`
	DueDate      string `json:"dueDate"`
	Contact      string `json:"contact"`
	SenderName   string `json:"senderName"`
}

func (d Data) lookup(name string) string {
	switch name {
	case "ownerName":
		return d.OwnerName
	case "petName":
		return d.PetName
	case "petEmoji":
		return d.PetEmoji
	case "activityType", "vaccine":
		return d.ActivityType
	case "dueDate":
		return d.DueDate
	case "contact":
		return d.Contact
	case "senderName", "clinicName", "doctorName":
		return d.SenderName
	default:
		return ""
	}
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)

// Compose sustituye los placeholders {{name}} de tpl.Body. Un placeholder sin
// valor (o desconocido) se reemplaza por "".
func Compose(tpl Template, d Data) string {
	return placeholderRe.ReplaceAllStringFunc(tpl.Body, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		if len(sub) < 2 {
			return ""
		}
		return d.lookup(sub[1])
	})
}
