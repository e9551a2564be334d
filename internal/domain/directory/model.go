package directory

import (
	"strings"
	"time"
)

// AccountType distingue un doctor independiente de una clínica.
type AccountType string

const (
	AccountDoctor AccountType = "DOCTOR"
	AccountClinic AccountType = "CLINIC"
)

func ParseAccountType(s string) (AccountType, bool) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t == AccountDoctor || t == AccountClinic
}

// Owner es el tutor del animal, destinatario de los avisos.
type Owner struct {
	ID        string
	AccountID string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account es la cuenta que emite los avisos. TemplateID elige el texto de recordatorio.
type Account struct {
	ID         string
	Name       string
	Type       AccountType
	DoctorName string
	ClinicName string
	Contact    string
	TemplateID string
	UpdatedAt  time.Time
}
