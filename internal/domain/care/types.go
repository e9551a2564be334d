package care

import "strings"

// Kind identifica la actividad recurrente.
type Kind string

const (
	KindVaccine   Kind = "VACCINE"
	KindDeworming Kind = "DEWORMING"
)

// Kinds en orden estable de evaluación.
var Kinds = []Kind{KindVaccine, KindDeworming}

// ParseKind acepta mayúsculas o minúsculas ("vaccine", "DEWORMING").
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case KindVaccine, KindDeworming:
		return k, true
	default:
		return "", false
	}
}

// Stage sólo aplica a vacunas.
type Stage string

const (
	Stage1st    Stage = "1ST"
	Stage2nd    Stage = "2ND"
	Stage3rd    Stage = "3RD"
	Stage4th    Stage = "4TH"
	StageAnnual Stage = "ANNUAL"
	StageCustom Stage = "CUSTOM"
)

func (s Stage) Valid() bool {
	switch s {
	case Stage1st, Stage2nd, Stage3rd, Stage4th, StageAnnual, StageCustom:
		return true
	default:
		return false
	}
}

// Status del ciclo actual.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// HistoryStatus de un evento archivado.
type HistoryStatus string

const (
	HistoryCompleted HistoryStatus = "COMPLETED"
	HistoryMissed    HistoryStatus = "MISSED"
	// HistoryArchived es la foto del ciclo que se reemplazó sin completarse ni marcarse perdido.
	HistoryArchived HistoryStatus = "ARCHIVED"
)

// Species soportadas.
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Bucket es la ventana de notificación en la que cae una actividad.
type Bucket string

const (
	BucketToday    Bucket = "TODAY"
	BucketOneDay   Bucket = "ONE_DAY"
	BucketSevenDay Bucket = "SEVEN_DAY"
	BucketMissed   Bucket = "MISSED"
	BucketThankYou Bucket = "THANKYOU"
)

// Buckets en el orden en que se reportan.
var Buckets = []Bucket{BucketToday, BucketThankYou, BucketOneDay, BucketSevenDay, BucketMissed}
