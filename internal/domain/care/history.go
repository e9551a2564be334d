package care

import "fmt"

// HistoryLedger es la secuencia ordenada (cronológica por construcción) de eventos
// de un animal para un Kind. Nunca se reordena.
type HistoryLedger []HistoryEvent

// Contains indica si ya existe un evento con la misma clave (kind, date, status).
// Para ARCHIVED la clave es la foto completa del ciclo: dos ciclos distintos con
// el mismo vencimiento dejan cada uno su rastro.
func (l HistoryLedger) Contains(e HistoryEvent) bool {
	for _, cur := range l {
		if cur.Kind != e.Kind || cur.Date != e.Date || cur.Status != e.Status {
			continue
		}
		if e.Status == HistoryArchived && !sameSnapshot(cur, e) {
			continue
		}
		return true
	}
	return false
}

func sameSnapshot(a, b HistoryEvent) bool {
	return a.Label == b.Label && a.Stage == b.Stage && a.CustomStage == b.CustomStage
}

// Append agrega e al final. Es no-op (false) si la clave ya existe: eso hace
// idempotente re-clasificar el mismo día.
func (l *HistoryLedger) Append(e HistoryEvent) bool {
	if l.Contains(e) {
		return false
	}
	*l = append(*l, e)
	return true
}

// RemoveAt devuelve un ledger nuevo sin la posición index (corrección administrativa).
func (l HistoryLedger) RemoveAt(index int) (HistoryLedger, error) {
	if index < 0 || index >= len(l) {
		return l, fmt.Errorf("%w: history index %d (len %d)", ErrNotFound, index, len(l))
	}
	out := make(HistoryLedger, 0, len(l)-1)
	out = append(out, l[:index]...)
	out = append(out, l[index+1:]...)
	return out, nil
}

// Count cuenta eventos con status.
func (l HistoryLedger) Count(status HistoryStatus) int {
	n := 0
	for _, e := range l {
		if e.Status == status {
			n++
		}
	}
	return n
}
