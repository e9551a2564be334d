package care

import "context"

// Repository es el Store de documentos de animales.
//
// SaveAnimal aplica concurrencia optimista: la versión guardada debe coincidir
// con a.Version; si no, devuelve ErrConflict. En éxito devuelve el documento con
// la versión incrementada.
type Repository interface {
	Create(ctx context.Context, a Animal) error
	LoadAnimal(ctx context.Context, id string) (Animal, error)
	SaveAnimal(ctx context.Context, a Animal) (Animal, error)
	// DeleteAnimal borra el documento completo (estado actual e historial).
	DeleteAnimal(ctx context.Context, id string) error
	// ListAnimalsForScheduling lista los animales de una cuenta; scope vacío = todas.
	ListAnimalsForScheduling(ctx context.Context, accountScope string) ([]Animal, error)
}
