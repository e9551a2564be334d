package auth

// Claims representa la información extraída del token.
// AccountID es la cuenta (doctor o clínica) dueña de los datos; acota todo lo que el usuario ve.
type Claims struct {
	UserID    string
	Email     string
	AccountID string
}
