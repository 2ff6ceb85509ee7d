package domain

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
)

// User is the identity consumed from the access token. Credentials and
// profile data live with the identity provider, not here.
type User struct {
	ID   int64
	Role Role
}
