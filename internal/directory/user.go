// Package directory talks to the remote member directory and defines its records.
package directory

// UserRecord is the client-side projection of a registered member.
// The server is authoritative; the password is never part of it.
type UserRecord struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Email    string `json:"email"`

	// Birthday uses the DD-MM-YYYY layout (config.BirthdayLayout).
	Birthday string `json:"birthday"`

	// Sex is "M", "F" or anything else (including empty).
	Sex   string `json:"sex"`
	Photo string `json:"photo,omitempty"`

	Phone       string `json:"phone,omitempty"`
	Age         *int   `json:"age,omitempty"`
	Description string `json:"description,omitempty"`
	Address     string `json:"direccion,omitempty"`
}

// FullName joins name and lastname the way the member list shows it.
func (u UserRecord) FullName() string {
	if u.Lastname == "" {
		return u.Name
	}
	return u.Name + " " + u.Lastname
}
