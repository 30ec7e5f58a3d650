package model

// User represents a registered account.
// Password is stored exactly as received; see DESIGN.md.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// GetID returns the record identifier.
func (u *User) GetID() int64 { return u.ID }

// SetID sets the record identifier.
func (u *User) SetID(id int64) { u.ID = id }

// SetCreatedAt sets the creation timestamp.
func (u *User) SetCreatedAt(ts string) { u.CreatedAt = ts }

// SetUpdatedAt sets the update timestamp.
func (u *User) SetUpdatedAt(ts string) { u.UpdatedAt = ts }
