package user

// User is the single record managed by the admin screen.
type User struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Fields carries the editable attributes submitted by the user form.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Patch is a partial update. Nil fields keep their current value; empty strings overwrite.
type Patch struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// PatchFrom turns a full form submission into a patch that overwrites every field.
func PatchFrom(f Fields) Patch {
	return Patch{Name: &f.Name, Email: &f.Email, Phone: &f.Phone, Address: &f.Address}
}

// Apply merges the patch over u and returns the result.
func (p Patch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	return u
}

// FormLabel describes one input of the user form.
type FormLabel struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// FormLabels lists the form inputs in display order.
func FormLabels() []FormLabel {
	return []FormLabel{
		{Field: "name", Label: "Ad Soyad"},
		{Field: "email", Label: "E-posta"},
		{Field: "phone", Label: "Telefon"},
		{Field: "address", Label: "Adres"},
	}
}

// Seed provides the records every process starts with.
func Seed() []User {
	return []User{
		{
			ID:      1,
			Name:    "Ahmet Yılmaz",
			Email:   "ahmet.yilmaz@example.com",
			Phone:   "05321234567",
			Address: "İstanbul",
		},
		{
			ID:      2,
			Name:    "Mehmet Demir",
			Email:   "mehmet.demir@example.com",
			Phone:   "05339876543",
			Address: "Ankara",
		},
	}
}
