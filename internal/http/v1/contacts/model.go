package contacts

import (
	"github.com/janisto/huma-contacts/internal/platform/timeutil"
	contactsvc "github.com/janisto/huma-contacts/internal/service/contact"
)

// Person represents a contact response.
type Person struct {
	ID        string        `json:"id"        doc:"Unique identifier"     example:"6f1c2d0e-8a4b-4c1e-9f2a-3b4c5d6e7f80"`
	FirstName string        `json:"firstName" doc:"First name"            example:"Jo"`
	LastName  string        `json:"lastName"  doc:"Last name"             example:"Doe"`
	CreatedAt timeutil.Time `json:"createdAt" doc:"Creation timestamp"    example:"2024-01-15T10:30:00.000Z"`
	UpdatedAt timeutil.Time `json:"updatedAt" doc:"Last update timestamp" example:"2024-01-15T10:30:00.000Z"`
}

// PhoneNumber represents a phone number response.
type PhoneNumber struct {
	ID        string        `json:"id"        doc:"Unique identifier"     example:"0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"`
	PersonID  string        `json:"personId"  doc:"Owning person"         example:"6f1c2d0e-8a4b-4c1e-9f2a-3b4c5d6e7f80"`
	Phone     string        `json:"phone"     doc:"Phone number"          example:"555-1111"`
	Kind      string        `json:"kind"      doc:"Free-form label"       example:"mobile"`
	CreatedAt timeutil.Time `json:"createdAt" doc:"Creation timestamp"    example:"2024-01-15T10:30:00.000Z"`
	UpdatedAt timeutil.Time `json:"updatedAt" doc:"Last update timestamp" example:"2024-01-15T10:30:00.000Z"`
}

// ContactSummary is one row of the contact list.
type ContactSummary struct {
	ID        string `json:"id"        doc:"Person identifier" example:"6f1c2d0e-8a4b-4c1e-9f2a-3b4c5d6e7f80"`
	FirstName string `json:"firstName" doc:"First name"        example:"Jo"`
	LastName  string `json:"lastName"  doc:"Last name"         example:"Doe"`
	Phones    string `json:"phones"    doc:"Phones as \"{phone} ({kind})\" joined by \", \"" example:"555-1111 (home), 555-2222 (mobile)"`
}

// ContactListData is the response body containing paginated contacts.
type ContactListData struct {
	Items []ContactSummary `json:"items" doc:"Contacts owned by the caller"`
	Total int              `json:"total" doc:"Total count of the caller's contacts" example:"2"`
}

// PersonPhones is the detail view of a person.
type PersonPhones struct {
	Person Person        `json:"person"`
	Name   string        `json:"name"   doc:"First and last name" example:"Jo Doe"`
	Phones []PhoneNumber `json:"phones" doc:"Phones in creation order"`
}

// FormField describes one form field so clients can render and pre-validate it.
type FormField struct {
	Name      string `json:"name"              doc:"Body property name" example:"firstName"`
	Label     string `json:"label"             doc:"Display label"      example:"First name"`
	Required  bool   `json:"required"          doc:"Whether a value is required"`
	MaxLength int    `json:"maxLength"         doc:"Maximum length in characters" example:"100"`
	Pattern   string `json:"pattern,omitempty" doc:"Regular expression the value must match"`
}

// PersonValues are the current person form values.
type PersonValues struct {
	FirstName string `json:"firstName" example:"Jo"`
	LastName  string `json:"lastName"  example:"Doe"`
}

// PersonForm is a blank or prefilled person form.
type PersonForm struct {
	Action string       `json:"action" doc:"URL to POST the form to" example:"/v1/contacts"`
	Values PersonValues `json:"values"`
	Fields []FormField  `json:"fields"`
}

// PhoneValues are the current phone form values.
type PhoneValues struct {
	Phone string `json:"phone" example:"555-1111"`
	Kind  string `json:"kind"  example:"mobile"`
}

// PhoneForm is a blank or prefilled phone form.
type PhoneForm struct {
	Action      string      `json:"action"      doc:"URL to POST the form to" example:"/v1/contacts/6f1c2d0e-8a4b-4c1e-9f2a-3b4c5d6e7f80/phones"`
	ContactName string      `json:"contactName" doc:"Name of the person the phone belongs to" example:"Jo Doe"`
	Values      PhoneValues `json:"values"`
	Fields      []FormField `json:"fields"`
}

// PersonDeleteConfirm shows what a person delete removes.
type PersonDeleteConfirm struct {
	Action string `json:"action" doc:"URL to POST to confirm" example:"/v1/contacts/6f1c2d0e-8a4b-4c1e-9f2a-3b4c5d6e7f80/delete"`
	Person Person `json:"person"`
}

// PhoneDeleteConfirm shows what a phone delete removes.
type PhoneDeleteConfirm struct {
	Action      string      `json:"action"      doc:"URL to POST to confirm"`
	ContactName string      `json:"contactName" example:"Jo Doe"`
	Phone       PhoneNumber `json:"phone"`
}

func toHTTPPerson(p *contactsvc.Person) Person {
	return Person{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		CreatedAt: timeutil.NewTime(p.CreatedAt),
		UpdatedAt: timeutil.NewTime(p.UpdatedAt),
	}
}

func toHTTPPhone(ph *contactsvc.PhoneNumber) PhoneNumber {
	return PhoneNumber{
		ID:        ph.ID,
		PersonID:  ph.PersonID,
		Phone:     ph.Phone,
		Kind:      ph.Kind,
		CreatedAt: timeutil.NewTime(ph.CreatedAt),
		UpdatedAt: timeutil.NewTime(ph.UpdatedAt),
	}
}

func toFormFields(rules []contactsvc.Rule) []FormField {
	fields := make([]FormField, 0, len(rules))
	for _, r := range rules {
		f := FormField{Name: r.Field, Label: r.Label, Required: r.Required, MaxLength: r.MaxLength}
		if r.Pattern != nil {
			f.Pattern = r.Pattern.String()
		}
		fields = append(fields, f)
	}
	return fields
}
