package contacts

import "github.com/janisto/huma-contacts/internal/platform/pagination"

// ContactsListInput for GET /contacts
type ContactsListInput struct {
	pagination.Params
}

// PersonFormInput for GET /contacts/new (no parameters needed)
type PersonFormInput struct{}

// PersonPathInput addresses one person.
type PersonPathInput struct {
	PersonID string `path:"personId" maxLength:"64" doc:"Person identifier" example:"6f1c2d0e-8a4b-4c1e-9f2a-3b4c5d6e7f80"`
}

// PhonePathInput addresses one phone of a person.
type PhonePathInput struct {
	PersonID string `path:"personId" maxLength:"64" doc:"Person identifier"       example:"6f1c2d0e-8a4b-4c1e-9f2a-3b4c5d6e7f80"`
	PhoneID  string `path:"phoneId"  maxLength:"64" doc:"Phone number identifier" example:"0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"`
}

// PersonBody is the submitted person form. Unknown fields such as an owner
// are accepted and ignored. Values are checked by contactsvc.PersonRules
// after the ownership guard, so a denied submission redirects regardless of
// its content.
type PersonBody struct {
	_         struct{} `json:"-" additionalProperties:"true"`
	FirstName string   `json:"firstName" required:"false" doc:"First name, 1 to 100 characters" example:"Jo"`
	LastName  string   `json:"lastName"  required:"false" doc:"Last name, 1 to 100 characters"  example:"Doe"`
}

// PhoneBody is the submitted phone form. Values are checked by
// contactsvc.PhoneRules after the ownership guard.
type PhoneBody struct {
	_     struct{} `json:"-" additionalProperties:"true"`
	Phone string   `json:"phone" required:"false" doc:"Phone number, digits with optional + ( ) - . separators" example:"555-1111"`
	Kind  string   `json:"kind"  required:"false" doc:"Free-form label"                                          example:"mobile"`
}

// PersonCreateInput for POST /contacts
type PersonCreateInput struct {
	Body PersonBody
}

// PersonUpdateInput for POST /contacts/{personId}/edit
type PersonUpdateInput struct {
	PersonPathInput
	Body PersonBody
}

// PhoneCreateInput for POST /contacts/{personId}/phones
type PhoneCreateInput struct {
	PersonPathInput
	Body PhoneBody
}

// PhoneUpdateInput for POST /contacts/{personId}/phones/{phoneId}/edit
type PhoneUpdateInput struct {
	PhonePathInput
	Body PhoneBody
}
