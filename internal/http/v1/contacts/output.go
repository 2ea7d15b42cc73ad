package contacts

// RedirectOutput ends every accepted write with 303 See Other.
type RedirectOutput struct {
	Location string `header:"Location" doc:"Canonical view to load next"`
}

// ContactsListOutput is the response wrapper with pagination Link header.
type ContactsListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body ContactListData
}

// PersonPhonesOutput for GET /contacts/{personId}/phones
type PersonPhonesOutput struct {
	Body PersonPhones
}

// PersonFormOutput for the blank and prefilled person forms.
type PersonFormOutput struct {
	Body PersonForm
}

// PhoneFormOutput for the blank and prefilled phone forms.
type PhoneFormOutput struct {
	Body PhoneForm
}

// PersonDeleteOutput for GET /contacts/{personId}/delete
type PersonDeleteOutput struct {
	Body PersonDeleteConfirm
}

// PhoneDeleteOutput for GET /contacts/{personId}/phones/{phoneId}/delete
type PhoneDeleteOutput struct {
	Body PhoneDeleteConfirm
}
