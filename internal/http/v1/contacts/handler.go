package contacts

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/huma-contacts/internal/platform/auth"
	"github.com/janisto/huma-contacts/internal/platform/logging"
	"github.com/janisto/huma-contacts/internal/platform/pagination"
	"github.com/janisto/huma-contacts/internal/platform/respond"
	contactsvc "github.com/janisto/huma-contacts/internal/service/contact"
)

const cursorType = "contact"

var bearerAuth = []map[string][]string{
	{"bearerAuth": {}},
}

// paths builds canonical URLs under the API prefix.
type paths struct {
	prefix string
}

func (p paths) list() string { return p.prefix + "/contacts" }

func (p paths) person(personID string) string {
	return p.list() + "/" + url.PathEscape(personID)
}

func (p paths) phones(personID string) string { return p.person(personID) + "/phones" }

func (p paths) phone(personID, phoneID string) string {
	return p.phones(personID) + "/" + url.PathEscape(phoneID)
}

// Register registers contact book endpoints. Every accepted write answers
// 303 See Other pointing at a GET view, and every denial redirects to the list.
func Register(api huma.API, wf *contactsvc.Workflow, prefix string) {
	p := paths{prefix: prefix}

	huma.Register(api, huma.Operation{
		OperationID: "list-contacts",
		Method:      http.MethodGet,
		Path:        "/contacts",
		Summary:     "List contacts",
		Description: "Returns the caller's contacts with their phones formatted as a single string. " +
			"Use the cursor from the Link header to navigate between pages.",
		Tags:     []string{"Contacts"},
		Security: bearerAuth,
	}, func(ctx context.Context, input *ContactsListInput) (*ContactsListOutput, error) {
		cursor, err := input.Decode(cursorType)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid cursor format")
		}

		var page pagination.Page[contactsvc.Person]
		list, err := wf.ListContacts(ctx, auth.IdentityFromContext(ctx), func(persons []contactsvc.Person) []contactsvc.Person {
			page = pagination.Paginate(
				persons,
				cursor,
				input.PageLimit(),
				cursorType,
				func(person contactsvc.Person) string { return person.ID },
				p.list(),
				url.Values{},
			)
			return page.Items
		})
		if err != nil {
			return nil, mapServiceError(ctx, err, p, "")
		}

		items := make([]ContactSummary, 0, len(list))
		for _, c := range list {
			items = append(items, ContactSummary{
				ID:        c.Person.ID,
				FirstName: c.Person.FirstName,
				LastName:  c.Person.LastName,
				Phones:    c.Phones,
			})
		}
		return &ContactsListOutput{
			Link: page.LinkHeader,
			Body: ContactListData{Items: items, Total: page.Total},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "new-contact-form",
		Method:      http.MethodGet,
		Path:        "/contacts/new",
		Summary:     "Blank contact form",
		Tags:        []string{"Contacts"},
		Security:    bearerAuth,
	}, func(_ context.Context, _ *PersonFormInput) (*PersonFormOutput, error) {
		return &PersonFormOutput{Body: PersonForm{
			Action: p.list(),
			Fields: toFormFields(contactsvc.PersonRules),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-contact",
		Method:        http.MethodPost,
		Path:          "/contacts",
		Summary:       "Create contact",
		Description:   "Creates a contact owned by the caller and redirects to the contact list.",
		Tags:          []string{"Contacts"},
		DefaultStatus: http.StatusSeeOther,
		Security:      bearerAuth,
	}, func(ctx context.Context, input *PersonCreateInput) (*RedirectOutput, error) {
		_, err := wf.CreatePerson(ctx, auth.IdentityFromContext(ctx), contactsvc.PersonFields{
			FirstName: input.Body.FirstName,
			LastName:  input.Body.LastName,
		})
		if err != nil {
			return nil, mapServiceError(ctx, err, p, "")
		}
		return &RedirectOutput{Location: p.list()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-contact-phones",
		Method:      http.MethodGet,
		Path:        "/contacts/{personId}/phones",
		Summary:     "View a contact's phones",
		Tags:        []string{"Contacts"},
		Security:    bearerAuth,
	}, func(ctx context.Context, input *PersonPathInput) (*PersonPhonesOutput, error) {
		view, err := wf.ViewPerson(ctx, input.PersonID, auth.IdentityFromContext(ctx))
		if err != nil {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		phones := make([]PhoneNumber, 0, len(view.Phones))
		for i := range view.Phones {
			phones = append(phones, toHTTPPhone(&view.Phones[i]))
		}
		return &PersonPhonesOutput{Body: PersonPhones{
			Person: toHTTPPerson(&view.Person),
			Name:   view.Name,
			Phones: phones,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "new-phone-form",
		Method:      http.MethodGet,
		Path:        "/contacts/{personId}/phones/new",
		Summary:     "Blank phone form",
		Tags:        []string{"Phones"},
		Security:    bearerAuth,
	}, func(ctx context.Context, input *PersonPathInput) (*PhoneFormOutput, error) {
		person, err := wf.GetPerson(ctx, input.PersonID, auth.IdentityFromContext(ctx))
		if err != nil {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		return &PhoneFormOutput{Body: PhoneForm{
			Action:      p.phones(person.ID),
			ContactName: person.DisplayName(),
			Fields:      toFormFields(contactsvc.PhoneRules),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-phone",
		Method:        http.MethodPost,
		Path:          "/contacts/{personId}/phones",
		Summary:       "Add phone to contact",
		Tags:          []string{"Phones"},
		DefaultStatus: http.StatusSeeOther,
		Security:      bearerAuth,
	}, func(ctx context.Context, input *PhoneCreateInput) (*RedirectOutput, error) {
		_, err := wf.CreatePhone(ctx, input.PersonID, auth.IdentityFromContext(ctx), contactsvc.PhoneFields{
			Phone: input.Body.Phone,
			Kind:  input.Body.Kind,
		})
		if err != nil {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		return &RedirectOutput{Location: p.phones(input.PersonID)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "edit-contact-form",
		Method:      http.MethodGet,
		Path:        "/contacts/{personId}/edit",
		Summary:     "Prefilled contact form",
		Tags:        []string{"Contacts"},
		Security:    bearerAuth,
	}, func(ctx context.Context, input *PersonPathInput) (*PersonFormOutput, error) {
		person, err := wf.GetPerson(ctx, input.PersonID, auth.IdentityFromContext(ctx))
		if err != nil {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		return &PersonFormOutput{Body: PersonForm{
			Action: p.person(person.ID) + "/edit",
			Values: PersonValues{FirstName: person.FirstName, LastName: person.LastName},
			Fields: toFormFields(contactsvc.PersonRules),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "update-contact",
		Method:        http.MethodPost,
		Path:          "/contacts/{personId}/edit",
		Summary:       "Update contact",
		Description:   "Updates the contact's names and redirects to the contact list. The owner never changes.",
		Tags:          []string{"Contacts"},
		DefaultStatus: http.StatusSeeOther,
		Security:      bearerAuth,
	}, func(ctx context.Context, input *PersonUpdateInput) (*RedirectOutput, error) {
		_, err := wf.UpdatePerson(ctx, input.PersonID, auth.IdentityFromContext(ctx), contactsvc.PersonFields{
			FirstName: input.Body.FirstName,
			LastName:  input.Body.LastName,
		})
		if err != nil {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		return &RedirectOutput{Location: p.list()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "edit-phone-form",
		Method:      http.MethodGet,
		Path:        "/contacts/{personId}/phones/{phoneId}/edit",
		Summary:     "Prefilled phone form",
		Tags:        []string{"Phones"},
		Security:    bearerAuth,
	}, func(ctx context.Context, input *PhonePathInput) (*PhoneFormOutput, error) {
		phone, person, err := wf.GetPhone(ctx, input.PersonID, input.PhoneID, auth.IdentityFromContext(ctx))
		if err != nil {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		return &PhoneFormOutput{Body: PhoneForm{
			Action:      p.phone(person.ID, phone.ID) + "/edit",
			ContactName: person.DisplayName(),
			Values:      PhoneValues{Phone: phone.Phone, Kind: phone.Kind},
			Fields:      toFormFields(contactsvc.PhoneRules),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "update-phone",
		Method:        http.MethodPost,
		Path:          "/contacts/{personId}/phones/{phoneId}/edit",
		Summary:       "Update phone",
		Description:   "Updates a phone of the contact and redirects to the contact's phones.",
		Tags:          []string{"Phones"},
		DefaultStatus: http.StatusSeeOther,
		Security:      bearerAuth,
	}, func(ctx context.Context, input *PhoneUpdateInput) (*RedirectOutput, error) {
		_, err := wf.UpdatePhone(ctx, input.PersonID, input.PhoneID, auth.IdentityFromContext(ctx),
			contactsvc.PhoneFields{Phone: input.Body.Phone, Kind: input.Body.Kind})
		if err != nil {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		return &RedirectOutput{Location: p.phones(input.PersonID)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-contact-confirm",
		Method:      http.MethodGet,
		Path:        "/contacts/{personId}/delete",
		Summary:     "Contact delete confirmation",
		Tags:        []string{"Contacts"},
		Security:    bearerAuth,
	}, func(ctx context.Context, input *PersonPathInput) (*PersonDeleteOutput, error) {
		person, err := wf.GetPerson(ctx, input.PersonID, auth.IdentityFromContext(ctx))
		if err != nil {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		return &PersonDeleteOutput{Body: PersonDeleteConfirm{
			Action: p.person(person.ID) + "/delete",
			Person: toHTTPPerson(person),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-contact",
		Method:        http.MethodPost,
		Path:          "/contacts/{personId}/delete",
		Summary:       "Delete contact",
		Description:   "Deletes the contact and all of its phones, then redirects to the contact list.",
		Tags:          []string{"Contacts"},
		DefaultStatus: http.StatusSeeOther,
		Security:      bearerAuth,
	}, func(ctx context.Context, input *PersonPathInput) (*RedirectOutput, error) {
		if err := wf.DeletePerson(ctx, input.PersonID, auth.IdentityFromContext(ctx)); err != nil {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		return &RedirectOutput{Location: p.list()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-phone-confirm",
		Method:      http.MethodGet,
		Path:        "/contacts/{personId}/phones/{phoneId}/delete",
		Summary:     "Phone delete confirmation",
		Tags:        []string{"Phones"},
		Security:    bearerAuth,
	}, func(ctx context.Context, input *PhonePathInput) (*PhoneDeleteOutput, error) {
		phone, person, err := wf.GetPhone(ctx, input.PersonID, input.PhoneID, auth.IdentityFromContext(ctx))
		if err != nil {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		return &PhoneDeleteOutput{Body: PhoneDeleteConfirm{
			Action:      p.phone(person.ID, phone.ID) + "/delete",
			ContactName: person.DisplayName(),
			Phone:       toHTTPPhone(phone),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-phone",
		Method:        http.MethodPost,
		Path:          "/contacts/{personId}/phones/{phoneId}/delete",
		Summary:       "Delete phone",
		Description:   "Deletes a phone of the contact and redirects to the contact's phones.",
		Tags:          []string{"Phones"},
		DefaultStatus: http.StatusSeeOther,
		Security:      bearerAuth,
	}, func(ctx context.Context, input *PhonePathInput) (*RedirectOutput, error) {
		err := wf.DeletePhone(ctx, input.PersonID, input.PhoneID, auth.IdentityFromContext(ctx))
		if err != nil && !errors.Is(err, contactsvc.ErrPhoneNotInContact) {
			return nil, mapServiceError(ctx, err, p, input.PersonID)
		}
		return &RedirectOutput{Location: p.phones(input.PersonID)}, nil
	})
}

// mapServiceError turns workflow errors into responses. Denials never reveal
// whether the record was missing or foreign.
func mapServiceError(ctx context.Context, err error, p paths, personID string) error {
	var verr *contactsvc.ValidationError
	switch {
	case errors.Is(err, contactsvc.ErrDenied):
		return respond.SeeOther(p.list())
	case errors.Is(err, contactsvc.ErrPhoneNotInContact):
		return respond.SeeOther(p.phones(personID))
	case errors.As(err, &verr):
		details := make([]error, 0, len(verr.Errors))
		for _, fe := range verr.Errors {
			details = append(details, &huma.ErrorDetail{
				Location: "body." + fe.Field,
				Message:  fe.Message,
			})
		}
		return huma.Error422UnprocessableEntity("validation failed", details...)
	default:
		logging.LogError(ctx, "contact operation failed", err)
		return huma.Error500InternalServerError("internal error")
	}
}
