package contact

// Decision is the outcome of an ownership check.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Authorize reports whether identity may view or change p.
// A nil person is denied the same way as a person owned by someone else.
func Authorize(p *Person, identity string) Decision {
	if p == nil {
		return Denied
	}
	id := NormalizeIdentity(identity)
	if id == "" || p.OwnerEmail != id {
		return Denied
	}
	return Allowed
}
