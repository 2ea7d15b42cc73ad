package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params embeds into huma input structs.
type Params struct {
	Cursor string `query:"cursor" doc:"Opaque pagination cursor from a previous Link header"`
	Limit  int    `query:"limit"  doc:"Maximum items per page" default:"20" minimum:"1" maximum:"100"`
}

// PageLimit clamps Limit to 1..MaxLimit, using DefaultLimit when unset.
func (p Params) PageLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// Decode parses Cursor and checks that it was issued for cursorType.
func (p Params) Decode(cursorType string) (Cursor, error) {
	c, err := DecodeCursor(p.Cursor)
	if err != nil {
		return Cursor{}, err
	}
	if p.Cursor != "" && c.Type != cursorType {
		return Cursor{}, ErrInvalidCursor
	}
	return c, nil
}
