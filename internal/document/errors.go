package document

import "errors"

var (
	ErrDraftNotFound    = errors.New("draft not found")
	ErrInvalidKind      = errors.New("invalid document kind")
	ErrInvalidPartyType = errors.New("invalid party type")
	ErrItemNameRequired = errors.New("item name is required")
	ErrItemPriceInvalid = errors.New("item price must be a number")
	ErrNoPartySelected  = errors.New("no party selected")
)
