package authgate

// ResponseType the type of authorization request
type ResponseType string

// define the type of authorization request
const (
	Code        ResponseType = "code"
	Token       ResponseType = "token"
	Unsupported ResponseType = "unsupported"
)

func (rt ResponseType) String() string {
	return string(rt)
}

// ParseResponseType decodes the raw response_type parameter. Anything
// other than "code" or "token" maps to Unsupported; the dispatcher
// reports it, not the normalizer.
func ParseResponseType(raw string) ResponseType {
	switch raw {
	case "code":
		return Code
	case "token":
		return Token
	default:
		return Unsupported
	}
}
