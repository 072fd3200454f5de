package generates

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"

	"github.com/authgate/authgate"
)

// NewAuthorizeGenerate create to generate the authorize code instance
func NewAuthorizeGenerate() *AuthorizeGenerate {
	return &AuthorizeGenerate{}
}

// AuthorizeGenerate generate the authorize code
type AuthorizeGenerate struct{}

// Code based on the UUID generated token
func (ag *AuthorizeGenerate) Code(ctx context.Context, auth *authgate.Authorization) (string, error) {
	buf := bytes.NewBufferString(auth.ClientID)
	buf.WriteString(auth.OwnerID)
	token := uuid.NewMD5(uuid.Must(uuid.NewRandom()), buf.Bytes())
	code := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(token.String()))
	return strings.ToUpper(strings.TrimRight(code, "=")), nil
}
