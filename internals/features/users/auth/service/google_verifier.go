package service

import (
	"errors"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"

	userModel "qurban_backend/internals/features/users/user/model"
)

var ErrInvalidGoogleToken = errors.New("Invalid Google ID Token")

type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// IdentityInput untuk checkout yang membawa akun Google.
func (g GoogleIdentity) Apply(in IdentityInput) IdentityInput {
	in.AccountProvider = userModel.ProviderGoogle
	in.AccountProviderID = g.Sub
	if g.Email != "" {
		in.Email = g.Email
	}
	if in.Name == "" {
		in.Name = g.Name
	}
	return in
}

type GoogleTokenVerifier interface {
	Verify(idToken string) (*GoogleIdentity, error)
}

type googleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) GoogleTokenVerifier {
	return &googleVerifier{clientID: clientID}
}

func (g *googleVerifier) Verify(idToken string) (*GoogleIdentity, error) {
	if g.clientID == "" || idToken == "" {
		return nil, ErrInvalidGoogleToken
	}
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{g.clientID}); err != nil {
		return nil, ErrInvalidGoogleToken
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}
	return &GoogleIdentity{Sub: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}
