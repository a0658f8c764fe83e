package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// caller cannot tell which part failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidClaims indicates a claim set that cannot be issued, e.g. an empty subject.
	ErrInvalidClaims = errors.New("invalid claims")
	// ErrMalformedToken indicates a token that is not structurally a signed token.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidSignature indicates the token payload does not match its signature.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpiredToken indicates a well-formed, correctly signed token past its expiry.
	ErrExpiredToken = errors.New("token expired")
	// ErrCorruptCredential indicates a stored password digest that cannot be parsed.
	ErrCorruptCredential = errors.New("corrupt stored credential")
)
