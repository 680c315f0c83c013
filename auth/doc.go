// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides bearer token and session code generation.

# User Tokens

Tokens use HMAC-SHA256 over the username so they can be verified without
storing them:

	token, err := auth.GenerateUserToken("alice", secret)
	username, err := auth.ParseUserToken(token, secret)

The format is <username>.<mac> with the MAC URL-safe base64 encoded without
padding. The same username and secret always produce the same token, so
rotating TOKEN_SECRET revokes every token at once.

Usernames are 2-50 characters of letters, digits, and _.@+-.

# Session Codes

Session codes are short, human-shareable lookup keys:

	code, err := auth.GenerateCode(auth.DefaultCodeLength) // e.g. "k3q9"

Each symbol is drawn uniformly from a-z0-9 using crypto/rand. Codes are not
unique by construction; the session code index rejects collisions and the
voting package retries with a fresh (eventually longer) code.
*/
package auth
