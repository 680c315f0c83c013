// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity maps bearer tokens to users and manages platform admins.

Tokens name a username and carry an HMAC signature (see package auth):

	Authorization: Bearer alice.Zm9vYmFy...

Resolve verifies the token, get-or-creates the user, and reads the admin
profile to build a models.Actor. A request without a token resolves to the
anonymous actor; a bad token is an error.

Admin profiles are created lazily by GrantAdmin. RevokeAdmin only clears the
flag, so the profile row stays.
*/
package identity
