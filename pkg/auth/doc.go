// Package auth owns twistory's credentials.
//
// Credentials live in a flat file of "<user>_key = value" and
// "<user>_secret = value" lines. The application pair uses the reserved
// user name "<api>". When a user has no entry, Authorizer runs the OAuth
// 1.0a PIN flow on the terminal and appends the result to the file. The
// system keychain can optionally mirror stored pairs.
package auth
