// Package models defines the domain types shared across the client packages
// and the development stub server.
//
//   - Credentials / Session: raw login input and the persisted session
//     descriptor derived from it
//   - User: a registered account, as stored by the stub server
//   - Bill: an expense bill record as it travels over the wire; fields the
//     client does not interpret are carried through untouched
//
// Sessions are only ever constructed after credential validation succeeds for
// their role; there is no logout flow, a session is simply overwritten by the
// next successful login.
package models
