// Package cli is the gophauth command-line client.
//
// Every command works on the session stored in a shared SQLite file, so a
// login in one terminal is visible to the others:
//
//	gophauth signup                  create an account and log in
//	gophauth login [--email EMAIL]   log in
//	gophauth logout                  forget the session
//	gophauth status                  show who is logged in
//	gophauth dashboard               call the protected endpoint
//	gophauth watch                   print session changes made elsewhere
//	gophauth shell                   interactive prompt
package cli
