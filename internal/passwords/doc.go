// Package passwords hashes and verifies user passwords using encoded strings
// of the form "<algorithm>$<parameters>$...", so stored hashes stay readable
// when the preferred algorithm changes. It also provides the password
// validators applied before a password is accepted.
package passwords
