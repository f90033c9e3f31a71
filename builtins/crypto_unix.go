//go:build !windows

package builtins

import "github.com/amoghe/go-crypt"

// cryptDESPlatform uses a pure-Go traditional Unix crypt(3)
// implementation on non-Windows hosts, grounded on
// builtins/crypto_unix.go's cgo-backed crypt(3) wrapper, swapped for a
// Go-native library so this runtime carries no cgo dependency.
func cryptDESPlatform(password, salt string) (string, error) {
	return crypt.Crypt(password, salt)
}
