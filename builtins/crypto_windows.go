//go:build windows

package builtins

import "github.com/sergeymakinen/go-crypt"

// cryptDESPlatform implements traditional Unix DES crypt on Windows
// via a pure Go library, grounded on builtins/crypto_windows.go's same
// platform split.
func cryptDESPlatform(password, salt string) (string, error) {
	return crypt.Crypt(password, salt)
}
