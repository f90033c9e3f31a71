package builtins

import (
	"encoding/hex"

	"golang.org/x/crypto/ripemd160"

	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
)

// registerCrypto wires Crypt$/Checksum/CryptPassword (spec §7),
// grounded on builtins/crypto.go's ripemd160-backed Checksum and the
// platform-split CryptPassword in crypto_unix.go/crypto_windows.go.
func (r *Registry) registerCrypto() {
	r.Register("CHECKSUM", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		s, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		h := ripemd160.New()
		h.Write([]byte(s))
		return types.NewStr(hex.EncodeToString(h.Sum(nil))), nil
	})

	// Crypt$(password, salt) returns the traditional DES crypt(3)
	// hash of password under the given two-character salt.
	r.Register("CRYPT$", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		password, ok1 := wantString(args[0])
		salt, ok2 := wantString(args[1])
		if !ok1 || !ok2 {
			return typeErr()
		}
		hash, err := cryptDESPlatform(password, salt)
		if err != nil {
			return types.Null, types.NewError(types.E_FILE, err.Error())
		}
		return types.NewStr(hash), nil
	})

	r.Register("CRYPTPASSWORD", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		password, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		hash, err := cryptDESPlatform(password, defaultSalt(password))
		if err != nil {
			return types.Null, types.NewError(types.E_FILE, err.Error())
		}
		return types.NewStr(hash), nil
	})
}

// defaultSalt derives a stable two-character traditional-crypt salt
// from the password's RIPEMD-160 digest, for CryptPassword, which takes
// the password alone and no salt argument.
func defaultSalt(password string) string {
	const alphabet = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	h := ripemd160.New()
	h.Write([]byte(password))
	sum := h.Sum(nil)
	return string([]byte{alphabet[sum[0]%64], alphabet[sum[1]%64]})
}
