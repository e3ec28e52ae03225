package signin

import "crypto/rand"

const prefixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const prefixLength = 8

// PrefixFunc returns the cosmetic token shown before the code input.
type PrefixFunc func() string

// RandomPrefix returns eight random base-36 characters followed by a dash.
// The prefix is display only and carries no security weight.
func RandomPrefix() string {
	var buf [prefixLength]byte
	_, _ = rand.Read(buf[:])
	out := make([]byte, 0, prefixLength+1)
	for _, b := range buf {
		out = append(out, prefixAlphabet[int(b)%len(prefixAlphabet)])
	}
	return string(append(out, '-'))
}
