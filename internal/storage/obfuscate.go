package storage

import "encoding/base64"

// DefaultKey is the repeating obfuscation key used for persisted
// records. Records written by earlier deployments use this key, so it
// stays the default; it can be overridden in configuration.
//
// This is obfuscation, not encryption: it keeps casual readers out of
// the database file and nothing more.
const DefaultKey = "BINA_YONETIM_SECURE_KEY_2024"

func xorBytes(data, key []byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ key[i%len(key)]
	}
	return out
}

// Obfuscate XORs data with the repeating key and base64-encodes the
// result.
func Obfuscate(data, key []byte) string {
	return base64.StdEncoding.EncodeToString(xorBytes(data, key))
}

// Deobfuscate reverses Obfuscate. It returns an error when the input
// is not valid base64; XOR itself cannot fail, so garbage input
// surfaces later as a JSON parse error.
func Deobfuscate(encoded string, key []byte) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return xorBytes(raw, key), nil
}
