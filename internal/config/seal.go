package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// SealedPrefix marks a PSK stored encrypted in the config file
const SealedPrefix = "sealed:"

// ErrPassphraseRequired is returned when a sealed PSK is read without one
var ErrPassphraseRequired = errors.New("passphrase required for sealed psk")

// Argon2id parameters for the sealing key
const (
	sealTime    = 3
	sealMemory  = 64 * 1024
	sealThreads = 2
	sealKeyLen  = 32
	sealSaltLen = 16
	sealNonce   = 24
)

// IsSealed reports whether value was produced by SealPSK
func IsSealed(value string) bool {
	return strings.HasPrefix(value, SealedPrefix)
}

// SealPSK encrypts psk with a key derived from passphrase. The output is
// "sealed:" followed by base64(salt | nonce | box).
func SealPSK(psk, passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrPassphraseRequired
	}
	if IsSealed(psk) {
		return psk, nil
	}

	salt := make([]byte, sealSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	var nonce [sealNonce]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	key := deriveKey(passphrase, salt)
	out := make([]byte, 0, sealSaltLen+sealNonce+len(psk)+secretbox.Overhead)
	out = append(out, salt...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, []byte(psk), &nonce, key)

	return SealedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// OpenPSK returns the plain PSK. Unsealed values are returned as they are.
func OpenPSK(value, passphrase string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	if passphrase == "" {
		return "", ErrPassphraseRequired
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, SealedPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed psk: %w", err)
	}
	if len(data) < sealSaltLen+sealNonce+secretbox.Overhead {
		return "", errors.New("sealed psk is truncated")
	}

	salt := data[:sealSaltLen]
	var nonce [sealNonce]byte
	copy(nonce[:], data[sealSaltLen:sealSaltLen+sealNonce])

	plain, ok := secretbox.Open(nil, data[sealSaltLen+sealNonce:], &nonce, deriveKey(passphrase, salt))
	if !ok {
		return "", errors.New("failed to open sealed psk: wrong passphrase")
	}
	return string(plain), nil
}

func deriveKey(passphrase string, salt []byte) *[sealKeyLen]byte {
	var key [sealKeyLen]byte
	copy(key[:], argon2.IDKey([]byte(passphrase), salt, sealTime, sealMemory, sealThreads, sealKeyLen))
	return &key
}

// SealPSKs seals every plain PSK in the configuration and returns how many
// were changed
func (c *Config) SealPSKs(passphrase string) (int, error) {
	sealed := 0
	for i := range c.Devices {
		psk := c.Devices[i].PSK
		if psk == "" || IsSealed(psk) {
			continue
		}
		value, err := SealPSK(psk, passphrase)
		if err != nil {
			return sealed, fmt.Errorf("failed to seal psk of %s: %w", c.Devices[i].ID, err)
		}
		c.Devices[i].PSK = value
		sealed++
	}
	return sealed, nil
}

// PlainPSK returns the unsealed PSK of the device
func (d DeviceConfig) PlainPSK(passphrase string) (string, error) {
	psk, err := OpenPSK(d.PSK, passphrase)
	if err != nil {
		return "", fmt.Errorf("device %s: %w", d.ID, err)
	}
	return psk, nil
}
