package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"

	"koordinator/internal/domain"
)

const encPrefix = "enc:"

// IsEncrypted reports whether v carries the "enc:" prefix.
func IsEncrypted(v string) bool {
	return strings.HasPrefix(v, encPrefix)
}

// decryptSecrets replaces every "enc:" value with its plaintext. An
// encrypted value without a passphrase is an error.
func decryptSecrets(cfg *Config, passphrase string) error {
	secrets := []struct {
		name string
		ptr  *string
	}{
		{"coordinator.api_key", &cfg.Coordinator.APIKey},
	}
	for _, s := range secrets {
		if !IsEncrypted(*s.ptr) {
			continue
		}
		if passphrase == "" {
			return domain.NewDomainError("config.decrypt", domain.ErrDecryption,
				fmt.Sprintf("%s is encrypted but %s is not set", s.name, EnvConfigKey))
		}
		plain, err := DecryptValue(strings.TrimPrefix(*s.ptr, encPrefix), passphrase)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		*s.ptr = plain
	}
	return nil
}

// EncryptValue encrypts plaintext with AES-256-GCM under a key derived from
// passphrase. The result is hex(salt) + ":" + hex(nonce+ciphertext), without
// the "enc:" prefix.
func EncryptValue(plaintext, passphrase string) (string, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(sealed), nil
}

// DecryptValue reverses EncryptValue.
func DecryptValue(encrypted, passphrase string) (string, error) {
	saltHex, dataHex, ok := strings.Cut(encrypted, ":")
	if !ok {
		return "", domain.NewDomainError("config.DecryptValue", domain.ErrDecryption, "invalid encrypted format")
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", domain.NewDomainError("config.DecryptValue", domain.ErrDecryption, "decode salt: "+err.Error())
	}
	data, err := hex.DecodeString(dataHex)
	if err != nil {
		return "", domain.NewDomainError("config.DecryptValue", domain.ErrDecryption, "decode ciphertext: "+err.Error())
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", domain.NewDomainError("config.DecryptValue", domain.ErrDecryption, "ciphertext too short")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", domain.NewDomainError("config.DecryptValue", domain.ErrDecryption, err.Error())
	}
	return string(plain), nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// deriveKey uses Argon2id to derive a 32-byte key from passphrase + salt.
func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32)
}
