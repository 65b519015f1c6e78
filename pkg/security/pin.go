package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/skburgers/backend/pkg/config"
)

// ErrInvalidHash signals a malformed Argon2id hash string.
var ErrInvalidHash = fmt.Errorf("invalid argon2id hash")

// ArgonParams captures the Argon2id parameters we embed into each hash string.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

// HashPIN returns a formatted Argon2id hash for the provided access PIN.
func HashPIN(pin string, cfg config.PasswordConfig) (string, error) {
	if pin == "" {
		return "", fmt.Errorf("pin cannot be empty")
	}

	params := paramsFromConfig(cfg)
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(pin), salt, params.Time, params.Memory, params.Parallelism, params.KeyLen)

	encSalt := base64.RawStdEncoding.EncodeToString(salt)
	encHash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s", params.Memory, params.Time, params.Parallelism, encSalt, encHash), nil
}

// VerifyPIN returns true when the PIN matches the encoded hash.
func VerifyPIN(pin, encoded string) (bool, error) {
	params, salt, hash, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(pin), salt, params.Time, params.Memory, params.Parallelism, params.KeyLen)

	if subtle.ConstantTimeCompare(hash, computed) == 1 {
		return true, nil
	}
	return false, nil
}

func paramsFromConfig(cfg config.PasswordConfig) ArgonParams {
	params := ArgonParams{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLen:     16,
		KeyLen:      32,
	}
	if cfg.ArgonMemoryKB > 0 {
		params.Memory = uint32(cfg.ArgonMemoryKB)
	}
	if cfg.ArgonTime > 0 {
		params.Time = uint32(cfg.ArgonTime)
	}
	if cfg.ArgonParallelism > 0 {
		params.Parallelism = uint8(cfg.ArgonParallelism)
	}
	if cfg.ArgonSaltLen > 0 {
		params.SaltLen = uint32(cfg.ArgonSaltLen)
	}
	if cfg.ArgonKeyLen > 0 {
		params.KeyLen = uint32(cfg.ArgonKeyLen)
	}
	return params
}

func decodeHash(encoded string) (ArgonParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	var params ArgonParams
	segments := strings.Split(parts[3], ",")
	if len(segments) != 3 {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	for _, segment := range segments {
		kv := strings.SplitN(segment, "=", 2)
		if len(kv) != 2 {
			return ArgonParams{}, nil, nil, ErrInvalidHash
		}
		value, err := strconv.ParseUint(kv[1], 10, 32)
		if err != nil {
			return ArgonParams{}, nil, nil, ErrInvalidHash
		}
		switch kv[0] {
		case "m":
			params.Memory = uint32(value)
		case "t":
			params.Time = uint32(value)
		case "p":
			params.Parallelism = uint8(value)
		default:
			return ArgonParams{}, nil, nil, ErrInvalidHash
		}
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return ArgonParams{}, nil, nil, ErrInvalidHash
	}

	params.SaltLen = uint32(len(salt))
	params.KeyLen = uint32(len(hash))

	return params, salt, hash, nil
}
