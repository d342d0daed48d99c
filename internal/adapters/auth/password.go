package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	"blogapi/internal/domain"
)

const (
	// DefaultIterations is the PBKDF2 round count for new hashes.
	DefaultIterations = 100_000
	keyLength         = 32
	saltLength        = 16
	pbkdf2ID          = "pbkdf2-sha256"
)

var b64 = base64.RawStdEncoding

// ErrMalformedHash is returned when a stored hash is in no known format.
var ErrMalformedHash = errors.New("malformed password hash")

type pbkdf2Hasher struct {
	iterations int
}

// NewPBKDF2Hasher returns a PasswordHasher producing PHC strings of the form
// $pbkdf2-sha256$i=<iterations>,l=32$<salt>$<hash>. Verify also accepts bcrypt hashes.
func NewPBKDF2Hasher(iterations int) domain.PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &pbkdf2Hasher{iterations: iterations}
}

func (h *pbkdf2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, h.iterations, keyLength, sha256.New)
	return fmt.Sprintf("$%s$i=%d,l=%d$%s$%s", pbkdf2ID, h.iterations, keyLength, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

func (h *pbkdf2Hasher) Verify(hash, password string) error {
	if strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$") {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.ErrUnauthorized
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedHash, err)
		}
		return nil
	}

	iterations, salt, want, err := parsePHC(hash)
	if err != nil {
		return err
	}
	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

// parsePHC splits "$pbkdf2-sha256$i=N,l=L$salt$hash".
func parsePHC(s string) (int, []byte, []byte, error) {
	parts := strings.Split(s, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != pbkdf2ID {
		return 0, nil, nil, ErrMalformedHash
	}

	iterations := 0
	for _, kv := range strings.Split(parts[2], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return 0, nil, nil, ErrMalformedHash
		}
		if k == "i" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return 0, nil, nil, ErrMalformedHash
			}
			iterations = n
		}
	}
	if iterations == 0 {
		return 0, nil, nil, ErrMalformedHash
	}

	salt, err := b64.DecodeString(parts[3])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	key, err := b64.DecodeString(parts[4])
	if err != nil || len(key) == 0 {
		return 0, nil, nil, ErrMalformedHash
	}
	return iterations, salt, key, nil
}
