package encryption

import (
	"crypto/sha256"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"

	"golang.org/x/crypto/pbkdf2"
)

const (
	KeyLength     = 32 // AES-256
	KDFIterations = 100000
)

// DeriveKey derives the symmetric key shared by two users. The result does
// not depend on the order of a and b.
func DeriveKey(masterSecret string, a, b uint) []byte {
	return pbkdf2.Key([]byte(masterSecret), []byte(models.PairKey(a, b)), KDFIterations, KeyLength, sha256.New)
}
