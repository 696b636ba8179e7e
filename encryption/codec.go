package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"
	"sync"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/apperrors"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"

	"github.com/pkg/errors"
)

const (
	AlgorithmAES256GCM = "aes-256-gcm"

	nonceSize = 12
	tagSize   = 16
)

// tagEncodedLen is the number of base64 characters the GCM tag occupies at
// the end of Envelope.Ciphertext.
var tagEncodedLen = base64.StdEncoding.EncodedLen(tagSize)

// Envelope is the stored form of an encrypted message body.
type Envelope struct {
	Ciphertext string // base64(ciphertext) + base64(tag)
	IV         string // base64
	Algorithm  string
	HMAC       string // hex HMAC-SHA256 of the ciphertext portion
}

type Codec struct {
	secret string
	rand   io.Reader

	mu   sync.RWMutex
	keys map[string][]byte
}

func NewCodec(masterSecret string) (*Codec, error) {
	if masterSecret == "" {
		return nil, errors.New("encryption: master secret is empty")
	}
	return &Codec{
		secret: masterSecret,
		rand:   rand.Reader,
		keys:   make(map[string][]byte),
	}, nil
}

func (c *Codec) key(a, b uint) []byte {
	pair := models.PairKey(a, b)

	c.mu.RLock()
	k, ok := c.keys[pair]
	c.mu.RUnlock()
	if ok {
		return k
	}

	k = DeriveKey(c.secret, a, b)
	c.mu.Lock()
	c.keys[pair] = k
	c.mu.Unlock()
	return k
}

func (c *Codec) mac(ciphertextB64 string) string {
	h := hmac.New(sha256.New, []byte(c.secret))
	h.Write([]byte(ciphertextB64))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Codec) gcm(a, b uint) (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key(a, b))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, nonceSize)
}

func (c *Codec) Encrypt(plaintext string, senderID, receiverID uint) (Envelope, error) {
	aead, err := c.gcm(senderID, receiverID)
	if err != nil {
		return Envelope{}, apperrors.Internal("encryption setup failed", err)
	}

	iv := make([]byte, nonceSize)
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return Envelope{}, apperrors.Internal("could not generate iv", err)
	}

	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	body, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	bodyB64 := base64.StdEncoding.EncodeToString(body)
	return Envelope{
		Ciphertext: bodyB64 + base64.StdEncoding.EncodeToString(tag),
		IV:         base64.StdEncoding.EncodeToString(iv),
		Algorithm:  AlgorithmAES256GCM,
		HMAC:       c.mac(bodyB64),
	}, nil
}

// Decrypt verifies the HMAC before touching the cipher. An HMAC mismatch is
// reported as apperrors.ErrIntegrity. Undecodable parts and a failing GCM tag
// wrap apperrors.ErrDecryption.
func (c *Codec) Decrypt(env Envelope, senderID, receiverID uint) (string, error) {
	if len(env.Ciphertext) < tagEncodedLen {
		return "", apperrors.ErrMalformedPayload
	}
	split := len(env.Ciphertext) - tagEncodedLen
	bodyB64, tagB64 := env.Ciphertext[:split], env.Ciphertext[split:]

	if !hmac.Equal([]byte(c.mac(bodyB64)), []byte(env.HMAC)) {
		return "", apperrors.ErrIntegrity
	}

	if env.Algorithm != AlgorithmAES256GCM {
		return "", apperrors.ErrUnsupportedAlgo
	}

	enc := base64.StdEncoding.Strict()
	body, err := enc.DecodeString(bodyB64)
	if err != nil {
		return "", errors.Wrap(apperrors.ErrDecryption, "invalid ciphertext encoding")
	}
	tag, err := enc.DecodeString(tagB64)
	if err != nil || len(tag) != tagSize {
		return "", errors.Wrap(apperrors.ErrDecryption, "invalid tag encoding")
	}
	iv, err := enc.DecodeString(env.IV)
	if err != nil || len(iv) != nonceSize {
		return "", errors.Wrap(apperrors.ErrDecryption, "invalid iv")
	}

	aead, err := c.gcm(senderID, receiverID)
	if err != nil {
		return "", apperrors.Internal("encryption setup failed", err)
	}

	plaintext, err := aead.Open(nil, iv, append(body, tag...), nil)
	if err != nil {
		return "", errors.Wrap(apperrors.ErrDecryption, "authentication tag mismatch")
	}
	return string(plaintext), nil
}
