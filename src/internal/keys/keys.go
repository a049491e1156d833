// Package keys generates and checks WireGuard key pairs.
package keys

import (
	"fmt"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
)

// Pair is a base64-encoded WireGuard key pair.
type Pair struct {
	PrivateKey string
	PublicKey  string
}

// Generator produces key pairs. Tests replace it with a deterministic one.
type Generator interface {
	Generate() (Pair, error)
}

type WGGenerator struct{}

func (WGGenerator) Generate() (Pair, error) {
	return Generate()
}

// Generate creates a fresh key pair, equivalent to `wg genkey | wg pubkey`.
func Generate() (Pair, error) {
	priv, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		return Pair{}, errors.NewInternalError("failed to generate private key", err)
	}
	return Pair{PrivateKey: priv.String(), PublicKey: priv.PublicKey().String()}, nil
}

// PublicKey derives the public key of a base64 private key.
func PublicKey(privateKey string) (string, error) {
	priv, err := wgtypes.ParseKey(privateKey)
	if err != nil {
		return "", errors.NewValidationError("invalid private key", err)
	}
	return priv.PublicKey().String(), nil
}

// CheckPair verifies that publicKey belongs to privateKey.
func CheckPair(privateKey, publicKey string) error {
	derived, err := PublicKey(privateKey)
	if err != nil {
		return err
	}
	if _, err := wgtypes.ParseKey(publicKey); err != nil {
		return errors.NewValidationError("invalid public key", err)
	}
	if derived != publicKey {
		return errors.NewValidationError(fmt.Sprintf("public key %s does not match private key", publicKey), nil)
	}
	return nil
}
