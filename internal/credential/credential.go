// Package credential resolves the single signing identity used by a push run.
package credential

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

// Source is where the signing key comes from: RawSecret or EncryptedKeystore.
type Source interface {
	source()
}

// RawSecret is a hex-encoded secp256k1 private key, with or without 0x.
type RawSecret struct {
	Value string
}

// EncryptedKeystore is a Web3 Secret Storage file and its passphrase.
type EncryptedKeystore struct {
	Path       string
	Passphrase string
}

func (RawSecret) source()         {}
func (EncryptedKeystore) source() {}

// Select picks the usable source from the CLI inputs. A raw secret wins;
// a keystore needs both path and passphrase.
func Select(secret, keyfile, passphrase string) (Source, error) {
	if strings.TrimSpace(secret) != "" {
		return RawSecret{Value: secret}, nil
	}
	if keyfile != "" && passphrase != "" {
		return EncryptedKeystore{Path: keyfile, Passphrase: passphrase}, nil
	}
	return nil, fmt.Errorf("%w: provide credentials via --key or (--keyfile and --password)", domain.ErrCredential)
}

// Identity is a resolved signing key. It is never mutated after Resolve.
type Identity struct {
	address common.Address
	key     *ecdsa.PrivateKey
}

// Address returns the account address of the identity.
func (id *Identity) Address() common.Address {
	return id.address
}

// Transactor builds EIP-155 transaction options signing for chainID.
func (id *Identity) Transactor(chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(id.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCredential, err)
	}
	return opts, nil
}

// Resolve turns src into an Identity. Keystore files that cannot be read
// fail with domain.ErrIO; every other failure is domain.ErrCredential.
func Resolve(src Source) (*Identity, error) {
	switch s := src.(type) {
	case RawSecret:
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(s.Value), "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid private key: %w", domain.ErrCredential, err)
		}
		return newIdentity(key), nil
	case EncryptedKeystore:
		blob, err := os.ReadFile(s.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: keyfile not found: %s", domain.ErrIO, s.Path)
			}
			return nil, fmt.Errorf("%w: read keyfile %s: %w", domain.ErrIO, s.Path, err)
		}
		k, err := keystore.DecryptKey(blob, s.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decrypt keyfile: %w", domain.ErrCredential, err)
		}
		return newIdentity(k.PrivateKey), nil
	case nil:
		return nil, fmt.Errorf("%w: no credential source", domain.ErrCredential)
	default:
		return nil, fmt.Errorf("%w: unsupported credential source %T", domain.ErrCredential, src)
	}
}

func newIdentity(key *ecdsa.PrivateKey) *Identity {
	return &Identity{address: crypto.PubkeyToAddress(key.PublicKey), key: key}
}
