package xaddress

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	addressFile = "address"
	privKeyFile = "private.key"
)

type Address struct {
	Address    string
	PrivateKey *ecdsa.PrivateKey
	PublicKey  *ecdsa.PublicKey
}

// Normalize checks a hex address and returns its checksummed form
func Normalize(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("invalid address: %q", addr)
	}
	return common.HexToAddress(addr).Hex(), nil
}

// IsValid reports whether addr is a well-formed hex address
func IsValid(addr string) bool {
	return common.IsHexAddress(strings.TrimSpace(addr))
}

// FromPrivateKey derives the address owning priv
func FromPrivateKey(priv *ecdsa.PrivateKey) *Address {
	return &Address{
		Address:    crypto.PubkeyToAddress(priv.PublicKey).Hex(),
		PrivateKey: priv,
		PublicKey:  &priv.PublicKey,
	}
}

// Generate creates a fresh key pair
func Generate() (*Address, error) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key error: %v", err)
	}
	return FromPrivateKey(priv), nil
}

// Save writes the address and private key into keyDir
func Save(keyDir string, addr *Address) error {
	if addr == nil || addr.PrivateKey == nil {
		return fmt.Errorf("address without private key")
	}
	if err := os.MkdirAll(keyDir, 0700); err != nil {
		return fmt.Errorf("create key dir error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(keyDir, addressFile), []byte(addr.Address), 0644); err != nil {
		return fmt.Errorf("write address error: %v", err)
	}
	if err := crypto.SaveECDSA(filepath.Join(keyDir, privKeyFile), addr.PrivateKey); err != nil {
		return fmt.Errorf("write private.key error: %v", err)
	}
	return nil
}

func LoadAddress(keyDir string) (string, error) {
	addr, err := os.ReadFile(filepath.Join(keyDir, addressFile))
	if err != nil {
		return "", fmt.Errorf("read address error: %v", err)
	}

	return Normalize(string(addr))
}

func LoadAddrInfo(keyDir string) (*Address, error) {
	addr, err := LoadAddress(keyDir)
	if err != nil {
		return nil, err
	}

	priv, err := crypto.LoadECDSA(filepath.Join(keyDir, privKeyFile))
	if err != nil {
		return nil, fmt.Errorf("read private.key error: %v", err)
	}

	addrInfo := FromPrivateKey(priv)
	if addrInfo.Address != addr {
		return nil, fmt.Errorf("address mismatch private key.address:%s,derived:%s",
			addr, addrInfo.Address)
	}

	return addrInfo, nil
}
