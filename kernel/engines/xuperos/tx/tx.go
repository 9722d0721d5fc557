// 交易结构定义，交易由发起人签名，引擎验签后执行
package tx

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	hex "github.com/tmthrgd/go-hex"
	"golang.org/x/crypto/sha3"

	"github.com/xuperchain/xcampaign/kernel/common/xaddress"
)

type Transaction struct {
	Contract string            `json:"contract"`
	Method   string            `json:"method"`
	Args     map[string]string `json:"args,omitempty"`
	// 附带的转账金额，十进制字符串
	Value     string `json:"value,omitempty"`
	Nonce     uint64 `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
	Initiator string `json:"initiator"`
	// 十六进制编码的65字节签名
	Signature string `json:"signature,omitempty"`
}

// New builds an unsigned transaction with a fresh nonce
func New(initiator, contractName, method string, args map[string]string, value string) *Transaction {
	now := time.Now()
	return &Transaction{
		Contract:  contractName,
		Method:    method,
		Args:      args,
		Value:     value,
		Nonce:     uint64(now.UnixNano()),
		Timestamp: now.Unix(),
		Initiator: initiator,
	}
}

// Hash is keccak256 over the json encoding without signature, map keys are sorted by encoding/json
func (t *Transaction) Hash() ([]byte, error) {
	unsigned := *t
	unsigned.Signature = ""
	buf, err := json.Marshal(&unsigned)
	if err != nil {
		return nil, err
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(buf)
	return h.Sum(nil), nil
}

func (t *Transaction) HashHex() (string, error) {
	hash, err := t.Hash()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hash), nil
}

func (t *Transaction) Sign(priv *ecdsa.PrivateKey) error {
	if priv == nil {
		return fmt.Errorf("sign tx failed because private key is nil")
	}
	t.Initiator = crypto.PubkeyToAddress(priv.PublicKey).Hex()
	hash, err := t.Hash()
	if err != nil {
		return err
	}
	sig, err := crypto.Sign(hash, priv)
	if err != nil {
		return fmt.Errorf("sign tx failed: %v", err)
	}
	t.Signature = hex.EncodeToString(sig)
	return nil
}

// Verify checks that the signature recovers to the initiator
func (t *Transaction) Verify() error {
	if t.Contract == "" || t.Method == "" {
		return fmt.Errorf("contract and method are required")
	}
	initiator, err := xaddress.Normalize(t.Initiator)
	if err != nil {
		return err
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(t.Signature, "0x"))
	if err != nil {
		return fmt.Errorf("decode signature failed: %v", err)
	}
	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("signature length %d, want %d", len(sig), crypto.SignatureLength)
	}
	hash, err := t.Hash()
	if err != nil {
		return err
	}
	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return fmt.Errorf("recover signer failed: %v", err)
	}
	if signer := crypto.PubkeyToAddress(*pub).Hex(); signer != initiator {
		return fmt.Errorf("signer %s is not initiator %s", signer, initiator)
	}
	return nil
}

// ArgBytes converts args to the kernel method form
func (t *Transaction) ArgBytes() map[string][]byte {
	args := make(map[string][]byte, len(t.Args))
	for k, v := range t.Args {
		args[k] = []byte(v)
	}
	return args
}
