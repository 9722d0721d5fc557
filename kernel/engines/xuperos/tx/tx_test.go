package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func TestSignVerify(t *testing.T) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	tx := New("", "Campaign", "Contribute", map[string]string{"campaign": "0x0000000000000000000000000000000000000900"}, "100")
	if err := tx.Sign(priv); err != nil {
		t.Fatal("sign failed", err)
	}
	if tx.Initiator != crypto.PubkeyToAddress(priv.PublicKey).Hex() {
		t.Fatal("sign should set initiator")
	}
	if err := tx.Verify(); err != nil {
		t.Fatal("verify failed", err)
	}

	h1, _ := tx.HashHex()
	tx.Value = "101"
	h2, _ := tx.HashHex()
	if h1 == h2 {
		t.Fatal("hash should cover value")
	}
	if err := tx.Verify(); err == nil {
		t.Fatal("tampered tx should not verify")
	}
}

func TestHashIgnoresSignature(t *testing.T) {
	tx := &Transaction{Contract: "Campaign", Method: "GetSummary", Nonce: 1, Args: map[string]string{"b": "2", "a": "1"}}
	h1, err := tx.HashHex()
	if err != nil {
		t.Fatal(err)
	}
	tx.Signature = "00"
	h2, _ := tx.HashHex()
	if h1 != h2 || len(h1) != 64 {
		t.Fatal("hash assert failed", h1, h2)
	}
}

func TestVerifyErrors(t *testing.T) {
	priv, _ := crypto.GenerateKey()
	other, _ := crypto.GenerateKey()

	tx := New("", "Campaign", "Contribute", nil, "")
	if err := tx.Sign(priv); err != nil {
		t.Fatal(err)
	}
	tx.Initiator = crypto.PubkeyToAddress(other.PublicKey).Hex()
	if err := tx.Verify(); err == nil {
		t.Fatal("wrong initiator should fail")
	}

	cases := []*Transaction{
		{Contract: "", Method: "m", Initiator: tx.Initiator, Signature: tx.Signature},
		{Contract: "c", Method: "m", Initiator: "bob", Signature: tx.Signature},
		{Contract: "c", Method: "m", Initiator: tx.Initiator, Signature: "zz"},
		{Contract: "c", Method: "m", Initiator: tx.Initiator, Signature: "0011"},
	}
	for i, c := range cases {
		if err := c.Verify(); err == nil {
			t.Errorf("case %d should fail", i)
		}
	}
	if err := tx.Sign(nil); err == nil {
		t.Fatal("sign without key should fail")
	}
}

func TestArgBytes(t *testing.T) {
	tx := &Transaction{Args: map[string]string{"index": "3"}}
	if string(tx.ArgBytes()["index"]) != "3" {
		t.Fatal("arg bytes assert failed")
	}
}
