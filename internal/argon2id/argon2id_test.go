package argon2id

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeAndVerify(t *testing.T) {
	hash, err := EncodeHash("hunter22", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("hash = %q, want $argon2id$ prefix", hash)
	}

	match, err := Verify("hunter22", hash)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !match {
		t.Error("Verify() = false for the correct password")
	}

	match, err = Verify("hunter23", hash)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if match {
		t.Error("Verify() = true for the wrong password")
	}
}

func TestEncodeHashUsesFreshSalt(t *testing.T) {
	first, err := EncodeHash("hunter22", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}
	second, err := EncodeHash("hunter22", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}

func TestDecodeHash(t *testing.T) {
	hash, err := EncodeHash("hunter22", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}

	p, salt, key, err := DecodeHash(hash)
	if err != nil {
		t.Fatalf("DecodeHash() error = %v", err)
	}
	if p.Memory != DefaultMemory || p.Iterations != DefaultIterations || p.Parallelism != DefaultParallelism {
		t.Errorf("params = %+v, want defaults", p)
	}
	if len(salt) != DefaultSaltLength {
		t.Errorf("salt length = %d, want %d", len(salt), DefaultSaltLength)
	}
	if len(key) != DefaultKeyLength {
		t.Errorf("key length = %d, want %d", len(key), DefaultKeyLength)
	}
}

func TestDecodeHashRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "empty", hash: ""},
		{name: "not argon2id", hash: "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{name: "too few sections", hash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := DecodeHash(tt.hash); !errors.Is(err, ErrInvalidHash) {
				t.Errorf("DecodeHash() error = %v, want ErrInvalidHash", err)
			}
		})
	}
}
