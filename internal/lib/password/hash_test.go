package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "regular password",
			password: "admin123",
			wantErr:  false,
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
			wantErr:  false,
		},
		{
			name:     "unicode password",
			password: "كلمة-سر-1",
			wantErr:  false,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := h.Hash(tt.password)

			if (err != nil) != tt.wantErr {
				t.Errorf("Hash() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if gotHash == tt.password {
				t.Error("Hash() returned the plaintext")
			}
			if err := h.Compare(gotHash, tt.password); err != nil {
				t.Errorf("Generated hash doesn't work with original password: %v", err)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	correctHash, err := h.Hash("correct_password")
	if err != nil {
		t.Fatalf("Failed to create test hash: %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
		anyErr   bool
	}{
		{
			name:     "matching password",
			hash:     correctHash,
			password: "correct_password",
		},
		{
			name:     "wrong password",
			hash:     correctHash,
			password: "wrong_password",
			wantErr:  ErrMismatch,
		},
		{
			name:     "empty password",
			hash:     correctHash,
			password: "",
			wantErr:  ErrMismatch,
		},
		{
			name:     "corrupted hash",
			hash:     "not-a-bcrypt-hash",
			password: "correct_password",
			anyErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Compare(tt.hash, tt.password)

			switch {
			case tt.wantErr != nil:
				if err != tt.wantErr {
					t.Errorf("Compare() error = %v, want %v", err, tt.wantErr)
				}
			case tt.anyErr:
				if err == nil || err == ErrMismatch {
					t.Errorf("Compare() error = %v, want wrapped bcrypt error", err)
				}
			default:
				if err != nil {
					t.Errorf("Compare() should succeed, got error: %v", err)
				}
			}
		})
	}
}

func TestNewHasher_CostBounds(t *testing.T) {
	if got := NewHasher(0).cost; got != bcrypt.DefaultCost {
		t.Errorf("cost below range = %d, want %d", got, bcrypt.DefaultCost)
	}
	if got := NewHasher(bcrypt.MaxCost + 1).cost; got != bcrypt.DefaultCost {
		t.Errorf("cost above range = %d, want %d", got, bcrypt.DefaultCost)
	}
	if got := NewHasher(12).cost; got != 12 {
		t.Errorf("cost = %d, want 12", got)
	}
}

func TestHash_DifferentSaltsForSamePassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash1, err := h.Hash("password1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	hash2, err := h.Hash("password1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Same password produced identical hashes, salt is missing")
	}
}
