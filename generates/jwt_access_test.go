package generates

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authgate/authgate"
)

func testAuthorization() *authgate.Authorization {
	return &authgate.Authorization{
		ID:       "a1",
		Flow:     authgate.Code,
		OwnerID:  "000000",
		ClientID: "111111",
		Scope:    authgate.Scope{"read", "write"},
	}
}

func TestJWTAccessRoundTrip(t *testing.T) {
	ctx := context.Background()
	gen := NewJWTAccessGenerate("", []byte("00000000"), jwt.SigningMethodHS512)

	access, err := gen.Token(ctx, testAuthorization(), 2*time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	bc, err := gen.Verify(ctx, access)
	if err != nil {
		t.Fatal(err)
	}
	if bc.OwnerID != "000000" {
		t.Errorf("OwnerID = %q", bc.OwnerID)
	}
	if bc.ClientID != "111111" {
		t.Errorf("ClientID = %q", bc.ClientID)
	}
	if bc.Scope.String() != "read write" {
		t.Errorf("Scope = %q", bc.Scope.String())
	}
}

func TestJWTAccessVerifyRejects(t *testing.T) {
	ctx := context.Background()
	gen := NewJWTAccessGenerate("", []byte("00000000"), jwt.SigningMethodHS512)

	t.Run("garbage", func(t *testing.T) {
		if _, err := gen.Verify(ctx, "not.a.jwt"); err == nil {
			t.Error("expected verification failure")
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewJWTAccessGenerate("", []byte("another-key"), jwt.SigningMethodHS512)
		access, err := other.Token(ctx, testAuthorization(), time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := gen.Verify(ctx, access); err == nil {
			t.Error("expected verification failure")
		}
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		other := NewJWTAccessGenerate("", []byte("00000000"), jwt.SigningMethodHS256)
		access, err := other.Token(ctx, testAuthorization(), time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := gen.Verify(ctx, access); err == nil {
			t.Error("expected verification failure")
		}
	})

	t.Run("expired", func(t *testing.T) {
		access, err := gen.Token(ctx, testAuthorization(), -time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := gen.Verify(ctx, access); err == nil {
			t.Error("expected verification failure")
		}
	})
}

func TestJWTAccessEmptySubject(t *testing.T) {
	ctx := context.Background()
	gen := NewJWTAccessGenerate("", []byte("00000000"), jwt.SigningMethodHS512)

	auth := testAuthorization()
	auth.OwnerID = ""
	access, err := gen.Token(ctx, auth, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	bc, err := gen.Verify(ctx, access)
	if err != nil {
		t.Fatal(err)
	}
	if bc.OwnerID != "" {
		t.Errorf("OwnerID = %q, want empty", bc.OwnerID)
	}
}

func TestAuthorizeGenerate(t *testing.T) {
	gen := NewAuthorizeGenerate()

	code, err := gen.Code(context.Background(), testAuthorization())
	if err != nil {
		t.Fatal(err)
	}
	if code == "" {
		t.Fatal("empty code")
	}

	other, err := gen.Code(context.Background(), testAuthorization())
	if err != nil {
		t.Fatal(err)
	}
	if code == other {
		t.Error("codes must not repeat")
	}
}
