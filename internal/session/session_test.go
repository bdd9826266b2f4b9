package session

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestParseRoundTrip(t *testing.T) {
	token, err := Issue("user-123", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	sess, err := Parse(token, testSecret)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sess.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", sess.UserID, "user-123")
	}
	if sess.Expired(time.Now()) {
		t.Error("fresh session reported expired")
	}
	if !sess.Expired(time.Now().Add(2 * time.Hour)) {
		t.Error("session not expired past its expiry")
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, err := Issue("user-123", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := Parse(token, "other-secret"); err != ErrInvalidToken {
		t.Errorf("Parse with wrong secret: err = %v, want %v", err, ErrInvalidToken)
	}
}

func TestParseExpiredToken(t *testing.T) {
	token, err := Issue("user-123", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := Parse(token, testSecret); err != ErrInvalidToken {
		t.Errorf("Parse expired token: err = %v, want %v", err, ErrInvalidToken)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse("not-a-token", testSecret); err != ErrInvalidToken {
		t.Errorf("Parse garbage: err = %v, want %v", err, ErrInvalidToken)
	}
}

func TestSessionWithoutExpiryNeverExpires(t *testing.T) {
	sess := &Session{UserID: "u"}
	if sess.Expired(time.Now().Add(1000 * time.Hour)) {
		t.Error("session without expiry reported expired")
	}
}
