package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	const connStr = "postgres://questlog@localhost:5432/questlog?sslmode=disable"
	if err := Connection.Set(connStr); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, err := Connection.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("Get() = %q, want %q", got, connStr)
	}

	if err := Connection.Delete(); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Connection.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete() error = %v, want %v", err, ErrNotFound)
	}
	if err := Connection.Delete(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestSetRejectsEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := Connection.Set(""); err == nil {
		t.Error("Set(\"\") should fail")
	}
}

func TestEntriesAreSeparate(t *testing.T) {
	gokeyring.MockInit()

	other := Entry{Service: Connection.Service, Account: "staging"}
	if err := other.Set("postgres://staging"); err != nil {
		t.Fatal(err)
	}
	if _, err := Connection.Get(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Connection.Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus session"))
	t.Cleanup(gokeyring.MockInit)

	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
	if _, err := Connection.Get(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() error = %v, want %v", err, ErrKeyringUnavailable)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
