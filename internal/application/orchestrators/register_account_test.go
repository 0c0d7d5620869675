package orchestrators

import (
	"context"
	"testing"

	"lifeline/internal/domain/user"
)

// TestRegister_CreatesUnverifiedUser verifies the happy path.
func TestRegister_CreatesUnverifiedUser(t *testing.T) {
	store := newMemUserStore()
	deps := RegisterDeps{UserStore: store, GenerateID: newSeqID(), Now: testClock}

	u, err := ExecuteRegister(context.Background(), RegisterInput{
		Name:            "Maria Santos",
		Email:           "maria@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.Role != user.RoleUser {
		t.Errorf("expected role user, got %s", u.Role)
	}
	if u.Verified {
		t.Error("new accounts start unverified")
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret1" {
		t.Error("password must be stored hashed")
	}
	if _, ok := store.users["maria@example.com"]; !ok {
		t.Error("user not persisted")
	}
}

// TestRegister_ValidationOrder walks the signup form's failure order.
func TestRegister_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"short name", RegisterInput{Name: "Jo", Email: "jo@example.com", Password: "secret1", ConfirmPassword: "secret1"}, user.ErrNameTooShort},
		{"bad email", RegisterInput{Name: "Jose Rizal", Email: "nope", Password: "secret1", ConfirmPassword: "secret1"}, user.ErrInvalidEmail},
		{"short password", RegisterInput{Name: "Jose Rizal", Email: "jose@example.com", Password: "abc", ConfirmPassword: "abc"}, user.ErrPasswordTooShort},
		{"mismatch", RegisterInput{Name: "Jose Rizal", Email: "jose@example.com", Password: "secret1", ConfirmPassword: "secret2"}, user.ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemUserStore()
			deps := RegisterDeps{UserStore: store, GenerateID: newSeqID(), Now: testClock}
			_, err := ExecuteRegister(context.Background(), tt.input, deps)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(store.users) != 0 {
				t.Error("nothing should be written on validation failure")
			}
		})
	}
}

// TestRegister_DuplicateEmail verifies a taken email is rejected.
func TestRegister_DuplicateEmail(t *testing.T) {
	store := newMemUserStore()
	store.users["taken@example.com"] = user.User{ID: "u-1", Email: "taken@example.com"}
	deps := RegisterDeps{UserStore: store, GenerateID: newSeqID(), Now: testClock}

	_, err := ExecuteRegister(context.Background(), RegisterInput{
		Name:            "Maria Santos",
		Email:           "taken@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}, deps)
	if err != user.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

// TestUpdateProfile_RenamesOnly verifies email stays immutable across a
// rename and that an unchanged name skips the save.
func TestUpdateProfile_RenamesOnly(t *testing.T) {
	store := newMemUserStore()
	store.users["maria@example.com"] = user.User{ID: "u-1", Name: "Maria", Email: "maria@example.com"}
	deps := RegisterDeps{UserStore: store, GenerateID: newSeqID(), Now: testClock}

	u, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{UserID: "u-1", Name: "Maria Santos"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "Maria Santos" {
		t.Errorf("expected renamed, got %s", u.Name)
	}
	if u.Email != "maria@example.com" {
		t.Errorf("email must not change, got %s", u.Email)
	}

	savesBefore := store.saves
	if _, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{UserID: "u-1", Name: "Maria Santos"}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.saves != savesBefore {
		t.Error("unchanged name should be a no-op")
	}
}

// TestDeleteAccount_RequiresConfirmation verifies the confirm flag gates
// deletion.
func TestDeleteAccount_RequiresConfirmation(t *testing.T) {
	store := newMemUserStore()
	store.users["maria@example.com"] = user.User{ID: "u-1", Email: "maria@example.com"}
	deps := RegisterDeps{UserStore: store, GenerateID: newSeqID(), Now: testClock}

	if err := ExecuteDeleteAccount(context.Background(), DeleteAccountInput{UserID: "u-1"}, deps); err != ErrDeleteNotConfirmed {
		t.Errorf("expected ErrDeleteNotConfirmed, got %v", err)
	}
	if len(store.users) != 1 {
		t.Fatal("account must survive an unconfirmed delete")
	}

	if err := ExecuteDeleteAccount(context.Background(), DeleteAccountInput{UserID: "u-1", Confirm: true}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.users) != 0 {
		t.Error("account should be gone after confirmed delete")
	}
}
