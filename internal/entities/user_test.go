package entities

import "testing"

func TestUser(t *testing.T) {
	u := User{Role: RoleOwner, IsActive: true}
	if u.IsAdmin() || u.CanRunBot() {
		t.Fatalf("owner without schema must not run a bot")
	}
	u.SchemaName = "tenant_7"
	if !u.CanRunBot() || u.BusinessID() != "tenant_7" {
		t.Fatalf("unexpected %+v", u)
	}
	u.IsActive = false
	if u.CanRunBot() {
		t.Fatalf("disabled owner must not run a bot")
	}
	if !(User{Role: RoleAdmin}).IsAdmin() {
		t.Fatalf("admin not recognized")
	}
}
