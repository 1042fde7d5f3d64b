package models

import "testing"

func TestConversationKey(t *testing.T) {
	tests := []struct {
		name string
		a, b uint
		want string
	}{
		{name: "ordered", a: 3, b: 7, want: "3-7"},
		{name: "reversed", a: 7, b: 3, want: "3-7"},
		{name: "same pair from either side", a: 12, b: 5, want: "5-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConversationKey(tt.a, tt.b); got != tt.want {
				t.Errorf("ConversationKey(%d, %d) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleMember, RoleAdmin, RoleChefDEquipe} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "superuser", "Member"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}

func TestProfileIsStaff(t *testing.T) {
	if !(&Profile{Role: RoleAdmin}).IsStaff() {
		t.Error("admin profile should be staff")
	}
	if (&Profile{Role: RoleMember}).IsStaff() {
		t.Error("member profile should not be staff")
	}
	if (&Profile{Role: RoleChefDEquipe}).IsStaff() {
		t.Error("chef d'equipe is not staff")
	}
}

func TestValidProjectStatus(t *testing.T) {
	if !ValidProjectStatus(ProjectStatusActive) {
		t.Errorf("ValidProjectStatus(%q) = false", ProjectStatusActive)
	}
	if ValidProjectStatus("finished") {
		t.Error(`ValidProjectStatus("finished") = true`)
	}
}

func TestValidEventType(t *testing.T) {
	if !ValidEventType(EventTypeConference) {
		t.Errorf("ValidEventType(%q) = false", EventTypeConference)
	}
	if ValidEventType("party") {
		t.Error(`ValidEventType("party") = true`)
	}
}
