package outcome

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestAllowedAccessLevels(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  []string
	}{
		{"no roles still sees admin tier", nil, []string{"admin"}},
		{"clinician", []string{"clinician"}, []string{"admin", "clinician"}},
		{"billing", []string{"billing"}, []string{"admin", "billing"}},
		{"clinician and billing", []string{"clinician", "billing"}, []string{"admin", "clinician", "billing"}},
		{"admin role adds nothing extra", []string{"admin"}, []string{"admin"}},
		{"unknown roles ignored", []string{"intern", "scheduler"}, []string{"admin"}},
		{"duplicate roles do not duplicate tiers", []string{"clinician", "clinician"}, []string{"admin", "clinician"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllowedAccessLevels(tt.roles)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AllowedAccessLevels(%v) = %v, want %v", tt.roles, got, tt.want)
			}
		})
	}
}

func TestCanMutateMeasure(t *testing.T) {
	creator := uuid.New()
	other := uuid.New()
	m := &Measure{ID: uuid.New(), CreatorID: creator}

	tests := []struct {
		name string
		req  *Requester
		want bool
	}{
		{"creator may mutate", &Requester{ID: creator, Roles: []string{"clinician"}}, true},
		{"admin may mutate", &Requester{ID: other, Roles: []string{"admin"}}, true},
		{"other clinician may not", &Requester{ID: other, Roles: []string{"clinician"}}, false},
		{"roleless non-creator may not", &Requester{ID: other}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutateMeasure(m, tt.req); got != tt.want {
				t.Errorf("CanMutateMeasure = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanAccessResponse(t *testing.T) {
	clientID := uuid.New()
	otherClient := uuid.New()
	file := &ClientFileInfo{ID: uuid.New(), ClientID: clientID}

	tests := []struct {
		name string
		req  *Requester
		want bool
	}{
		{"owning client", &Requester{ID: uuid.New(), ClientID: &clientID}, true},
		{"different client", &Requester{ID: uuid.New(), ClientID: &otherClient}, false},
		{"staff profile without roles", &Requester{ID: uuid.New(), StaffProfile: true}, true},
		{"staff profile with billing role", &Requester{ID: uuid.New(), Roles: []string{"billing"}, StaffProfile: true}, true},
		{"no client record and no staff profile", &Requester{ID: uuid.New()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccessResponse(file, tt.req); got != tt.want {
				t.Errorf("CanAccessResponse = %v, want %v", got, tt.want)
			}
		})
	}
}
