package outcome

// AllowedAccessLevels computes which measure tiers a requester may list.
// The admin tier is always included, even for a requester with no roles at
// all; the clinician and billing tiers require the matching role.
//
// TODO(product): confirm whether admin-tier measures should really be visible
// to every requester; the unconditional inclusion ships as-is today.
func AllowedAccessLevels(roles []string) []string {
	allowed := []string{AccessLevelAdmin}
	if containsRole(roles, AccessLevelClinician) {
		allowed = append(allowed, AccessLevelClinician)
	}
	if containsRole(roles, AccessLevelBilling) {
		allowed = append(allowed, AccessLevelBilling)
	}
	return allowed
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanMutateMeasure authorizes update and delete of a measure: only the
// creator or an admin may mutate. The same predicate applies to both
// operations.
func CanMutateMeasure(m *Measure, req *Requester) bool {
	if req.IsAdmin() {
		return true
	}
	return m.CreatorID == req.ID
}

// CanAccessResponse authorizes reading a scored response: the client who owns
// the file, or any user with a staff profile regardless of role. This is
// deliberately coarser than CanMutateMeasure and kept separate from it.
func CanAccessResponse(file *ClientFileInfo, req *Requester) bool {
	if req.StaffProfile {
		return true
	}
	return req.ClientID != nil && *req.ClientID == file.ClientID
}
