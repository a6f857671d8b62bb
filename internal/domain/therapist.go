package domain

// RoleTherapist is the access-token role granted to authorized therapists.
const RoleTherapist = "therapist"

// Therapist is an authorized clinician. Presence of a therapist row for an
// identity is what grants dashboard access.
type Therapist struct {
	ID       string
	FullName string
}

// Patient is a subject assigned to a therapist.
type Patient struct {
	ID              string
	UniqueDisplayID string
	ConsentToShare  bool
}
