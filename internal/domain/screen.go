package domain

// Screen is the view a client should render for the current auth state.
type Screen string

const (
	ScreenConfigurationError Screen = "configuration_error"
	ScreenSignIn             Screen = "sign_in"
	ScreenVerifying          Screen = "verifying"
	ScreenAccessDenied       Screen = "access_denied"
	ScreenDashboard          Screen = "dashboard"
)

// TherapistStatus is the tri-state result of the authorization check.
type TherapistStatus int

const (
	TherapistUnknown TherapistStatus = iota
	TherapistConfirmed
	TherapistDenied
)

// ScreenInput is a snapshot of everything that decides the current screen.
type ScreenInput struct {
	Configured bool
	HasSession bool
	Therapist  TherapistStatus
}

// ResolveScreen maps an auth snapshot to the screen to show.
func ResolveScreen(in ScreenInput) Screen {
	switch {
	case !in.Configured:
		return ScreenConfigurationError
	case !in.HasSession:
		return ScreenSignIn
	case in.Therapist == TherapistUnknown:
		return ScreenVerifying
	case in.Therapist == TherapistDenied:
		return ScreenAccessDenied
	default:
		return ScreenDashboard
	}
}
