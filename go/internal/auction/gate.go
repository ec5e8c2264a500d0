package auction

// PasscodeSessionKey is where the operator's passcode token is kept.
const PasscodeSessionKey = "tplPasscode"

// DefaultPasscode unlocks the desk controls when none is configured.
const DefaultPasscode = "abc123"

// Gate decides whether the desk controls are shown. It only hides them;
// the backend accepts assignments from anyone.
type Gate struct {
	passcode string
}

func NewGate(passcode string) Gate {
	if passcode == "" {
		passcode = DefaultPasscode
	}
	return Gate{passcode: passcode}
}

// Allows compares the stored token by exact equality.
func (g Gate) Allows(token string) bool {
	return token == g.passcode
}
