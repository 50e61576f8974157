package models

// Profile names a strictness bundle for the external checker. It is owned
// by the scaffolder; the analysis side is checker-agnostic and never reads
// it.
type Profile string

const (
	ProfileBasic    Profile = "basic"
	ProfileStandard Profile = "standard"
	ProfileStrict   Profile = "strict"
)

// Profiles lists the recognized profiles in escalation order.
var Profiles = []Profile{ProfileBasic, ProfileStandard, ProfileStrict}

// ParseProfile validates a profile name.
func ParseProfile(name string) (Profile, bool) {
	p := Profile(name)
	for _, known := range Profiles {
		if p == known {
			return p, true
		}
	}
	return "", false
}
