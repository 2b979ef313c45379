package config

import "strings"

// Profile selects which set of pages a build renders.
type Profile string

const (
	// ProfileBio renders a homepage with a bio block above a compact post list.
	ProfileBio Profile = "bio"
	// ProfileFull renders summary listings plus /posts/ and /about/ pages.
	ProfileFull Profile = "full"
)

// NormalizeProfile maps user input onto a known profile, defaulting to ProfileBio.
// Unknown values are kept so Validate can report them.
func NormalizeProfile(raw string) Profile {
	switch p := strings.ToLower(strings.TrimSpace(raw)); p {
	case "", string(ProfileBio):
		return ProfileBio
	case string(ProfileFull):
		return ProfileFull
	default:
		return Profile(p)
	}
}

// HasListingPages reports whether the profile writes /posts/ and /about/.
func (p Profile) HasListingPages() bool {
	return p == ProfileFull
}
