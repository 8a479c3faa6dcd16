package names

// Gender is the gender implied by an honorific prefix.
type Gender int

// Gender values.
const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
)

// String returns the gender label.
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "unknown"
	}
}

// GenderOf returns the gender implied by a prefix, abbreviated or not.
func GenderOf(prefix string) Gender {
	switch NormalizePrefix(prefix) {
	case PrefixMr:
		return GenderMale
	case PrefixMrs, PrefixMiss:
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// Compatible reports whether two names may belong to the same person by
// honorific. Names conflict only when both genders are known and differ.
func Compatible(a, b Components) bool {
	ga, gb := GenderOf(a.Prefix), GenderOf(b.Prefix)
	return ga == GenderUnknown || gb == GenderUnknown || ga == gb
}
