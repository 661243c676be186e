package main

// Compatibility scoring between two developer profiles.
// Five weighted factors, each sub-score in [0,100], weights summing to 1.0.

const (
	weightSkillOverlap  = 0.25
	weightComplementary = 0.35
	weightTypeCompat    = 0.15
	weightAvailability  = 0.15
	weightExperience    = 0.10
)

// compatibilityScore calculates the compatibility between two profiles as a
// float in [0,100]. It is a pure function of the profiles' attributes.
func compatibilityScore(a, b *Profile) float64 {
	aSkills := sliceToSet(a.Skills)
	bSkills := sliceToSet(b.Skills)
	aLooking := sliceToSet(a.LookingFor)
	bLooking := sliceToSet(b.LookingFor)

	score := skillOverlapScore(aSkills, bSkills) * weightSkillOverlap
	score += complementaryScore(aSkills, bSkills, aLooking, bLooking) * weightComplementary
	score += typeCompatibilityScore(a, b) * weightTypeCompat
	score += availabilityScore(a, b) * weightAvailability
	score += experienceScore(a, b) * weightExperience

	// With the current weights the sum cannot exceed 100, but keep the cap
	// so a future weight change cannot push scores out of range.
	if score > 100 {
		score = 100
	}
	return score
}

// skillOverlapScore rewards shared skills: shared count over the larger
// skill set, scaled to 100. Contributes 0 when either side lists no skills.
func skillOverlapScore(aSkills, bSkills map[string]struct{}) float64 {
	if len(aSkills) == 0 || len(bSkills) == 0 {
		return 0
	}
	overlap := intersectCount(aSkills, bSkills)
	maxSkills := len(aSkills)
	if len(bSkills) > maxSkills {
		maxSkills = len(bSkills)
	}
	return float64(overlap) / float64(maxSkills) * 100
}

// complementaryScore rewards each side possessing what the other side is
// looking for. Each direction is worth up to 50 points and contributes 0
// when that side desires nothing.
func complementaryScore(aSkills, bSkills, aLooking, bLooking map[string]struct{}) float64 {
	score := 0.0
	if len(bLooking) > 0 {
		bGets := intersectCount(aSkills, bLooking)
		score += float64(bGets) / float64(len(bLooking)) * 50
	}
	if len(aLooking) > 0 {
		aGets := intersectCount(bSkills, aLooking)
		score += float64(aGets) / float64(len(aLooking)) * 50
	}
	return score
}

// typeCompatibilityScore grants 50 points per side whose teammate
// preference is "any" or matches the other side's developer type.
func typeCompatibilityScore(a, b *Profile) float64 {
	score := 0.0
	if a.TeammatePreference == PreferenceAny || a.TeammatePreference == b.DeveloperType {
		score += 50
	}
	if b.TeammatePreference == PreferenceAny || b.TeammatePreference == a.DeveloperType {
		score += 50
	}
	return score
}

// availabilityScore is 100 for equal availability or when either side is
// flexible, otherwise 50. Never zero: mismatched schedules still get
// partial credit.
func availabilityScore(a, b *Profile) float64 {
	if a.Availability == b.Availability ||
		a.Availability == AvailabilityFlexible || b.Availability == AvailabilityFlexible {
		return 100
	}
	return 50
}

// experienceScore favors close experience levels: 100 within 3 years,
// 75 within 7, otherwise 50.
func experienceScore(a, b *Profile) float64 {
	diff := a.YearsOfExperience - b.YearsOfExperience
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 3:
		return 100
	case diff <= 7:
		return 75
	default:
		return 50
	}
}

func sliceToSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func intersectCount(a, b map[string]struct{}) int {
	// Iterate the smaller set
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
