package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func frontendDev() *Profile {
	return &Profile{
		ID:                 1,
		DisplayName:        "Ada",
		DeveloperType:      TypeFrontend,
		TeammatePreference: TypeBackend,
		Skills:             []string{"react", "typescript"},
		LookingFor:         []string{"python"},
		YearsOfExperience:  4,
		Availability:       AvailabilityFullTime,
	}
}

func backendDev() *Profile {
	return &Profile{
		ID:                 2,
		DisplayName:        "Linus",
		DeveloperType:      TypeBackend,
		TeammatePreference: TypeFrontend,
		Skills:             []string{"python", "django"},
		LookingFor:         []string{"react"},
		YearsOfExperience:  6,
		Availability:       AvailabilityFullTime,
	}
}

func TestCompatibilityScoreComplementaryPair(t *testing.T) {
	// No shared skills, fully complementary wants, matching type
	// preferences, equal availability, 2 years apart:
	// 0*0.25 + 100*0.35 + 100*0.15 + 100*0.15 + 100*0.10 = 75.0
	score := compatibilityScore(frontendDev(), backendDev())
	assert.InDelta(t, 75.0, score, 1e-9)
}

func TestCompatibilityScoreRange(t *testing.T) {
	profiles := []*Profile{
		frontendDev(),
		backendDev(),
		{DeveloperType: TypeML, TeammatePreference: TypeData, Availability: AvailabilityWeekends, YearsOfExperience: 20},
		{DeveloperType: TypeOther, TeammatePreference: PreferenceAny, Skills: []string{"docker"}, LookingFor: []string{"docker"}, Availability: AvailabilityFlexible},
		{DeveloperType: TypeMobile, TeammatePreference: TypeMobile, Skills: []string{"react", "vue", "python", "django"}, Availability: AvailabilityPartTime, YearsOfExperience: 1},
	}

	for _, a := range profiles {
		for _, b := range profiles {
			score := compatibilityScore(a, b)
			if score < 0 || score > 100 {
				t.Errorf("score out of range: %f for %q vs %q", score, a.DeveloperType, b.DeveloperType)
			}
		}
	}
}

func TestCompatibilityScoreDeterministic(t *testing.T) {
	a, b := frontendDev(), backendDev()
	first := compatibilityScore(a, b)
	for i := 0; i < 10; i++ {
		if got := compatibilityScore(a, b); got != first {
			t.Fatalf("score not deterministic: %f vs %f", got, first)
		}
	}
}

func TestCompatibilityScoreSymmetric(t *testing.T) {
	// The complementary term mixes both directions additively, so the
	// score must not depend on argument order.
	cases := [][2]*Profile{
		{frontendDev(), backendDev()},
		{frontendDev(), {DeveloperType: TypeDevops, TeammatePreference: PreferenceAny, Skills: []string{"docker", "python"}, LookingFor: []string{"react", "vue"}, YearsOfExperience: 12, Availability: AvailabilityWeekends}},
	}
	for _, c := range cases {
		ab := compatibilityScore(c[0], c[1])
		ba := compatibilityScore(c[1], c[0])
		assert.Equal(t, ab, ba, "score(a,b) must equal score(b,a)")
	}
}

func TestSkillOverlapScore(t *testing.T) {
	t.Run("Empty side contributes zero", func(t *testing.T) {
		a := &Profile{Skills: nil}
		b := backendDev()
		got := skillOverlapScore(sliceToSet(a.Skills), sliceToSet(b.Skills))
		assert.Zero(t, got)
	})

	t.Run("Shared over larger set", func(t *testing.T) {
		a := sliceToSet([]string{"react", "python"})
		b := sliceToSet([]string{"python", "django", "docker", "postgresql"})
		// 1 shared of max(2,4)=4
		assert.InDelta(t, 25.0, skillOverlapScore(a, b), 1e-9)
	})
}

func TestComplementaryScoreHalves(t *testing.T) {
	aSkills := sliceToSet([]string{"react"})
	bSkills := sliceToSet([]string{})
	aLooking := sliceToSet([]string{"python", "django"})
	bLooking := sliceToSet([]string{"react"})

	// b's wants fully covered (50); a's wants not covered at all (0)
	assert.InDelta(t, 50.0, complementaryScore(aSkills, bSkills, aLooking, bLooking), 1e-9)

	// Desiring nothing contributes zero, not a division by zero
	assert.Zero(t, complementaryScore(aSkills, bSkills, sliceToSet(nil), sliceToSet(nil)))
}

func TestAvailabilityScore(t *testing.T) {
	a, b := frontendDev(), backendDev()

	a.Availability, b.Availability = AvailabilityFullTime, AvailabilityFullTime
	assert.Equal(t, 100.0, availabilityScore(a, b))

	a.Availability, b.Availability = AvailabilityPartTime, AvailabilityFlexible
	assert.Equal(t, 100.0, availabilityScore(a, b))

	// Mismatch still earns partial credit, never zero
	a.Availability, b.Availability = AvailabilityPartTime, AvailabilityWeekends
	assert.Equal(t, 50.0, availabilityScore(a, b))
}

func TestExperienceScoreBrackets(t *testing.T) {
	a, b := frontendDev(), backendDev()
	for _, tc := range []struct {
		yearsA, yearsB int
		want           float64
	}{
		{5, 5, 100},
		{2, 5, 100}, // diff 3 is still the top bracket
		{0, 7, 75},
		{7, 0, 75},
		{10, 2, 50},
		{1, 30, 50}, // the floor is 50, never lower
	} {
		a.YearsOfExperience, b.YearsOfExperience = tc.yearsA, tc.yearsB
		assert.Equal(t, tc.want, experienceScore(a, b), "years %d vs %d", tc.yearsA, tc.yearsB)
	}
}

func TestTypeCompatibilityScore(t *testing.T) {
	a, b := frontendDev(), backendDev()
	assert.Equal(t, 100.0, typeCompatibilityScore(a, b))

	b.TeammatePreference = TypeDevops
	assert.Equal(t, 50.0, typeCompatibilityScore(a, b))

	a.TeammatePreference = TypeMobile
	assert.Equal(t, 0.0, typeCompatibilityScore(a, b))

	a.TeammatePreference = PreferenceAny
	b.TeammatePreference = PreferenceAny
	assert.Equal(t, 100.0, typeCompatibilityScore(a, b))
}
