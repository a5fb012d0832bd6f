package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_LoadString_emptyFileGivesDefaults(t *testing.T) {
	assert := assert.New(t)

	sessions, err := LoadString("")

	if !assert.NoError(err) {
		return
	}
	if !assert.Len(sessions, 1) {
		return
	}
	assert.Equal(Default(), sessions[0])
}

func Test_LoadString_defaultsOverlayBuiltins(t *testing.T) {
	assert := assert.New(t)

	sessions, err := LoadString(`
[defaults]
size = 50
structure = "stratified"
`)

	if !assert.NoError(err) {
		return
	}
	if !assert.Len(sessions, 1) {
		return
	}
	assert.Equal(50, sessions[0].Size)
	assert.Equal("stratified", sessions[0].Structure)

	// untouched settings keep their built-in values
	assert.Equal(100, sessions[0].Testcases)
	assert.Equal(0.2, sessions[0].EpsilonPercentage)
}

func Test_LoadString_sessionsOverlayDefaults(t *testing.T) {
	assert := assert.New(t)

	sessions, err := LoadString(`
[defaults]
testcases = 10
size = 50

[[session]]
size = 20

[[session]]
size = 30
epsilon_percentage = 0.5
`)

	if !assert.NoError(err) {
		return
	}
	if !assert.Len(sessions, 2) {
		return
	}

	assert.Equal(10, sessions[0].Testcases)
	assert.Equal(20, sessions[0].Size)
	assert.Equal(0.2, sessions[0].EpsilonPercentage)

	assert.Equal(10, sessions[1].Testcases)
	assert.Equal(30, sessions[1].Size)
	assert.Equal(0.5, sessions[1].EpsilonPercentage)
}

func Test_LoadString_legacySettingsStillParse(t *testing.T) {
	assert := assert.New(t)

	sessions, err := LoadString(`
[[session]]
active_automaton_pruning = false
active_removing_label = false
active_distance_check_in_translation = true
`)

	if !assert.NoError(err) {
		return
	}
	assert.False(sessions[0].ActiveAutomatonPruning)
	assert.False(sessions[0].ActiveRemovingLabel)
	assert.True(sessions[0].ActiveDistanceCheckInTranslation)
}

func Test_LoadString_invalid(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "bad TOML",
			input: "[[session]\n",
		},
		{
			name:  "zero testcases",
			input: "[[session]]\ntestcases = 0\n",
		},
		{
			name:  "unknown structure",
			input: "[[session]]\nstructure = \"spiral\"\n",
		},
		{
			name:  "epsilon percentage out of range",
			input: "[[session]]\nepsilon_percentage = 1.5\n",
		},
		{
			name:  "bad size",
			input: "[defaults]\nsize = 0\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := LoadString(tc.input)

			assert.Error(err)
		})
	}
}

func Test_Session_NFAOptions(t *testing.T) {
	assert := assert.New(t)

	s := Default()
	s.Size = 42
	s.Structure = "acyclic"

	opts := s.NFAOptions()

	assert.Equal(42, opts.Size)
	assert.Equal("acyclic", string(opts.Structure))
	assert.Equal(0.2, opts.EpsilonProbability)
	assert.Equal(0.1, opts.FinalProbability)
	assert.Equal(20, opts.MaxDistance)
	assert.Equal(10, opts.SafeZoneDistance)
}
