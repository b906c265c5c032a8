package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codegate/constraint"
)

const sampleProfiles = `
profiles:
  strict:
    primary:
      max_cyclomatic_complexity: 8
      no_eval: true
      allowed_imports:
        - os
        - json
    secondary:
      require_docstrings: true
      max_parameters: 4
    guidance:
      - "Prefer small functions"
      - "Avoid cleverness"
    targets:
      - "src/**/*.py"
  relaxed:
    primary:
      no_eval: true
functions:
  parse_input:
    primary:
      max_parameters: 2
    guidance:
      - "Keep the parser table driven"
  mute_guidance:
    guidance: []
`

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	table, err := Load(writeProfiles(t, sampleProfiles))
	require.NoError(t, err)
	assert.Len(t, table.Profiles, 2)
	assert.Len(t, table.Functions, 2)
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := Load(writeProfiles(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestResolveBaseProfile(t *testing.T) {
	table, err := Parse([]byte(sampleProfiles))
	require.NoError(t, err)

	set, err := Resolve(table, "strict", "main")
	require.NoError(t, err)

	require.Len(t, set.Primary, 3)
	assert.Equal(t, "max_cyclomatic_complexity", set.Primary[0].Name)
	assert.Equal(t, 8, set.Primary[0].Threshold)
	assert.Equal(t, "allowed_imports", set.Primary[1].Name)
	assert.Equal(t, []string{"os", "json"}, set.Primary[1].Allowed)
	assert.Equal(t, "no_eval", set.Primary[2].Name)
	assert.True(t, set.Primary[2].Enabled)

	require.Len(t, set.Secondary, 2)
	assert.Equal(t, "require_docstrings", set.Secondary[0].Name)
	assert.Equal(t, "max_parameters", set.Secondary[1].Name)

	assert.Equal(t, []string{"Prefer small functions", "Avoid cleverness"}, set.Guidance)
}

func TestResolveUnknownProfile(t *testing.T) {
	table, err := Parse([]byte(sampleProfiles))
	require.NoError(t, err)

	_, err = Resolve(table, "nonexistent", "main")
	var unknown *UnknownProfileError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nonexistent", unknown.Name)
}

func TestResolveFunctionOverride(t *testing.T) {
	table, err := Parse([]byte(sampleProfiles))
	require.NoError(t, err)

	set, err := Resolve(table, "strict", "parse_input")
	require.NoError(t, err)

	// max_parameters moved from secondary to primary with the override value
	var names []string
	for _, spec := range set.Primary {
		names = append(names, spec.Name)
		if spec.Name == "max_parameters" {
			assert.Equal(t, 2, spec.Threshold)
		}
	}
	assert.Contains(t, names, "max_parameters")
	for _, spec := range set.Secondary {
		assert.NotEqual(t, "max_parameters", spec.Name)
	}

	// override guidance fully replaces the profile's
	assert.Equal(t, []string{"Keep the parser table driven"}, set.Guidance)
}

func TestResolveGuidanceReplaceWithEmpty(t *testing.T) {
	table, err := Parse([]byte(sampleProfiles))
	require.NoError(t, err)

	set, err := Resolve(table, "strict", "mute_guidance")
	require.NoError(t, err)
	assert.Empty(t, set.Guidance)
}

func TestResolveIdempotent(t *testing.T) {
	table, err := Parse([]byte(sampleProfiles))
	require.NoError(t, err)

	first, err := Resolve(table, "strict", "parse_input")
	require.NoError(t, err)
	second, err := Resolve(table, "strict", "parse_input")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// resolution never mutates the table
	assert.Len(t, table.Profiles["strict"].Secondary, 2)
}

func TestResolveUnknownConstraint(t *testing.T) {
	table, err := Parse([]byte(`
profiles:
  broken:
    primary:
      max_sorcery: 3
`))
	require.NoError(t, err)

	_, err = Resolve(table, "broken", "main")
	var unknown *constraint.UnknownConstraintError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "max_sorcery", unknown.Name)
}

func TestProfileMatches(t *testing.T) {
	p := Profile{Targets: []string{"src/**/*.py"}}
	assert.True(t, p.Matches("src/pkg/util.py"))
	assert.False(t, p.Matches("tests/test_util.py"))

	// no targets means the profile applies everywhere
	assert.True(t, Profile{}.Matches("anything.py"))
}
