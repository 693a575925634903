package secscan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFindings(t *testing.T) {
	t.Run("decodes findings and skips noise", func(t *testing.T) {
		output := strings.Join([]string{
			`2026-08-29T10:00:00Z info trufflehog starting scan`,
			`{"DetectorName":"AWS","Verified":true,"Redacted":"AKIA****","SourceMetadata":{"Data":{"Filesystem":{"file":"/repo/config.yaml","line":12}}}}`,
			``,
			`not json at all`,
			`{"DetectorName":"Github","Verified":false,"Redacted":"ghp_****","SourceMetadata":{"Data":{"Filesystem":{"file":"/repo/.env","line":3}}}}`,
		}, "\n")

		findings := parseFindings(strings.NewReader(output))
		require.Len(t, findings, 2)
		assert.Equal(t, "AWS", findings[0].Detector)
		assert.Equal(t, "/repo/config.yaml", findings[0].File)
		assert.Equal(t, 12, findings[0].Line)
		assert.True(t, findings[0].Verified)
		assert.Equal(t, "Github", findings[1].Detector)
		assert.False(t, findings[1].Verified)
	})

	t.Run("json without detector is ignored", func(t *testing.T) {
		findings := parseFindings(strings.NewReader(`{"level":"info","msg":"done"}`))
		assert.Empty(t, findings)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, parseFindings(strings.NewReader("")))
	})
}

func TestFindingString(t *testing.T) {
	f := Finding{Detector: "AWS", File: "config.yaml", Line: 12, Verified: true}
	assert.Equal(t, "AWS secret (verified) in config.yaml:12", f.String())

	f.Verified = false
	assert.Contains(t, f.String(), "unverified")
}

func TestScannerDisabled(t *testing.T) {
	s := &Scanner{}
	assert.False(t, s.Enabled())
	findings, err := s.ScanFiles(t.Context(), "/tmp", []string{"a.go"})
	require.NoError(t, err)
	assert.Empty(t, findings)
}
