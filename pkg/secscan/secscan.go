// Package secscan runs trufflehog over the files about to be committed and
// reports any detected secrets before they reach history.
package secscan

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Finding is one secret detected in a file.
type Finding struct {
	Detector string
	File     string
	Line     int
	Redacted string
	Verified bool
}

func (f Finding) String() string {
	state := "unverified"
	if f.Verified {
		state = "verified"
	}
	return fmt.Sprintf("%s secret (%s) in %s:%d", f.Detector, state, f.File, f.Line)
}

// Scanner shells out to the trufflehog binary. When the binary is not
// installed the scan is skipped rather than blocking commits.
type Scanner struct {
	binary string
}

func NewScanner() *Scanner {
	path, err := exec.LookPath("trufflehog")
	if err != nil {
		log.Debug().Msg("trufflehog not found, secret scanning disabled")
		return &Scanner{}
	}
	return &Scanner{binary: path}
}

// Enabled reports whether the trufflehog binary was found.
func (s *Scanner) Enabled() bool { return s.binary != "" }

// ScanFiles scans the given repository-relative paths and returns any
// findings. A missing binary yields no findings and no error.
func (s *Scanner) ScanFiles(ctx context.Context, repoRoot string, paths []string) ([]Finding, error) {
	if !s.Enabled() || len(paths) == 0 {
		return nil, nil
	}

	args := []string{"filesystem", "--json", "--no-update"}
	for _, p := range paths {
		args = append(args, filepath.Join(repoRoot, p))
	}

	cmd := exec.CommandContext(ctx, s.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// trufflehog exits nonzero with --fail when secrets are found; we
		// do not pass it, so a nonzero exit means the tool itself failed.
		return nil, fmt.Errorf("trufflehog failed: %w: %s", err, stderr.String())
	}

	findings := parseFindings(&stdout)
	for i := range findings {
		if rel, err := filepath.Rel(repoRoot, findings[i].File); err == nil {
			findings[i].File = rel
		}
	}
	return findings, nil
}

// trufflehogRecord mirrors the subset of trufflehog's JSON output we need.
type trufflehogRecord struct {
	DetectorName   string `json:"DetectorName"`
	Verified       bool   `json:"Verified"`
	Redacted       string `json:"Redacted"`
	SourceMetadata struct {
		Data struct {
			Filesystem struct {
				File string `json:"file"`
				Line int    `json:"line"`
			} `json:"Filesystem"`
		} `json:"Data"`
	} `json:"SourceMetadata"`
}

// parseFindings decodes trufflehog's line-delimited JSON output, skipping
// log lines and anything else that does not parse.
func parseFindings(r io.Reader) []Finding {
	var findings []Finding
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var rec trufflehogRecord
		if err := json.Unmarshal(line, &rec); err != nil || rec.DetectorName == "" {
			continue
		}
		findings = append(findings, Finding{
			Detector: rec.DetectorName,
			File:     rec.SourceMetadata.Data.Filesystem.File,
			Line:     rec.SourceMetadata.Data.Filesystem.Line,
			Redacted: rec.Redacted,
			Verified: rec.Verified,
		})
	}
	return findings
}
