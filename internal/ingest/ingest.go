// Package ingest normalizes dependency-scanner reports into triage records.
package ingest

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/logger"
)

var cvePattern = regexp.MustCompile(`^CVE-\d{4}-\d{4,}$`)

// rawVulnerability is the wire shape of a single finding. Scanners disagree
// on field names, so a few aliases are accepted.
type rawVulnerability struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Message     string   `json:"message"`
	Severity    string   `json:"severity"`
	CVE         string   `json:"cve"`
	CWE         string   `json:"cwe"`
	CWEs        []string `json:"cwes"`
	File        string   `json:"file"`
	FilePath    string   `json:"filePath"`
	Line        int      `json:"line"`
	Rule        string   `json:"rule"`
	Confidence  float64  `json:"confidence"`
}

// dependency is one entry of an OWASP Dependency-Check report.
type dependency struct {
	FileName        string             `json:"fileName"`
	FilePath        string             `json:"filePath"`
	Vulnerabilities []rawVulnerability `json:"vulnerabilities"`
}

// reportEnvelope covers the two object-shaped report formats: a
// Dependency-Check document and a plain wrapper with a vulnerabilities field.
type reportEnvelope struct {
	Dependencies    []dependency       `json:"dependencies"`
	Vulnerabilities []rawVulnerability `json:"vulnerabilities"`
}

// Parser normalizes scanner reports. Severity overrides, keyed by rule ID or
// finding name, replace the reported severity before scoring.
type Parser struct {
	SeverityOverrides map[string]string

	logger logger.Logger
}

// NewParser creates a report parser.
func NewParser() *Parser {
	return NewParserWithLogger(logger.GetGlobalLogger())
}

// NewParserWithLogger creates a report parser with a custom logger.
func NewParserWithLogger(log logger.Logger) *Parser {
	return &Parser{logger: log}
}

// Parse accepts a report in any of the three supported shapes (direct array,
// Dependency-Check document, or wrapper object) and returns normalized,
// validated records.
func (p *Parser) Parse(data []byte) ([]models.Vulnerability, error) {
	var direct []rawVulnerability
	if err := json.Unmarshal(data, &direct); err == nil {
		return p.normalize(direct)
	}

	var envelope reportEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parsing report JSON: %w", err)
	}

	switch {
	case len(envelope.Dependencies) > 0:
		return p.normalize(flattenDependencies(envelope.Dependencies))
	case envelope.Vulnerabilities != nil:
		return p.normalize(envelope.Vulnerabilities)
	default:
		return nil, fmt.Errorf("unrecognized report format: no vulnerabilities or dependencies field")
	}
}

// flattenDependencies expands the nested Dependency-Check structure,
// carrying the dependency's file path onto each finding.
func flattenDependencies(deps []dependency) []rawVulnerability {
	var flat []rawVulnerability
	for _, dep := range deps {
		for _, raw := range dep.Vulnerabilities {
			if raw.File == "" && raw.FilePath == "" {
				if dep.FilePath != "" {
					raw.File = dep.FilePath
				} else {
					raw.File = dep.FileName
				}
			}
			flat = append(flat, raw)
		}
	}
	return flat
}

// ParseResult reads a triage result previously serialized by the pipeline.
func ParseResult(data []byte) (*models.TriageResult, error) {
	var result models.TriageResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing triage result JSON: %w", err)
	}
	return &result, nil
}

func (p *Parser) normalize(raws []rawVulnerability) ([]models.Vulnerability, error) {
	vulns := make([]models.Vulnerability, 0, len(raws))

	for i, raw := range raws {
		vuln := models.Vulnerability{
			ID:          raw.ID,
			Name:        raw.Name,
			Description: raw.Description,
			Message:     raw.Message,
			Severity:    models.NormalizeSeverity(raw.Severity),
			CVE:         raw.CVE,
			CWE:         raw.CWE,
			File:        raw.File,
			Line:        raw.Line,
			Rule:        raw.Rule,
			Confidence:  raw.Confidence,
		}

		if vuln.File == "" {
			vuln.File = raw.FilePath
		}
		if vuln.CWE == "" && len(raw.CWEs) > 0 {
			vuln.CWE = raw.CWEs[0]
		}

		// Dependency-Check names findings after their CVE.
		if vuln.CVE == "" && cvePattern.MatchString(vuln.Name) {
			vuln.CVE = vuln.Name
		}

		if override, ok := p.SeverityOverrides[raw.Rule]; ok {
			vuln.Severity = models.NormalizeSeverity(override)
		} else if override, ok := p.SeverityOverrides[raw.Name]; ok {
			vuln.Severity = models.NormalizeSeverity(override)
		}

		if vuln.ID == "" {
			vuln.ID = models.GenerateVulnerabilityID(vuln.Name, vuln.CVE, vuln.File, vuln.Line)
			p.logger.Debug("Assigned generated ID to finding", "id", vuln.ID, "name", vuln.Name)
		}

		if err := vuln.Validate(); err != nil {
			return nil, fmt.Errorf("invalid finding at index %d: %w", i, err)
		}

		vulns = append(vulns, vuln)
	}

	return vulns, nil
}
