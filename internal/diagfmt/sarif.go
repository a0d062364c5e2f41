package diagfmt

import (
	"encoding/json"
	"io"
	"slices"

	"trivet/internal/diag"
	"trivet/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string                `json:"name"`
	Version        string                `json:"version,omitempty"`
	InformationURI string                `json:"informationUri,omitempty"`
	Rules          []sarifReportingDescr `json:"rules,omitempty"`
}

type sarifReportingDescr struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name,omitempty"`
	ShortDescription     *sarifText   `json:"shortDescription,omitempty"`
	DefaultConfiguration *sarifConfig `json:"defaultConfiguration,omitempty"`
}

type sarifConfig struct {
	Level   string `json:"level"`
	Enabled bool   `json:"enabled"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	Level            string          `json:"level"`
	Message          sarifText       `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes            []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	ID               int                   `json:"id,omitempty"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifText            `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description     sarifText             `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifact       `json:"artifactLocation"`
	Replacements     []sarifReplacement `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion `json:"deletedRegion"`
	InsertedContent sarifText   `json:"insertedContent"`
}

// SarifLevel maps a severity onto the SARIF result level.
func SarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "note"
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0).
// Колонки в SARIF 1-based и считаются в байтах, как и в остальных выводах.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           meta.ToolName,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
		}},
		Results: []sarifResult{},
	}
	for _, r := range meta.Rules {
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifReportingDescr{
			ID:                   r.ID,
			Name:                 r.Name,
			ShortDescription:     &sarifText{Text: r.Description},
			DefaultConfiguration: &sarifConfig{Level: r.Level, Enabled: r.Enabled},
		})
	}

	hasErrors := false
	ctx := diag.FixBuildContext{FileSet: fs}
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			hasErrors = true
		}
		res := sarifResult{
			RuleID:    d.Code.ID(),
			Level:     SarifLevel(d.Severity),
			Message:   sarifText{Text: d.Message},
			Locations: []sarifLocation{{PhysicalLocation: sarifPhysical(fs, d.Primary, meta.PathMode)}},
		}
		for i, n := range d.Notes {
			res.RelatedLocations = append(res.RelatedLocations, sarifLocation{
				ID:               i + 1,
				PhysicalLocation: sarifPhysical(fs, n.Span, meta.PathMode),
				Message:          &sarifText{Text: n.Msg},
			})
		}
		for _, f := range sortFixes(d.Fixes) {
			resolved, err := f.Resolve(ctx)
			if err != nil || len(resolved.Edits) == 0 {
				continue
			}
			res.Fixes = append(res.Fixes, sarifFixOf(fs, resolved, meta.PathMode))
		}
		run.Results = append(run.Results, res)
	}
	if meta.InvocationArgs != nil {
		run.Invocations = []sarifInvocation{{
			Arguments:           slices.Clone(meta.InvocationArgs),
			ExecutionSuccessful: !hasErrors,
		}}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}

func sarifPhysical(fs *source.FileSet, sp source.Span, mode PathMode) sarifPhysicalLocation {
	return sarifPhysicalLocation{
		ArtifactLocation: sarifArtifact{URI: displayPath(fs, fs.Get(sp.File), mode)},
		Region:           sarifRegionOf(fs, sp),
	}
}

func sarifRegionOf(fs *source.FileSet, sp source.Span) sarifRegion {
	start, end := fs.Resolve(sp)
	return sarifRegion{
		StartLine:   start.Line,
		StartColumn: start.Col,
		EndLine:     end.Line,
		EndColumn:   end.Col,
		ByteOffset:  sp.Start,
		ByteLength:  sp.Len(),
	}
}

// sarifFixOf groups the edits of one fix by file, keeping edit order.
func sarifFixOf(fs *source.FileSet, f diag.Fix, mode PathMode) sarifFix {
	out := sarifFix{Description: sarifText{Text: f.Title}}
	index := make(map[source.FileID]int)
	for _, e := range f.Edits {
		i, ok := index[e.Span.File]
		if !ok {
			i = len(out.ArtifactChanges)
			index[e.Span.File] = i
			out.ArtifactChanges = append(out.ArtifactChanges, sarifArtifactChange{
				ArtifactLocation: sarifArtifact{URI: displayPath(fs, fs.Get(e.Span.File), mode)},
			})
		}
		out.ArtifactChanges[i].Replacements = append(out.ArtifactChanges[i].Replacements, sarifReplacement{
			DeletedRegion:   sarifRegionOf(fs, e.Span),
			InsertedContent: sarifText{Text: e.NewText},
		})
	}
	return out
}
