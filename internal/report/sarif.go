package report

import (
	"encoding/json"
	"io"

	"github.com/nuvai/nuvai/internal/types"
)

// ToolVersion is reported as the SARIF driver version. The CLI sets it from
// its build version.
var ToolVersion = "dev"

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
	Help             sarifMessage `json:"help"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt `json:"artifactLocation"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

func sevToLevel(s types.Severity) string {
	switch s.Rank() {
	case 5, 4:
		return "error"
	case 3, 2:
		return "warning"
	default:
		return "note"
	}
}

// ruleID prefers the check ID; gate findings fall back to their category.
func ruleID(f types.Finding) string {
	if f.Check != "" {
		return f.Check
	}
	return "nuvai." + f.Category
}

// WriteSARIF writes actionable findings as SARIF 2.1.0.
func WriteSARIF(w io.Writer, findings []types.Finding) error {
	return WriteSARIFWithStats(w, findings, nil)
}

// WriteSARIFWithStats is WriteSARIF with scan statistics attached to the run
// properties under "scanStats".
func WriteSARIFWithStats(w io.Writer, findings []types.Finding, stats map[string]int) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{Name: "nuvai", Version: ToolVersion, Rules: []sarifRule{}}},
	}
	index := map[string]int{}
	for _, f := range Actionable(findings) {
		id := ruleID(f)
		idx, ok := index[id]
		if !ok {
			idx = len(run.Tool.Driver.Rules)
			index[id] = idx
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
				ID:               id,
				Name:             f.Category,
				ShortDescription: sarifMessage{Text: f.Category},
				Help:             sarifMessage{Text: f.Recommendation},
			})
		}
		res := sarifResult{
			RuleID:    id,
			RuleIndex: idx,
			Level:     sevToLevel(f.Severity),
			Message:   sarifMessage{Text: f.Message},
		}
		if f.Path != "" {
			res.Locations = []sarifLoc{{PhysicalLocation: sarifPhys{ArtifactLocation: sarifArt{URI: f.Path}}}}
		}
		run.Results = append(run.Results, res)
	}
	if run.Results == nil {
		run.Results = []sarifResult{}
	}
	if len(stats) > 0 {
		run.Properties = map[string]any{"scanStats": stats}
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
