package constants

// AnalysisKind is the canonical kind for rows in analysis_results.
type AnalysisKind string

// Stable values (store these exact strings in DB).
const (
	AnalysisText     AnalysisKind = "TEXT"     // word statistics of a text file
	AnalysisCSV      AnalysisKind = "CSV"      // column summary of a CSV file
	AnalysisIdentity AnalysisKind = "IDENTITY" // identity fields found in a scan
)

// Label is the human readable name used in exported sheets and summaries.
func (k AnalysisKind) Label() string {
	switch k {
	case AnalysisText:
		return "Text Analysis"
	case AnalysisCSV:
		return "CSV Analysis"
	case AnalysisIdentity:
		return "OCR Identity"
	default:
		return string(k)
	}
}
