// Package compliance names the OWASP LLM Top 10 categories used to
// cross-reference technique families in vulnerability findings.
package compliance

// OWASPLLMCategory is one of the OWASP LLM Top 10 categories.
type OWASPLLMCategory string

// OWASP LLM Top 10 categories.
const (
	PromptInjection            OWASPLLMCategory = "LLM01"
	InsecureOutputHandling     OWASPLLMCategory = "LLM02"
	TrainingDataPoisoning      OWASPLLMCategory = "LLM03"
	ModelDenialOfService       OWASPLLMCategory = "LLM04"
	SupplyChainVulnerabilities OWASPLLMCategory = "LLM05"
	SensitiveInfoDisclosure    OWASPLLMCategory = "LLM06"
	InsecurePluginDesign       OWASPLLMCategory = "LLM07"
	ExcessiveAgency            OWASPLLMCategory = "LLM08"
	Overreliance               OWASPLLMCategory = "LLM09"
	ModelTheft                 OWASPLLMCategory = "LLM10"
)
