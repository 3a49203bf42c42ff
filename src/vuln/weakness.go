package vuln

import (
	"fmt"

	"github.com/redforge/a2aeval/src/catalog"
	"github.com/redforge/a2aeval/src/compliance"
)

// owaspLLMCategory maps a technique family to the OWASP LLM Top 10
// category (reusing the category identifiers the compliance package defines)
// used as the vulnerability's weakness-classification hint. This is an
// approximate cross-reference, not a claim of formal OWASP mapping
// compliance.
var owaspLLMCategory = map[catalog.Family]compliance.OWASPLLMCategory{
	catalog.FamilyPromptInjection:  compliance.PromptInjection,
	catalog.FamilyCommandExecution: compliance.InsecureOutputHandling,
	catalog.FamilySQLInjection:     compliance.InsecureOutputHandling,
	catalog.FamilyExfiltration:     compliance.SensitiveInfoDisclosure,
	catalog.FamilyAuthBypass:       compliance.ExcessiveAgency,
	catalog.FamilyDoS:              compliance.ModelDenialOfService,
	catalog.FamilyOther:            compliance.ExcessiveAgency,
}

// owaspLLMName gives the short display name for each category. The
// compliance package defines only the category identifiers, so the
// display names are kept here.
var owaspLLMName = map[compliance.OWASPLLMCategory]string{
	compliance.PromptInjection:            "Prompt Injection",
	compliance.InsecureOutputHandling:     "Insecure Output Handling",
	compliance.SensitiveInfoDisclosure:    "Sensitive Information Disclosure",
	compliance.ExcessiveAgency:            "Excessive Agency",
	compliance.ModelDenialOfService:       "Model Denial of Service",
}

func weaknessHint(family catalog.Family) string {
	cat, ok := owaspLLMCategory[family]
	if !ok {
		cat = owaspLLMCategory[catalog.FamilyOther]
	}
	return fmt.Sprintf("%s: %s", cat, owaspLLMName[cat])
}
