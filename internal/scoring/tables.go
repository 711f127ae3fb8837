package scoring

// CertFamily names a known certification family and the keywords that signal
// it inside a criterion description.
type CertFamily struct {
	Name     string
	Keywords []string
}

// Tables groups the read-only lookup data the scorers depend on. A Scorer is
// built against one immutable instance; nothing in the package mutates it.
type Tables struct {
	CertFamilies       []CertFamily
	ExperienceKeywords []string
	RegionKeywords     []string
	StopWords          []string

	// ProjectUnits and EmployeeUnits are regexp alternations handed to the
	// extract package when pulling counts out of free text.
	ProjectUnits  string
	EmployeeUnits string
}

// DefaultTables returns the standard French lookup data used in production.
func DefaultTables() *Tables {
	return &Tables{
		CertFamilies: []CertFamily{
			{Name: "MASE", Keywords: []string{"mase"}},
			{Name: "ISO 9001", Keywords: []string{"iso 9001", "iso9001", "qualité"}},
			{Name: "ISO 14001", Keywords: []string{"iso 14001", "iso14001", "environnement"}},
			{Name: "QUALIBAT", Keywords: []string{"qualibat"}},
			{Name: "QUALIFELEC", Keywords: []string{"qualifelec"}},
		},
		ExperienceKeywords: []string{
			"expérience", "projets similaires", "réalisations",
			"antécédents", "travaux similaires",
		},
		RegionKeywords: []string{
			"île-de-france", "ile-de-france", "idf", "paris",
			"nord", "est", "ouest", "sud",
			"région parisienne", "national",
		},
		StopWords: []string{
			"pour", "avec", "dans", "les", "des", "qui", "est", "sont", "ont",
		},
		ProjectUnits:  `projets?`,
		EmployeeUnits: `salariés|employés|personnes`,
	}
}

func (t *Tables) isStopWord(word string) bool {
	for _, stop := range t.StopWords {
		if word == stop {
			return true
		}
	}
	return false
}
