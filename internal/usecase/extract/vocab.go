package extract

import "strings"

// alias maps a phrase found in text to its canonical form.
type alias struct {
	phrase    string
	canonical string
}

// skillVocabulary lists language, platform and tooling phrases. Canonical
// forms are chosen to be substrings of typical roster skill cells.
var skillVocabulary = []alias{
	{"python", "python"},
	{"pyspark", "pyspark"},
	{"java", "java"},
	{"javascript", "javascript"},
	{"js", "javascript"},
	{"typescript", "typescript"},
	{"golang", "golang"},
	{"react", "react"},
	{"reactjs", "react"},
	{"react.js", "react"},
	{"angular", "angular"},
	{"angularjs", "angular"},
	{"vue", "vue"},
	{"vuejs", "vue"},
	{"node", "node"},
	{"nodejs", "node"},
	{"node.js", "node"},
	{"docker", "docker"},
	{"kubernetes", "kubernetes"},
	{"k8s", "kubernetes"},
	{"aws", "aws"},
	{"azure", "azure"},
	{"gcp", "gcp"},
	{"sql", "sql"},
	{"mysql", "mysql"},
	{"postgresql", "postgres"},
	{"postgres", "postgres"},
	{"mongodb", "mongo"},
	{"mongo", "mongo"},
	{"redis", "redis"},
	{"kafka", "kafka"},
	{"spark", "spark"},
	{"hadoop", "hadoop"},
	{"snowflake", "snowflake"},
	{"databricks", "databricks"},
	{"devops", "devops"},
	{"terraform", "terraform"},
	{"ansible", "ansible"},
	{"jenkins", "jenkins"},
	{"linux", "linux"},
	{"salesforce", "salesforce"},
	{"sap", "sap"},
	{"asp.net", ".net"},
	{".net", ".net"},
	{"dotnet", ".net"},
	{"c#", "c#"},
	{"c++", "c++"},
	{"php", "php"},
	{"ruby", "ruby"},
	{"rails", "rails"},
	{"scala", "scala"},
	{"rust", "rust"},
	{"kotlin", "kotlin"},
	{"swift", "swift"},
	{"flutter", "flutter"},
	{"android", "android"},
	{"ios", "ios"},
	{"django", "django"},
	{"flask", "flask"},
	{"spring boot", "spring"},
	{"spring", "spring"},
	{"microservices", "microservices"},
	{"graphql", "graphql"},
	{"html", "html"},
	{"css", "css"},
	{"figma", "figma"},
	{"machine learning", "machine learning"},
	{"ml", "machine learning"},
	{"artificial intelligence", "ai"},
	{"ai", "ai"},
	{"tableau", "tableau"},
	{"power bi", "power bi"},
	{"selenium", "selenium"},
}

// cityVocabulary is checked in order; multi-word names precede their suffixes.
var cityVocabulary = []alias{
	{"new delhi", "Delhi"},
	{"delhi", "Delhi"},
	{"bangalore", "Bangalore"},
	{"bengaluru", "Bangalore"},
	{"pune", "Pune"},
	{"mumbai", "Mumbai"},
	{"bombay", "Mumbai"},
	{"hyderabad", "Hyderabad"},
	{"chennai", "Chennai"},
	{"madras", "Chennai"},
	{"noida", "Noida"},
	{"gurgaon", "Gurugram"},
	{"gurugram", "Gurugram"},
	{"kolkata", "Kolkata"},
	{"calcutta", "Kolkata"},
	{"ahmedabad", "Ahmedabad"},
	{"kochi", "Kochi"},
	{"cochin", "Kochi"},
	{"coimbatore", "Coimbatore"},
	{"indore", "Indore"},
	{"jaipur", "Jaipur"},
	{"chandigarh", "Chandigarh"},
	{"trivandrum", "Trivandrum"},
	{"thiruvananthapuram", "Trivandrum"},
	{"nagpur", "Nagpur"},
	{"mysore", "Mysore"},
	{"mysuru", "Mysore"},
	{"new york", "New York"},
	{"san francisco", "San Francisco"},
	{"london", "London"},
	{"singapore", "Singapore"},
	{"dubai", "Dubai"},
	{"sydney", "Sydney"},
	{"toronto", "Toronto"},
	{"berlin", "Berlin"},
	{"amsterdam", "Amsterdam"},
	{"seattle", "Seattle"},
	{"austin", "Austin"},
	{"chicago", "Chicago"},
}

// departmentVocabulary is checked in order, first match wins.
var departmentVocabulary = []alias{
	{"data science", "Data Science"},
	{"data engineering", "Data Engineering"},
	{"quality assurance", "QA"},
	{"qa", "QA"},
	{"testing", "QA"},
	{"human resources", "HR"},
	{"hr", "HR"},
	{"finance", "Finance"},
	{"accounts", "Finance"},
	{"presales", "Presales"},
	{"pre-sales", "Presales"},
	{"sales", "Sales"},
	{"marketing", "Marketing"},
	{"engineering", "Engineering"},
	{"delivery", "Delivery"},
	{"operations", "Operations"},
	{"administration", "Administration"},
	{"admin", "Administration"},
	{"design", "Design"},
	{"ux", "Design"},
	{"infrastructure", "Infrastructure"},
	{"cloud", "Cloud"},
	{"cybersecurity", "Security"},
	{"security", "Security"},
	{"analytics", "Analytics"},
	{"consulting", "Consulting"},
	{"r&d", "R&D"},
	{"research", "R&D"},
}

// Deployment phrase sets, one per flag.
var (
	freePhrases     = []string{"free pool", "freepool", "free", "bench", "unallocated", "unassigned", "idle"}
	billablePhrases = []string{"billable", "billed"}
	budgetedPhrases = []string{"budgeted", "budget"}
	supportPhrases  = []string{"support"}
)

// genericStopWordList holds roster words that never form part of a person's name.
var genericStopWordList = []string{
	"a", "about", "all", "an", "and", "any", "are", "at", "available", "based",
	"count", "department", "departments", "deployment", "detail", "details", "developer", "developers",
	"devs", "display", "employee", "employees", "engineer", "engineers", "everybody",
	"everyone", "every", "experience", "expert", "experts", "fetch", "find", "folks",
	"for", "from", "get", "give", "has", "have", "having", "hello", "help", "hi", "how",
	"in", "info", "information", "is", "know", "knows", "list", "located", "location",
	"locations", "many", "me", "member", "members", "my", "number", "of", "on", "or",
	"our", "people", "person", "persons", "please", "pool", "profile", "project",
	"projects", "resource", "resources", "roster", "search", "show", "skill", "skills",
	"staff", "status", "team", "teams", "tell", "the", "their", "total", "what", "which", "who",
	"with", "work", "working", "works", "year", "years", "yrs",
}

// nonPlaceWords follow "in", "at" or "from" in ordinary phrasing but never
// name a city ("in charge", "at home").
var nonPlaceWords = map[string]struct{}{
	"addition": {}, "advance": {}, "case": {}, "charge": {}, "common": {}, "demand": {},
	"fact": {}, "future": {}, "general": {}, "hand": {}, "home": {}, "house": {},
	"least": {}, "most": {}, "office": {}, "order": {}, "particular": {}, "person": {},
	"place": {}, "progress": {}, "question": {}, "short": {}, "that": {}, "this": {},
	"these": {}, "those": {}, "time": {}, "touch": {}, "use": {},
}

func isNonPlaceWord(token string) bool {
	_, ok := nonPlaceWords[token]
	return ok
}

var (
	stopWords        = buildStopWords()
	genericStopWords = buildGenericStopWords()
)

func buildGenericStopWords() map[string]struct{} {
	set := make(map[string]struct{}, len(genericStopWordList))
	for _, w := range genericStopWordList {
		set[w] = struct{}{}
	}
	return set
}

func buildStopWords() map[string]struct{} {
	set := make(map[string]struct{}, 512)
	add := func(phrase string) {
		for _, tok := range tokens(phrase) {
			set[tok] = struct{}{}
		}
	}
	for _, w := range genericStopWordList {
		add(w)
	}
	for _, list := range [][]alias{skillVocabulary, cityVocabulary, departmentVocabulary} {
		for _, a := range list {
			add(a.phrase)
		}
	}
	for _, list := range [][]string{freePhrases, billablePhrases, budgetedPhrases, supportPhrases} {
		for _, p := range list {
			add(p)
		}
	}
	return set
}

func isGenericStopWord(token string) bool {
	_, ok := genericStopWords[token]
	return ok
}

// IsStopWord reports whether a single lower-case token is reserved roster vocabulary.
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(token)]
	return ok
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '.' || r == '\'' || r == ',' || r == '\t'
	})
}

// containsWord reports whether phrase occurs in text delimited by non-alphanumerics
// or the text edges. Both arguments must be lower-case.
func containsWord(text, phrase string) bool {
	return indexWord(text, phrase) >= 0
}

// indexWord returns the byte offset of the first whole-word occurrence or -1.
func indexWord(text, phrase string) int {
	if phrase == "" {
		return -1
	}
	for from := 0; from <= len(text)-len(phrase); {
		j := strings.Index(text[from:], phrase)
		if j < 0 {
			return -1
		}
		start := from + j
		if isBoundary(text, start-1) && isBoundary(text, start+len(phrase)) {
			return start
		}
		from = start + 1
	}
	return -1
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return (c < 'a' || c > 'z') && (c < '0' || c > '9')
}

func containsAnyWord(text string, phrases []string) bool {
	for _, p := range phrases {
		if containsWord(text, p) {
			return true
		}
	}
	return false
}
